package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"go-elevator-controller/pkg/elevator"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
		err  error
	}{
		{"", Command{Kind: CmdNone}, nil},
		{"Q", Command{Kind: CmdQuit}, nil},
		{"q", Command{Kind: CmdQuit}, nil},
		{"7", Command{Kind: CmdGo, Floor: 7}, nil},
		{"0", Command{Kind: CmdGo, Floor: 0}, nil},
		{"3U", Command{Kind: CmdCall, Floor: 3, Direction: elevator.DirUp}, nil},
		{" 10d ", Command{Kind: CmdCall, Floor: 10, Direction: elevator.DirDown}, nil},
		{"U", Command{}, ErrUnknownCommand},
		{"3X", Command{}, ErrUnknownCommand},
		{"hello", Command{}, ErrUnknownCommand},
	}

	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseCommand(%q) error = %v, want %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

type recorder struct {
	calls []string
}

func (r *recorder) Go(floor int) error {
	r.calls = append(r.calls, "go")
	return nil
}

func (r *recorder) Call(floor int, dir elevator.Direction) error {
	r.calls = append(r.calls, "call "+string(dir))
	return nil
}

func TestCommand_Apply(t *testing.T) {
	r := &recorder{}
	for _, c := range []Command{
		{Kind: CmdGo, Floor: 2},
		{Kind: CmdCall, Floor: 3, Direction: elevator.DirDown},
		{Kind: CmdQuit},
	} {
		if err := c.Apply(r); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	if strings.Join(r.calls, ",") != "go,call Down" {
		t.Errorf("unexpected calls %v", r.calls)
	}
}

func TestMessages_Format(t *testing.T) {
	m := NewMessages()

	tests := []struct {
		err  *elevator.RequestError
		want string
	}{
		{
			&elevator.RequestError{Op: elevator.OpCall, Kind: elevator.InvalidFloorHigh, Floor: 11, Floors: 10},
			"Error Code: ERR01, Elevator can not be called from floor 11. Building only has 10 floors.",
		},
		{
			&elevator.RequestError{Op: elevator.OpCall, Kind: elevator.InvalidFloorLow, Floor: 0, Floors: 10},
			"Error Code: ERR02, Elevator can not be called from floor 0. Minimum floor elevator can go is 1.",
		},
		{
			&elevator.RequestError{Op: elevator.OpCall, Kind: elevator.TopFloorUpForbidden, Floor: 10, Floors: 10},
			"Error Code: ERR03, Elevator can not be called to go up. Calling floor is the top floor.",
		},
		{
			&elevator.RequestError{Op: elevator.OpCall, Kind: elevator.BottomFloorDownForbidden, Floor: 1, Floors: 10},
			"Error Code: ERR04, Elevator can not be called to go down. Calling floor is the bottom floor.",
		},
		{
			&elevator.RequestError{Op: elevator.OpGo, Kind: elevator.InvalidFloorHigh, Floor: 12, Floors: 10},
			"Error Code: ERR05, Elevator can not go to floor 12. Building only has 10 floors.",
		},
		{
			&elevator.RequestError{Op: elevator.OpGo, Kind: elevator.InvalidFloorLow, Floor: -1, Floors: 10},
			"Error Code: ERR06, Elevator can not go to floor -1. Minimum floor elevator can go is 1.",
		},
	}

	for _, tt := range tests {
		if got := m.Format(tt.err); got != tt.want {
			t.Errorf("Format(%v)\n got  %q\n want %q", tt.err, got, tt.want)
		}
	}

	if got := m.Format(elevator.ErrStopped); got != elevator.ErrStopped.Error() {
		t.Errorf("non-request error reformatted: %q", got)
	}
}

func TestBuildCatalog(t *testing.T) {
	c, err := buildCatalog(entries)
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}
	tags := c.Languages()
	if len(tags) != 1 || tags[0] != language.English {
		t.Errorf("expected English only, got %v", tags)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, elevator.Snapshot{
		Sensor: elevator.Sensor{
			CurrentFloor: 2,
			State:        elevator.Moving,
			Direction:    elevator.DirUp,
			Weight:       136.7,
		},
		Floors:   3,
		Capacity: 1000,
	})

	out := buf.String()
	for _, want := range []string{
		"Building has 3 floors and elevator has 1000 lbs carrying capacity.",
		"Floor  3 |   |\nFloor  2 |[*]|\nFloor  1 |   |\n",
		"Weight: 136.7, State: Moving Up\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q in:\n%s", want, out)
		}
	}
}

type lines struct {
	in []string
}

func (l *lines) ReadLine() (string, error) {
	if len(l.in) == 0 {
		return "", io.EOF
	}
	s := l.in[0]
	l.in = l.in[1:]
	return s, nil
}

func TestPromptFloors(t *testing.T) {
	var out bytes.Buffer

	// invalid answers are asked again
	n, err := PromptFloors(&lines{in: []string{"1", "abc", "16", "12"}}, &out)
	if err != nil || n != 12 {
		t.Errorf("PromptFloors = %d, %v; want 12", n, err)
	}
	if c := strings.Count(out.String(), "You entered a invalid value"); c != 3 {
		t.Errorf("expected 3 retries, got %d", c)
	}

	// empty answer picks the default
	n, err = PromptFloors(&lines{in: []string{""}}, io.Discard)
	if err != nil || n != DefaultFloors {
		t.Errorf("PromptFloors default = %d, %v", n, err)
	}
}

func TestPromptCapacity(t *testing.T) {
	n, err := PromptCapacity(&lines{in: []string{"149", "150"}}, io.Discard)
	if err != nil || n != 150 {
		t.Errorf("PromptCapacity = %d, %v; want 150", n, err)
	}

	n, err = PromptCapacity(&lines{}, io.Discard)
	if !errors.Is(err, io.EOF) || n != DefaultCapacity {
		t.Errorf("PromptCapacity on EOF = %d, %v", n, err)
	}
}
