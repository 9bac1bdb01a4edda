package console

import (
	"errors"
	"strconv"
	"strings"

	"go-elevator-controller/pkg/elevator"
)

// ErrUnknownCommand is returned for input that is not a command.
var ErrUnknownCommand = errors.New("wrong command, please refer README.md for reference")

// CommandKind identifies a console command.
type CommandKind int

const (
	CmdNone CommandKind = iota // empty line
	CmdQuit
	CmdGo
	CmdCall
)

// Command is a parsed input line.
type Command struct {
	Kind      CommandKind
	Floor     int
	Direction elevator.Direction
}

// ParseCommand understands:
//
//	Q     shut down once every request has been served
//	7     press 7 inside the car
//	3U    call from floor 3 to go up
//	3D    call from floor 3 to go down
func ParseCommand(line string) (Command, error) {
	s := strings.ToUpper(strings.TrimSpace(line))
	switch {
	case s == "":
		return Command{Kind: CmdNone}, nil
	case s == "Q":
		return Command{Kind: CmdQuit}, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return Command{Kind: CmdGo, Floor: n}, nil
	}

	var dir elevator.Direction
	switch s[len(s)-1] {
	case 'U':
		dir = elevator.DirUp
	case 'D':
		dir = elevator.DirDown
	default:
		return Command{}, ErrUnknownCommand
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Command{}, ErrUnknownCommand
	}
	return Command{Kind: CmdCall, Floor: n, Direction: dir}, nil
}

// Requester is the part of the controller commands are applied to.
type Requester interface {
	Go(floor int) error
	Call(floor int, dir elevator.Direction) error
}

// Apply sends a Go or Call command to r. Other kinds are ignored.
func (c Command) Apply(r Requester) error {
	switch c.Kind {
	case CmdGo:
		return r.Go(c.Floor)
	case CmdCall:
		return r.Call(c.Floor, c.Direction)
	}
	return nil
}
