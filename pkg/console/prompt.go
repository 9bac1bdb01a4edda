package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-elevator-controller/pkg/elevator"
)

const (
	DefaultFloors   = 10
	DefaultCapacity = 1000
)

// LineReader yields one line of user input without the trailing newline.
type LineReader interface {
	ReadLine() (string, error)
}

type question struct {
	ask     string
	def     int
	valid   func(int) bool
	invalid string
}

// ask repeats q until the answer is empty (default) or valid.
func ask(r LineReader, w io.Writer, q question) (int, error) {
	for {
		fmt.Fprintln(w, q.ask)
		fmt.Fprintf(w, "Enter value (Default %d): ", q.def)

		line, err := r.ReadLine()
		if err != nil {
			return q.def, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return q.def, nil
		}
		if n, err := strconv.Atoi(line); err == nil && q.valid(n) {
			return n, nil
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, q.invalid)
		fmt.Fprintln(w)
	}
}

// PromptFloors asks for the number of floors the car serves.
func PromptFloors(r LineReader, w io.Writer) (int, error) {
	return ask(r, w, question{
		ask: fmt.Sprintf("How many floors that elevator can move? (Between %d-%d)", elevator.MinFloors, elevator.MaxFloors),
		def: DefaultFloors,
		valid: func(n int) bool {
			return n >= elevator.MinFloors && n <= elevator.MaxFloors
		},
		invalid: fmt.Sprintf("You entered a invalid value, please enter a number between %d and %d.", elevator.MinFloors, elevator.MaxFloors),
	})
}

// PromptCapacity asks for the carrying capacity in lbs.
func PromptCapacity(r LineReader, w io.Writer) (int, error) {
	return ask(r, w, question{
		ask: fmt.Sprintf("What is the carrying capacity of the elevator (in lbs)? (Minimum %d)", elevator.MinCapacity),
		def: DefaultCapacity,
		valid: func(n int) bool {
			return n >= elevator.MinCapacity
		},
		invalid: fmt.Sprintf("You entered a invalid value, please enter a number at least %d.", elevator.MinCapacity),
	})
}
