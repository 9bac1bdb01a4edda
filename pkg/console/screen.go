package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-elevator-controller/pkg/elevator"
)

var rule = strings.Repeat("-", 50)

// Render draws the building, top floor first, with the car on its floor.
func Render(w io.Writer, s elevator.Snapshot) {
	fmt.Fprintln(w, "Elevator is ready to travel!")
	fmt.Fprintln(w, "Please refer the README.md for command references.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Building has %d floors and elevator has %d lbs carrying capacity.\n", s.Floors, s.Capacity)
	fmt.Fprintln(w, rule)

	for f := s.Floors; f > 0; f-- {
		cell := "   "
		if f == s.CurrentFloor {
			load := " "
			if s.Weight > 0 {
				load = "*"
			}
			cell = "[" + load + "]"
		}
		fmt.Fprintf(w, "Floor %2d |%s|\n", f, cell)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Weight: %s, State: %s", strconv.FormatFloat(s.Weight, 'f', -1, 64), s.State)
	if s.State == elevator.Moving {
		fmt.Fprintf(w, " %s", s.Direction)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
