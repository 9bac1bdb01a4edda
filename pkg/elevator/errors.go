package elevator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected request. Every kind is caused by caller
// input; none of them is retryable.
type ErrorKind int

const (
	InvalidFloorHigh ErrorKind = iota + 1
	InvalidFloorLow
	TopFloorUpForbidden
	BottomFloorDownForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFloorHigh:
		return "InvalidFloorHigh"
	case InvalidFloorLow:
		return "InvalidFloorLow"
	case TopFloorUpForbidden:
		return "TopFloorUpForbidden"
	case BottomFloorDownForbidden:
		return "BottomFloorDownForbidden"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error lets a kind be matched with errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Op names the intake operation that rejected a request.
type Op string

const (
	OpGo   Op = "go"
	OpCall Op = "call"
)

// RequestError reports a rejected Go or Call. Presentation layers turn it
// into text; the fields carry everything needed to do so.
type RequestError struct {
	Op        Op
	Kind      ErrorKind
	Floor     int
	Floors    int
	Direction Direction
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("elevator: %s floor %d: %s (floors 1..%d)", e.Op, e.Floor, e.Kind, e.Floors)
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

var (
	// ErrInvalidConfig wraps every configuration rejected by New.
	ErrInvalidConfig = errors.New("invalid elevator config")
	// ErrStopped is returned once the Run loop has exited.
	ErrStopped = errors.New("elevator stopped")
)

// validateRequest checks a request against the building. dir is DirNone for Go.
func validateRequest(op Op, floors, floor int, dir Direction) error {
	var kind ErrorKind
	switch {
	case floor > floors:
		kind = InvalidFloorHigh
	case floor < 1:
		kind = InvalidFloorLow
	case op == OpCall && floor == floors && dir == DirUp:
		kind = TopFloorUpForbidden
	case op == OpCall && floor == 1 && dir == DirDown:
		kind = BottomFloorDownForbidden
	default:
		return nil
	}
	return &RequestError{Op: op, Kind: kind, Floor: floor, Floors: floors, Direction: dir}
}
