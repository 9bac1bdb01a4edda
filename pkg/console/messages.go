// Package console is the text front end of the controller: it parses
// commands, renders the building and turns errors into user-facing messages.
package console

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"go-elevator-controller/pkg/elevator"
)

// Error codes shown to the user.
const (
	CodeCallAboveTop   = "ERR01"
	CodeCallBelowFirst = "ERR02"
	CodeCallTopUp      = "ERR03"
	CodeCallBottomDown = "ERR04"
	CodeGoAboveTop     = "ERR05"
	CodeGoBelowFirst   = "ERR06"
)

var entries = map[string]string{
	CodeCallAboveTop:   "Elevator can not be called from floor %d. Building only has %d floors.",
	CodeCallBelowFirst: "Elevator can not be called from floor %d. Minimum floor elevator can go is 1.",
	CodeCallTopUp:      "Elevator can not be called to go up. Calling floor is the top floor.",
	CodeCallBottomDown: "Elevator can not be called to go down. Calling floor is the bottom floor.",
	CodeGoAboveTop:     "Elevator can not go to floor %d. Building only has %d floors.",
	CodeGoBelowFirst:   "Elevator can not go to floor %d. Minimum floor elevator can go is 1.",
}

// Messages formats errors for one language.
type Messages struct {
	p *message.Printer
}

// defaultCatalog holds the English texts. A broken entry is a programming
// error and stops the program at init.
var defaultCatalog = mustBuildCatalog(entries)

func buildCatalog(texts map[string]string) (catalog.Catalog, error) {
	b := catalog.NewBuilder()
	for key, msg := range texts {
		if err := b.SetString(language.English, key, msg); err != nil {
			return nil, fmt.Errorf("catalog entry %s: %w", key, err)
		}
	}
	return b, nil
}

func mustBuildCatalog(texts map[string]string) catalog.Catalog {
	c, err := buildCatalog(texts)
	if err != nil {
		panic(err)
	}
	return c
}

// NewMessages returns a printer over the catalog. Only English is shipped.
func NewMessages() *Messages {
	return &Messages{p: message.NewPrinter(language.English, message.Catalog(defaultCatalog))}
}

// Code maps a request error to its user-facing code.
func Code(e *elevator.RequestError) string {
	if e.Op == elevator.OpGo {
		switch e.Kind {
		case elevator.InvalidFloorHigh:
			return CodeGoAboveTop
		case elevator.InvalidFloorLow:
			return CodeGoBelowFirst
		}
		return ""
	}
	switch e.Kind {
	case elevator.InvalidFloorHigh:
		return CodeCallAboveTop
	case elevator.InvalidFloorLow:
		return CodeCallBelowFirst
	case elevator.TopFloorUpForbidden:
		return CodeCallTopUp
	case elevator.BottomFloorDownForbidden:
		return CodeCallBottomDown
	}
	return ""
}

// Describe returns the code and text for err. Errors that are not request
// errors have no code and keep their own message.
func (m *Messages) Describe(err error) (code, text string) {
	var reqErr *elevator.RequestError
	if !errors.As(err, &reqErr) {
		return "", err.Error()
	}

	code = Code(reqErr)
	switch code {
	case "":
		return "", err.Error()
	case CodeCallAboveTop, CodeGoAboveTop:
		return code, m.p.Sprintf(code, reqErr.Floor, reqErr.Floors)
	case CodeCallBelowFirst, CodeGoBelowFirst:
		return code, m.p.Sprintf(code, reqErr.Floor)
	default:
		return code, m.p.Sprintf(code)
	}
}

// Format renders err the way the console prints it.
func (m *Messages) Format(err error) string {
	code, text := m.Describe(err)
	if code == "" {
		return text
	}
	return m.p.Sprintf("Error Code: %s, %s", code, text)
}
