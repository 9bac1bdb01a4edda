// Package diagnostics records controller events as JSON lines.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"go-elevator-controller/pkg/elevator"
)

// Journal writes one JSON object per controller event.
type Journal struct {
	log zerolog.Logger
}

// New creates a journal writing to w.
func New(w io.Writer, carID string) *Journal {
	return &Journal{
		log: zerolog.New(w).With().Str("car", carID).Logger(),
	}
}

// Open appends to the journal file at path.
func Open(path, carID string) (*Journal, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return New(f, carID), f, nil
}

// Record writes a single event.
func (j *Journal) Record(ev elevator.Event) {
	var e *zerolog.Event
	switch p := ev.Payload.(type) {
	case elevator.RequestPayload:
		e = j.log.Info().
			Int("floor", p.Request.Floor).
			Str("origin", string(p.Request.Origin)).
			Str("direction", string(p.Request.Direction)).
			Bool("deferred", p.Deferred).
			Float64("weight", p.Weight)
	case elevator.MovePayload:
		e = j.log.Info().
			Int("floor", p.Floor).
			Int("target", p.Target).
			Str("direction", string(p.Direction)).
			Float64("weight", p.Weight)
	case elevator.Arrival:
		e = j.log.Info()
		if p.Deferred > 0 {
			e = j.log.Warn()
		}
		e = e.Int("floor", p.Floor).
			Int("boarded", p.Boarded).
			Int("alighted", p.Alighted).
			Int("deferred", p.Deferred).
			Float64("weight", p.Weight)
	case elevator.WeightPayload:
		e = j.log.Info().
			Int("floor", p.Floor).
			Float64("weight", p.Weight)
	default:
		e = j.log.Debug().Interface("payload", p)
	}

	e.Time(zerolog.TimestampFieldName, ev.Timestamp).
		Str("event", string(ev.Type)).
		Send()
}

// Consume records events until ctx is done or the channel is closed.
// forward, when set, receives every event after it has been recorded.
func (j *Journal) Consume(ctx context.Context, events <-chan elevator.Event, forward func(elevator.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			j.Record(ev)
			if forward != nil {
				forward(ev)
			}
		}
	}
}
