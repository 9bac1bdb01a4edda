package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"go-elevator-controller/pkg/config"
	"go-elevator-controller/pkg/console"
	"go-elevator-controller/pkg/diagnostics"
	"go-elevator-controller/pkg/elevator"
	"go-elevator-controller/pkg/logging"
)

const clearScreen = "\033[H\033[2J"

// screen serializes everything written to the terminal.
type screen struct {
	mu   sync.Mutex
	w    io.Writer
	ctrl *elevator.Controller
	in   input
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// redraw repaints the building and the half-typed command.
func (s *screen) redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, clearScreen)
	console.Render(s.w, s.ctrl.Snapshot())
	fmt.Fprint(s.w, "Command: ", s.in.Pending())
}

func (s *screen) message(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, text)
	fmt.Fprint(s.w, "Command: ")
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	plain := flag.Bool("plain", false, "read whole lines from stdin instead of raw keys")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = logging.DefaultFileName(time.Now())
	}
	closer, err := logging.Setup(cfg.Log.Level, logFile)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	if err := run(cfg, *plain); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Console stopped", "error", err)
		fmt.Fprintln(os.Stderr, err)
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, plain bool) error {
	var (
		out io.Writer = os.Stdout
		in  input
	)
	if !plain {
		k, err := openKeyInput(crlfWriter{w: os.Stdout})
		if err != nil {
			slog.Warn("Raw keyboard unavailable, reading lines", "error", err)
		} else {
			out = k.echo
			in = k
		}
	}
	if in == nil {
		in = newLineInput(os.Stdin)
	}
	defer in.Close()

	floors, err := console.PromptFloors(in, out)
	if err != nil {
		return err
	}
	capacity, err := console.PromptCapacity(in, out)
	if err != nil {
		return err
	}

	ec := cfg.ElevatorConfig()
	ec.Floors = floors
	ec.Capacity = capacity
	ctrl, err := elevator.New(ec)
	if err != nil {
		return err
	}

	scr := &screen{w: out, ctrl: ctrl, in: in}
	if k, ok := in.(*keyInput); ok {
		k.echo = scr
	}

	journal := diagnostics.New(io.Discard, ec.ID)
	if cfg.Log.EventFile != "" {
		j, jc, err := diagnostics.Open(cfg.Log.EventFile, ec.ID)
		if err != nil {
			return err
		}
		defer jc.Close()
		journal = j
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- ctrl.Run(ctx) }()
	go journal.Consume(ctx, ctrl.Events(), func(elevator.Event) { scr.redraw() })

	scr.redraw()
	err = commandLoop(ctx, ctrl, in, scr)
	cancel()
	<-runErr
	return err
}

func commandLoop(ctx context.Context, ctrl *elevator.Controller, in input, scr *screen) error {
	messages := console.NewMessages()

	for {
		line, err := in.ReadLine()
		if errors.Is(err, errInterrupted) {
			return context.Canceled
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		cmd := console.Command{Kind: console.CmdQuit}
		if err == nil {
			cmd, err = console.ParseCommand(line)
			if err != nil {
				scr.message("Wrong command, please refer README.md for reference.")
				continue
			}
		}

		switch cmd.Kind {
		case console.CmdNone:
			scr.redraw()
		case console.CmdQuit:
			scr.message("Elevator will stop after serving every request...")
			if err := ctrl.Shutdown(ctx); err != nil {
				return err
			}
			scr.redraw()
			fmt.Fprintln(scr)
			return nil
		default:
			if err := cmd.Apply(ctrl); err != nil {
				scr.message(messages.Format(err))
				continue
			}
			scr.redraw()
		}
	}
}
