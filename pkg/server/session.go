// Package server exposes a controller over a websocket.
// 웹소켓 세션마다 하나의 엘리베이터 컨트롤러를 생성하고 상태/이벤트를 스트리밍합니다.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-elevator-controller/pkg/console"
	"go-elevator-controller/pkg/elevator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Action    string          `json:"action"`
	Config    *ElevatorConfig `json:"config,omitempty"`
	Floor     int             `json:"floor,omitempty"`
	Direction string          `json:"direction,omitempty"`
}

// ElevatorConfig is the init payload. Durations are in seconds.
type ElevatorConfig struct {
	ID         string  `json:"id"`
	Floors     int     `json:"floors"`
	Capacity   int     `json:"capacity"`
	TravelTime float64 `json:"travelTime"`
	DwellTime  float64 `json:"dwellTime"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type      string      `json:"type"`
	EventType string      `json:"eventType,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message,omitempty"`
	State     *StateView  `json:"state,omitempty"`
}

// StateView is the JSON form of a snapshot. DroppedEvents counts events
// lost because the session fell behind the controller.
type StateView struct {
	Floor         int                `json:"floor"`
	NextFloor     int                `json:"nextFloor"`
	Direction     string             `json:"direction"`
	State         string             `json:"state"`
	Weight        float64            `json:"weight"`
	Floors        int                `json:"floors"`
	Capacity      int                `json:"capacity"`
	Pending       []elevator.Request `json:"pending"`
	Deferred      []elevator.Request `json:"deferred"`
	DroppedEvents uint64             `json:"droppedEvents"`
}

func newStateView(e *elevator.Controller) *StateView {
	s := e.Snapshot()
	return &StateView{
		Floor:         s.CurrentFloor,
		NextFloor:     s.NextFloor,
		Direction:     string(s.Direction),
		State:         string(s.State),
		Weight:        s.Weight,
		Floors:        s.Floors,
		Capacity:      s.Capacity,
		Pending:       s.Pending,
		Deferred:      s.Deferred,
		DroppedEvents: e.DroppedEventCount(),
	}
}

// Defaults fill in init messages that leave fields out.
type Defaults struct {
	Config elevator.Config
	// OnEvent, when set, sees every controller event (e.g. a diagnostics journal).
	OnEvent func(elevator.Event)
}

// Handler upgrades requests to websocket sessions.
type Handler struct {
	defaults Defaults
	messages *console.Messages
}

// NewHandler returns an http.Handler serving elevator sessions.
func NewHandler(defaults Defaults) *Handler {
	return &Handler{defaults: defaults, messages: console.NewMessages()}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	session := newSession(conn, h)
	session.HandleMessages()
}

// session manages a WebSocket connection with an elevator instance.
type session struct {
	h       *Handler
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.Mutex
	elevator *elevator.Controller
	cancel   context.CancelFunc
	done     chan struct{}
}

func newSession(conn *websocket.Conn, h *Handler) *session {
	return &session{
		h:    h,
		conn: conn,
		done: make(chan struct{}),
	}
}

// HandleMessages reads client messages until the connection closes.
func (s *session) HandleMessages() {
	slog.Info("Session started", "remote_addr", s.conn.RemoteAddr())
	defer func() {
		close(s.done)
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		_ = s.conn.Close()
		slog.Info("Session ended", "remote_addr", s.conn.RemoteAddr())
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

func (s *session) current() *elevator.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elevator
}

func (s *session) handleAction(msg ClientMessage) {
	slog.Debug("Action received", "action", msg.Action, "payload", msg)

	if msg.Action == "init" {
		s.initElevator(msg.Config)
		return
	}

	e := s.current()
	if e == nil {
		s.sendError(elevator.ErrStopped)
		return
	}

	switch msg.Action {
	case "go":
		if err := e.Go(msg.Floor); err != nil {
			s.sendError(err)
		}
		s.sendState(e)
	case "call":
		if err := e.Call(msg.Floor, elevator.Direction(msg.Direction)); err != nil {
			s.sendError(err)
		}
		s.sendState(e)
	case "shutdown":
		// Shutdown blocks until the queue drains; keep reading meanwhile.
		go func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				select {
				case <-s.done:
					cancel()
				case <-ctx.Done():
				}
			}()
			if err := e.Shutdown(ctx); err != nil {
				s.sendError(err)
				return
			}
			s.writeJSON(ServerMessage{Type: "shutdown", State: newStateView(e)})
		}()
	case "getState":
		s.sendState(e)
	default:
		slog.Warn("Unknown action", "action", msg.Action)
	}
}

func (s *session) initElevator(cfg *ElevatorConfig) {
	config := s.h.defaults.Config
	if cfg != nil {
		if cfg.ID != "" {
			config.ID = cfg.ID
		}
		if cfg.Floors != 0 {
			config.Floors = cfg.Floors
		}
		if cfg.Capacity != 0 {
			config.Capacity = cfg.Capacity
		}
		if cfg.TravelTime > 0 {
			config.TravelTime = time.Duration(cfg.TravelTime * float64(time.Second))
		}
		if cfg.DwellTime > 0 {
			config.DwellTime = time.Duration(cfg.DwellTime * float64(time.Second))
		}
	}
	slog.Info("Elevator config", "config", config)

	e, err := elevator.New(config)
	if err != nil {
		slog.Error("Failed to initialize elevator", "error", err)
		s.sendError(err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel() // Stop existing elevator if any
	}
	s.elevator = e
	s.cancel = cancel
	s.mu.Unlock()

	go s.eventListener(ctx, e)
	go func() {
		if err := e.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("Elevator run error", "error", err)
		}
	}()

	slog.Info("Elevator initialized", "id", config.ID, "floors", config.Floors)
	s.sendState(e)
}

func (s *session) eventListener(ctx context.Context, e *elevator.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-e.Events():
			if s.h.defaults.OnEvent != nil {
				s.h.defaults.OnEvent(event)
			}
			s.writeJSON(ServerMessage{
				Type:      "event",
				EventType: string(event.Type),
				Payload:   event.Payload,
				Timestamp: event.Timestamp.Format("15:04:05"),
			})
			s.sendState(e)
		}
	}
}

func (s *session) sendState(e *elevator.Controller) {
	s.writeJSON(ServerMessage{Type: "state", State: newStateView(e)})
}

func (s *session) sendError(err error) {
	code, text := s.h.messages.Describe(err)
	s.writeJSON(ServerMessage{Type: "error", Code: code, Message: text})
}

func (s *session) writeJSON(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Error("Failed to write JSON message", "error", err)
	}
}
