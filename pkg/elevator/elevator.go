// Package elevator implements a single-car elevator controller.
// 하나의 작업 고루틴(Run)이 센서, 큐, 백로그를 독점하며 모든 변경은 채널을 통해 직렬화됩니다.
// 방향 우선 최근접 층(closest-continue) 알고리즘으로 다음 정지 층을 결정합니다.
package elevator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/tiendc/go-deepcopy"
)

const (
	MinFloors   = 2
	MaxFloors   = 15
	MinCapacity = 150

	DefaultTravelTime  = 3 * time.Second
	DefaultDwellTime   = 1 * time.Second
	DefaultUnitWeight  = 136.7
	DefaultEventBuffer = 1000
)

// ErrInvalidDirection is returned by Call when the direction is neither up nor down.
var ErrInvalidDirection = errors.New("call direction must be Up or Down")

// EventType represents the category of a controller event.
// EventType는 컨트롤러 이벤트의 카테고리를 나타냅니다.
type EventType string

const (
	EventRequestAccepted   EventType = "RequestAccepted"
	EventDeparted          EventType = "Departed"
	EventFloorPassed       EventType = "FloorPassed"
	EventFloorArrived      EventType = "FloorArrived"
	EventShutdownRequested EventType = "ShutdownRequested"
	EventIdle              EventType = "Idle"
)

// Event carries a state transition for diagnostics collaborators.
// Event는 진단용 구독자에게 전달되는 상태 변화 정보를 담고 있습니다.
type Event struct {
	Type      EventType
	Payload   interface{}
	Timestamp time.Time
}

// RequestPayload is attached to EventRequestAccepted.
// RequestPayload는 요청 접수 이벤트의 세부 정보를 담고 있습니다.
type RequestPayload struct {
	Request  Request
	Deferred bool
	Weight   float64
}

// MovePayload is attached to EventDeparted and EventFloorPassed.
// MovePayload는 출발/통과 이벤트의 세부 정보를 담고 있습니다.
type MovePayload struct {
	Floor     int
	Target    int
	Direction Direction
	Weight    float64
}

// ArrivedPayload is attached to EventFloorArrived.
type ArrivedPayload = Arrival

// WeightPayload is attached to EventShutdownRequested and EventIdle.
// WeightPayload는 종료 요청/대기 이벤트의 세부 정보를 담고 있습니다.
type WeightPayload struct {
	Floor  int
	Weight float64
}

// Config holds immutable configuration parameters.
// Config는 시스템 시작 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	ID          string
	Floors      int           // 층 수, 2..15
	Capacity    int           // 최대 적재 무게 lbs
	TravelTime  time.Duration // 한 층 이동 시간
	DwellTime   time.Duration // 층 정지 시간
	UnitWeight  float64       // 승객 1인 기본 무게
	EventBuffer int
}

// DefaultConfig returns a config with the standard timing model.
func DefaultConfig(floors, capacity int) Config {
	return Config{
		ID:          "car-1",
		Floors:      floors,
		Capacity:    capacity,
		TravelTime:  DefaultTravelTime,
		DwellTime:   DefaultDwellTime,
		UnitWeight:  DefaultUnitWeight,
		EventBuffer: DefaultEventBuffer,
	}
}

// Snapshot is an immutable copy of the controller state published after
// every transition. Pending and Deferred must not be modified.
// Snapshot은 상태 전이마다 발행되는 읽기 전용 복사본입니다.
type Snapshot struct {
	Sensor
	Floors   int
	Capacity int
	Pending  []Request
	Deferred []Request
}

type phase int

const (
	phaseIdle    phase = iota // 대기
	phaseTransit              // 층간 이동 중
	phasePass                 // 통과 층에서 잠시 대기, 같은 목적지로 계속 이동
	phaseDwell                // 도착 층 정지 중
)

type intake struct {
	req Request
	ack chan struct{}
}

// Controller drives one car. All state lives in the Run goroutine; Go, Call
// and Shutdown talk to it through channels.
// Controller의 모든 상태는 Run 고루틴이 소유하며, 변경 요청은 채널로 직렬화됩니다.
type Controller struct {
	Config Config

	intakeCh   chan intake
	shutdownCh chan chan struct{}
	stopped    chan struct{}
	running    atomic.Bool

	snapshot atomic.Pointer[Snapshot]

	logger            *slog.Logger
	eventCh           chan Event
	droppedEventCount atomic.Uint64

	// owned by Run
	logic   *Logic
	phase   phase
	timer   *time.Timer
	waiters []chan struct{}
}

// New validates the configuration and returns a stopped controller.
// Run must be started before requests are accepted.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(config Config) (*Controller, error) {
	if config.Floors < MinFloors || config.Floors > MaxFloors {
		return nil, fmt.Errorf("%w: floors %d not in [%d,%d]", ErrInvalidConfig, config.Floors, MinFloors, MaxFloors)
	}
	if config.Capacity < MinCapacity {
		return nil, fmt.Errorf("%w: capacity %d below %d", ErrInvalidConfig, config.Capacity, MinCapacity)
	}
	if config.TravelTime < 0 || config.DwellTime < 0 || config.UnitWeight < 0 {
		return nil, fmt.Errorf("%w: negative timing or unit weight", ErrInvalidConfig)
	}

	if config.TravelTime == 0 {
		config.TravelTime = DefaultTravelTime
	}
	if config.DwellTime == 0 {
		config.DwellTime = DefaultDwellTime
	}
	if config.UnitWeight == 0 {
		config.UnitWeight = DefaultUnitWeight
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultEventBuffer
	}

	c := &Controller{
		Config:     config,
		intakeCh:   make(chan intake),
		shutdownCh: make(chan chan struct{}),
		stopped:    make(chan struct{}),
		logger:     slog.Default().With("id", config.ID),
		eventCh:    make(chan Event, config.EventBuffer),
		logic: NewLogic(LogicConfig{
			Floors:     config.Floors,
			Capacity:   config.Capacity,
			UnitWeight: config.UnitWeight,
		}),
	}
	c.publishSnapshot()

	c.logger.Info("Elevator initialized",
		"floors", config.Floors,
		"capacity", config.Capacity,
	)
	return c, nil
}

// Snapshot returns the last published state.
// Snapshot은 마지막으로 발행된 상태를 잠금 없이 반환합니다.
func (c *Controller) Snapshot() Snapshot {
	s := *c.snapshot.Load()
	s.Pending = slices.Clone(s.Pending)
	s.Deferred = slices.Clone(s.Deferred)
	return s
}

// Events returns the read-only channel for state change notifications.
// Events는 상태 변화 알림용 읽기 전용 채널을 반환합니다.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// DroppedEventCount returns how many events were lost to a full buffer.
// DroppedEventCount는 버퍼가 가득 차 버려진 이벤트 수를 반환합니다.
func (c *Controller) DroppedEventCount() uint64 {
	return c.droppedEventCount.Load()
}

// Go registers a press on the inside panel.
// Go는 카 내부 버튼 입력을 등록합니다.
func (c *Controller) Go(floor int) error {
	c.logger.Info("Button pressed from inside", "button", floor)
	if err := validateRequest(OpGo, c.Config.Floors, floor, DirNone); err != nil {
		c.logger.Warn("Go rejected", "floor", floor, "error", err)
		return err
	}
	return c.submit(Request{Floor: floor, Origin: Inside, Direction: DirNone})
}

// Call registers a press on the hall panel of floor.
// Call은 층 호출 버튼 입력을 등록합니다.
func (c *Controller) Call(floor int, dir Direction) error {
	c.logger.Info("Elevator called", "floor", floor, "direction", dir)
	if dir != DirUp && dir != DirDown {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	if err := validateRequest(OpCall, c.Config.Floors, floor, dir); err != nil {
		c.logger.Warn("Call rejected", "floor", floor, "direction", dir, "error", err)
		return err
	}
	return c.submit(Request{Floor: floor, Origin: Outside, Direction: dir})
}

// Shutdown blocks until the queue is empty. It never interrupts movement;
// requests still arriving keep it waiting.
// Shutdown은 큐가 빌 때까지 대기하며 이동을 중단시키지 않습니다.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutdown requested")
	idle := make(chan struct{})
	select {
	case c.shutdownCh <- idle:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-idle:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// submit hands a validated request to the worker and waits until it has been
// applied, so the caller observes the resulting state.
func (c *Controller) submit(r Request) error {
	in := intake{req: r, ack: make(chan struct{})}
	select {
	case c.intakeCh <- in:
	case <-c.stopped:
		return ErrStopped
	}
	select {
	case <-in.ack:
		return nil
	case <-c.stopped:
		return ErrStopped
	}
}

// Run executes the owning worker loop. It returns ctx.Err() on cancellation;
// a second concurrent Run returns an error immediately.
// Run은 작업 고루틴의 메인 루프입니다.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("elevator: Run already called")
	}
	defer close(c.stopped)

	c.logger.Info("Elevator Engine Started")

	c.timer = time.NewTimer(0)
	stopTimer(c.timer)
	defer c.timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Engine Stopping (Context Cancelled)")
			return ctx.Err()

		case in := <-c.intakeCh:
			c.accept(in.req)
			c.settle()
			close(in.ack)

		case idle := <-c.shutdownCh:
			c.publishEvent(EventShutdownRequested, c.weightPayload())
			c.waiters = append(c.waiters, idle)
			c.settle()

		case <-c.timer.C:
			c.handleTimer()
			c.settle()
		}
	}
}

// settle publishes the new state and releases Shutdown waiters once nothing
// is pending.
func (c *Controller) settle() {
	c.publishSnapshot()
	if len(c.waiters) == 0 || len(c.logic.Queue) > 0 {
		return
	}
	c.publishEvent(EventIdle, c.weightPayload())
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}

// accept applies the intake policy to a validated request.
func (c *Controller) accept(r Request) {
	deferred := c.logic.Sensor.State == Moving
	inPlace := c.logic.Register(r)

	c.publishEvent(EventRequestAccepted, RequestPayload{
		Request:  r,
		Deferred: deferred,
		Weight:   c.logic.Sensor.Weight,
	})
	if deferred {
		c.logger.Debug("Request deferred until next floor", "floor", r.Floor, "origin", r.Origin)
		return
	}

	if inPlace {
		// 정지 중인 층에서 버튼이 눌리면 이동 없이 문만 엽니다.
		c.arrive()
		return
	}
	c.depart()
}

// depart arms the transit timer when scheduling has committed a destination
// and the car is not dwelling on a floor.
func (c *Controller) depart() {
	s := c.logic.Sensor
	if s.State != Moving || c.phase != phaseIdle {
		return
	}
	c.logger.Debug("Departing", "floor", s.CurrentFloor, "target", s.NextFloor, "dir", s.Direction)
	c.publishEvent(EventDeparted, c.movePayload())
	c.phase = phaseTransit
	resetTimer(c.timer, c.Config.TravelTime)
}

// handleTimer advances the movement state machine by one phase.
func (c *Controller) handleTimer() {
	switch c.phase {
	case phaseTransit:
		if !c.logic.Advance() {
			s := c.logic.Sensor
			c.logger.Info("Passing the floor",
				"floor", s.CurrentFloor, "target", s.NextFloor, "weight", s.Weight)
			c.publishEvent(EventFloorPassed, c.movePayload())
			c.phase = phasePass
			resetTimer(c.timer, c.Config.DwellTime)
			return
		}
		c.logger.Info("Elevator stopped at the floor", "floor", c.logic.Sensor.CurrentFloor)
		c.arrive()

	case phasePass:
		// the route is already committed; only an arrival ends it
		c.phase = phaseTransit
		resetTimer(c.timer, c.Config.TravelTime)

	case phaseDwell:
		c.phase = phaseIdle
		c.logic.CheckQueue()
		c.depart()
	}
}

// arrive resolves boarding at the current floor and holds the car for the
// dwell time before any further travel.
func (c *Controller) arrive() {
	a := c.logic.Arrive()
	if a.Deferred > 0 {
		c.logger.Warn("Capacity reached, requests deferred",
			"floor", a.Floor, "deferred", a.Deferred, "weight", a.Weight)
	}
	c.publishEvent(EventFloorArrived, a)

	c.phase = phaseDwell
	resetTimer(c.timer, c.Config.DwellTime)
}

func (c *Controller) movePayload() MovePayload {
	s := c.logic.Sensor
	return MovePayload{Floor: s.CurrentFloor, Target: s.NextFloor, Direction: s.Direction, Weight: s.Weight}
}

func (c *Controller) weightPayload() WeightPayload {
	return WeightPayload{Floor: c.logic.Sensor.CurrentFloor, Weight: c.logic.Sensor.Weight}
}

// publishSnapshot stores a deep copy of the worker state for readers.
func (c *Controller) publishSnapshot() {
	snap := &Snapshot{
		Floors:   c.Config.Floors,
		Capacity: c.Config.Capacity,
	}
	if err := deepcopy.Copy(&snap.Sensor, &c.logic.Sensor); err != nil {
		c.logger.Error("Snapshot copy failed", "error", err)
		return
	}
	if err := deepcopy.Copy(&snap.Pending, &c.logic.Queue); err != nil {
		c.logger.Error("Snapshot copy failed", "error", err)
		return
	}
	if err := deepcopy.Copy(&snap.Deferred, &c.logic.Backlog); err != nil {
		c.logger.Error("Snapshot copy failed", "error", err)
		return
	}
	c.snapshot.Store(snap)
}

// publishEvent sends an event without blocking the worker.
// 채널이 가득 차면 이벤트를 버리고 카운터를 증가시킵니다.
func (c *Controller) publishEvent(eventType EventType, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case c.eventCh <- event:
	default:
		dropped := c.droppedEventCount.Add(1)
		if dropped%100 == 1 {
			c.logger.Error("Event Channel Saturated", "dropped", dropped, "type", eventType)
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	stopTimer(t)
	t.Reset(d)
}
