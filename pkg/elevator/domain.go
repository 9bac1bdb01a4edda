package elevator

import (
	"math"
)

// --- Domain Entities & Value Objects ---

// Direction indicates the vertical movement vector.
// Requests registered from inside the car carry DirNone.
// Direction은 수직 이동 방향을 나타냅니다.
type Direction string

const (
	DirUp   Direction = "Up"
	DirDown Direction = "Down"
	DirNone Direction = "None"
)

// RunState is the movement state of the car.
// RunState는 엘리베이터의 운행 상태(정지/이동)입니다.
type RunState string

const (
	Stopped RunState = "Stopped"
	Moving  RunState = "Moving"
)

// Origin tells whether a request came from the panel inside the car
// (a rider leaving at Floor) or from a hall panel (a rider boarding at Floor).
// Origin은 요청이 카 내부 버튼인지 층 호출 버튼인지 구분합니다.
type Origin string

const (
	Inside  Origin = "Inside"
	Outside Origin = "Outside"
)

// Request is a single button press. It is never modified after creation.
// Request는 한 번의 버튼 입력이며 생성 후 변경되지 않습니다.
type Request struct {
	Floor     int
	Origin    Origin
	Direction Direction
}

// Sensor is the observable state of the car.
// Sensor는 외부에서 관찰 가능한 엘리베이터 상태입니다.
type Sensor struct {
	Direction    Direction
	CurrentFloor int
	NextFloor    int // 0 unless State is Moving
	State        RunState
	Weight       float64
}

// LogicConfig holds static configuration for the domain logic.
// LogicConfig는 도메인 로직의 정적 설정입니다.
type LogicConfig struct {
	Floors     int
	Capacity   int
	UnitWeight float64
}

// Arrival describes the outcome of resolving boarding and alighting at a floor.
// Arrival은 한 층에서의 승하차 처리 결과를 담고 있습니다.
type Arrival struct {
	Floor    int
	Boarded  int
	Alighted int
	Deferred int
	Weight   float64
	Departed bool // scheduling picked a new destination right away
}

// Logic contains the scheduling and capacity rules of the car.
// No mutex, No channel, No time. The Controller owns one instance and is
// the only goroutine touching it.
// Logic은 스케줄링과 정원 규칙을 담당하며 Controller의 작업 고루틴만 접근합니다.
type Logic struct {
	Config LogicConfig

	Sensor  Sensor
	Queue   []Request // pending, registration order
	Backlog []Request // accepted while moving, merged on the next floor tick
}

// NewLogic creates a car parked on floor 1 heading up.
// NewLogic은 1층에서 상향 대기 중인 엘리베이터를 생성합니다.
func NewLogic(cfg LogicConfig) *Logic {
	return &Logic{
		Config: cfg,
		Sensor: Sensor{
			Direction:    DirUp,
			CurrentFloor: 1,
			State:        Stopped,
		},
	}
}

// Register applies the intake policy. While moving the request is parked in
// the backlog; otherwise it joins the queue and scheduling is re-evaluated.
// It reports whether the car is stopped on the requested floor, in which
// case the caller must resolve the arrival in place.
// 이동 중이면 백로그에, 정지 중이면 큐에 추가한 뒤 다음 목적지를 다시 계산합니다.
func (l *Logic) Register(r Request) bool {
	if l.Sensor.State == Moving {
		l.Backlog = append(l.Backlog, r)
		return false
	}
	l.Queue = append(l.Queue, r)
	l.CheckQueue()
	return l.Sensor.State == Stopped && l.Sensor.CurrentFloor == r.Floor
}

// NextFloor implements the closest-continue selection.
// 1. 현재 진행 방향의 가장 가까운 호출을 우선 처리합니다.
// 2. 진행 방향에 호출이 없으면 반대 방향의 가장 가까운 호출을 선택합니다.
func (l *Logic) NextFloor() (int, bool) {
	if len(l.Queue) == 0 {
		return 0, false
	}

	cur := l.Sensor.CurrentFloor
	up, down := math.MaxInt, math.MinInt
	for _, r := range l.Queue {
		if r.Floor > cur && r.Floor < up {
			up = r.Floor
		}
		if r.Floor < cur && r.Floor > down {
			down = r.Floor
		}
	}
	hasUp, hasDown := up != math.MaxInt, down != math.MinInt

	if l.Sensor.Direction == DirUp {
		if hasUp {
			return up, true
		}
		if hasDown {
			return down, true
		}
		return 0, false
	}

	if hasDown {
		return down, true
	}
	if hasUp {
		return up, true
	}
	return 0, false
}

// CheckQueue commits the next destination when the car is idle.
// It is a no-op while moving and reports whether a move was started.
// CheckQueue는 정지 상태에서만 다음 목적지를 확정합니다.
func (l *Logic) CheckQueue() bool {
	if l.Sensor.State == Moving {
		return false
	}
	target, ok := l.NextFloor()
	if !ok {
		return false
	}

	l.Sensor.NextFloor = target
	if target > l.Sensor.CurrentFloor {
		l.Sensor.Direction = DirUp
	} else {
		l.Sensor.Direction = DirDown
	}
	l.Sensor.State = Moving
	return true
}

// MergeBacklog moves every deferred request into the queue.
func (l *Logic) MergeBacklog() int {
	n := len(l.Backlog)
	if n == 0 {
		return 0
	}
	l.Queue = append(l.Queue, l.Backlog...)
	l.Backlog = nil
	return n
}

// Advance completes one floor tick: the backlog is merged and the car moves
// one floor in its direction. It reports whether the committed destination
// has been reached; a car at the end of the shaft never leaves it and is
// reported as arrived.
// Advance는 한 층 이동 틱을 처리합니다.
func (l *Logic) Advance() bool {
	if l.Sensor.State != Moving {
		return false
	}
	l.MergeBacklog()

	next := l.Sensor.CurrentFloor + 1
	if l.Sensor.Direction == DirDown {
		next = l.Sensor.CurrentFloor - 1
	}
	// 건물 밖으로는 이동하지 않습니다. 끝 층에서는 도착으로 처리합니다.
	if next < 1 || next > l.Config.Floors {
		return true
	}
	l.Sensor.CurrentFloor = next
	return next == l.Sensor.NextFloor
}

// Arrive stops the car on its current floor and resolves boarding and
// alighting against the carrying capacity. Hall requests that do not fit are
// moved to the backlog in registration order; weight never drops below zero.
// 정원을 초과하는 탑승 요청은 등록 순서대로 백로그로 이동합니다.
func (l *Logic) Arrive() Arrival {
	l.Sensor.State = Stopped
	l.Sensor.NextFloor = 0

	floor := l.Sensor.CurrentFloor
	unit := l.Config.UnitWeight

	var boarding []Request
	alighting := 0
	rest := l.Queue[:0:0]
	for _, r := range l.Queue {
		switch {
		case r.Floor != floor:
			rest = append(rest, r)
		case r.Origin == Outside:
			boarding = append(boarding, r)
		default:
			alighting++
		}
	}

	admitted := len(boarding)
	delta := float64(admitted)*unit - float64(alighting)*unit
	if l.Sensor.Weight+delta > float64(l.Config.Capacity) {
		available := float64(l.Config.Capacity) - l.Sensor.Weight
		admitted = max(0, min(admitted, int(math.Floor(available/unit))))
		l.Backlog = append(l.Backlog, boarding[admitted:]...)
		delta = float64(admitted)*unit - float64(alighting)*unit
	}

	l.Sensor.Weight = max(0, l.Sensor.Weight+delta)
	l.Queue = rest

	return Arrival{
		Floor:    floor,
		Boarded:  admitted,
		Alighted: alighting,
		Deferred: len(boarding) - admitted,
		Weight:   l.Sensor.Weight,
		Departed: l.CheckQueue(),
	}
}
