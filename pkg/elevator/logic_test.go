package elevator

import (
	"testing"
)

func newTestLogic(floors, capacity int) *Logic {
	return NewLogic(LogicConfig{
		Floors:     floors,
		Capacity:   capacity,
		UnitWeight: DefaultUnitWeight,
	})
}

func TestLogic_Init(t *testing.T) {
	for floors := MinFloors; floors <= MaxFloors; floors++ {
		logic := newTestLogic(floors, 1000)

		if logic.Sensor.CurrentFloor != 1 {
			t.Errorf("floors=%d: expected initial floor 1, got %d", floors, logic.Sensor.CurrentFloor)
		}
		if logic.Sensor.Weight != 0 {
			t.Errorf("floors=%d: expected no weight, got %v", floors, logic.Sensor.Weight)
		}
		if logic.Sensor.State != Stopped {
			t.Errorf("floors=%d: expected Stopped, got %s", floors, logic.Sensor.State)
		}
		if logic.Sensor.Direction != DirUp {
			t.Errorf("floors=%d: expected direction Up, got %s", floors, logic.Sensor.Direction)
		}
	}
}

func TestLogic_NextFloor(t *testing.T) {
	tests := []struct {
		name   string
		floor  int
		dir    Direction
		queue  []int
		want   int
		wantOK bool
	}{
		{"empty queue", 5, DirUp, nil, 0, false},
		{"heading up prefers nearest above", 5, DirUp, []int{2, 9, 7}, 7, true},
		{"heading up falls back below", 5, DirUp, []int{2, 4}, 4, true},
		{"heading down prefers nearest below", 5, DirDown, []int{2, 9, 3}, 3, true},
		{"heading down falls back above", 5, DirDown, []int{9, 6}, 6, true},
		{"current floor only is not a destination", 5, DirUp, []int{5}, 0, false},
		{"current floor ignored when others exist", 5, DirDown, []int{5, 8}, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logic := newTestLogic(10, 1000)
			logic.Sensor.CurrentFloor = tt.floor
			logic.Sensor.Direction = tt.dir
			for _, f := range tt.queue {
				logic.Queue = append(logic.Queue, Request{Floor: f, Origin: Inside, Direction: DirNone})
			}

			got, ok := logic.NextFloor()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NextFloor() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLogic_Register(t *testing.T) {
	// Scenario 1: Idle, call above -> Moving Up with a committed target
	logic := newTestLogic(10, 1000)
	if inPlace := logic.Register(Request{Floor: 2, Origin: Outside, Direction: DirDown}); inPlace {
		t.Error("Scenario 1: request on another floor must not resolve in place")
	}
	if logic.Sensor.State != Moving || logic.Sensor.Direction != DirUp || logic.Sensor.NextFloor != 2 {
		t.Errorf("Scenario 1 failed: expected Moving Up to 2, got %+v", logic.Sensor)
	}

	// Scenario 2: Moving -> request goes to the backlog and scheduling is untouched
	logic.Register(Request{Floor: 7, Origin: Inside, Direction: DirNone})
	if len(logic.Backlog) != 1 || len(logic.Queue) != 1 {
		t.Errorf("Scenario 2 failed: queue=%v backlog=%v", logic.Queue, logic.Backlog)
	}
	if logic.Sensor.NextFloor != 2 {
		t.Errorf("Scenario 2 failed: target changed to %d", logic.Sensor.NextFloor)
	}

	// Scenario 3: Stopped on the requested floor -> resolve in place
	logic = newTestLogic(10, 1000)
	if inPlace := logic.Register(Request{Floor: 1, Origin: Outside, Direction: DirUp}); !inPlace {
		t.Error("Scenario 3: expected in-place arrival")
	}
	if logic.Sensor.State != Stopped {
		t.Errorf("Scenario 3: expected Stopped, got %s", logic.Sensor.State)
	}
}

func TestLogic_CheckQueueNoopWhileMoving(t *testing.T) {
	logic := newTestLogic(10, 1000)
	logic.Register(Request{Floor: 5, Origin: Inside, Direction: DirNone})
	logic.Queue = append(logic.Queue, Request{Floor: 2, Origin: Inside, Direction: DirNone})

	if logic.CheckQueue() {
		t.Error("CheckQueue started a second move while moving")
	}
	if logic.Sensor.NextFloor != 5 {
		t.Errorf("expected target 5, got %d", logic.Sensor.NextFloor)
	}
}

func TestLogic_AdvanceVisitsEveryFloor(t *testing.T) {
	logic := newTestLogic(10, 1000)
	logic.Register(Request{Floor: 4, Origin: Inside, Direction: DirNone})

	var visited []int
	for {
		arrived := logic.Advance()
		visited = append(visited, logic.Sensor.CurrentFloor)
		if arrived {
			break
		}
		if len(visited) > 10 {
			t.Fatalf("never arrived, visited %v", visited)
		}
	}

	want := []int{2, 3, 4}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited %v, want %v", visited, want)
			break
		}
	}
}

func TestLogic_AdvanceStaysInsideBuilding(t *testing.T) {
	tests := []struct {
		name  string
		floor int
		dir   Direction
	}{
		{"top floor heading up", 5, DirUp},
		{"bottom floor heading down", 1, DirDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logic := newTestLogic(5, 1000)
			logic.Sensor.CurrentFloor = tt.floor
			logic.Sensor.Direction = tt.dir
			logic.Sensor.State = Moving

			if !logic.Advance() {
				t.Errorf("expected arrival at the end of the shaft")
			}
			if logic.Sensor.CurrentFloor != tt.floor {
				t.Errorf("car left the building: floor %d", logic.Sensor.CurrentFloor)
			}
		})
	}
}

func TestLogic_AdvanceMergesBacklog(t *testing.T) {
	logic := newTestLogic(10, 1000)
	logic.Register(Request{Floor: 3, Origin: Inside, Direction: DirNone})
	logic.Register(Request{Floor: 8, Origin: Outside, Direction: DirDown})

	if len(logic.Backlog) != 1 {
		t.Fatalf("expected deferred request, backlog=%v", logic.Backlog)
	}
	logic.Advance()
	if len(logic.Backlog) != 0 || len(logic.Queue) != 2 {
		t.Errorf("backlog not merged: queue=%v backlog=%v", logic.Queue, logic.Backlog)
	}
}

func TestLogic_ArriveBoardingAndAlighting(t *testing.T) {
	// Call on the current floor boards one rider
	logic := newTestLogic(10, 1000)
	logic.Register(Request{Floor: 1, Origin: Outside, Direction: DirUp})
	a := logic.Arrive()
	if a.Boarded != 1 || logic.Sensor.Weight != DefaultUnitWeight {
		t.Errorf("expected one boarding at %v, got %+v weight=%v", DefaultUnitWeight, a, logic.Sensor.Weight)
	}
	if len(logic.Queue) != 0 {
		t.Errorf("queue not cleared: %v", logic.Queue)
	}

	// Go on the current floor alights without prior boarding: weight clamps at zero
	logic = newTestLogic(10, 1000)
	logic.Register(Request{Floor: 1, Origin: Inside, Direction: DirNone})
	a = logic.Arrive()
	if a.Alighted != 1 || logic.Sensor.Weight != 0 {
		t.Errorf("expected clamp to zero, got %+v weight=%v", a, logic.Sensor.Weight)
	}
}

func TestLogic_ArriveDefersOverflow(t *testing.T) {
	// capacity 500 fits three riders of 136.7 (410.1); the fourth and fifth wait
	logic := newTestLogic(10, 500)
	logic.Sensor.CurrentFloor = 4
	dirs := []Direction{DirUp, DirDown}
	for i := 0; i < 5; i++ {
		logic.Queue = append(logic.Queue, Request{Floor: 4, Origin: Outside, Direction: dirs[i%2]})
	}
	logic.Queue = append(logic.Queue, Request{Floor: 9, Origin: Inside, Direction: DirNone})

	a := logic.Arrive()
	if a.Boarded != 3 || a.Deferred != 2 {
		t.Fatalf("expected 3 boarded and 2 deferred, got %+v", a)
	}
	if len(logic.Backlog) != 2 {
		t.Errorf("expected overflow in backlog, got %v", logic.Backlog)
	}
	// registration order: riders 0,1,2 board; 3 (Down) and 4 (Up) wait
	if logic.Backlog[0].Direction != DirDown || logic.Backlog[1].Direction != DirUp {
		t.Errorf("backlog not in registration order: %v", logic.Backlog)
	}
	unit := logic.Config.UnitWeight
	if want := 3 * unit; logic.Sensor.Weight != want {
		t.Errorf("expected weight %v, got %v", want, logic.Sensor.Weight)
	}
	if len(logic.Queue) != 1 || logic.Queue[0].Floor != 9 {
		t.Errorf("expected only floor 9 pending, got %v", logic.Queue)
	}
	if !a.Departed || logic.Sensor.NextFloor != 9 {
		t.Errorf("expected departure to 9, got %+v sensor=%+v", a, logic.Sensor)
	}
}

func TestLogic_ArriveFullCarAdmitsNobody(t *testing.T) {
	logic := newTestLogic(10, 150)
	logic.Sensor.Weight = 136.7
	logic.Queue = []Request{{Floor: 1, Origin: Outside, Direction: DirUp}}

	a := logic.Arrive()
	if a.Boarded != 0 || a.Deferred != 1 {
		t.Errorf("expected nobody admitted, got %+v", a)
	}
	if logic.Sensor.Weight != 136.7 {
		t.Errorf("weight changed to %v", logic.Sensor.Weight)
	}
}
