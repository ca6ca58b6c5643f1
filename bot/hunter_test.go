package bot

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/systems"
)

const cell = 32.0

// fan has rays at -0.1, -0.05, 0, 0.05 and 0.1 radians.
var fan = systems.Sensor{Rays: 5, Spacing: 0.05, StartOffset: -0.1, Range: 320}

func newHunter(spawns ...arena.Cell) *Hunter {
	m := &arena.Map{Width: 6, Height: 6, SpawnPoints: spawns}
	return NewHunter(DefaultOptions(m, cell, fan))
}

func enemyOn(rays ...int) []components.Hit {
	hits := make([]components.Hit, fan.Rays)
	for _, k := range rays {
		hits[k] = components.Hit{Kind: components.HitEnemy, Distance: 100}
	}
	return hits
}

func TestPollBeforeObservation(t *testing.T) {
	h := newHunter(arena.Cell{0, 0}, arena.Cell{5, 0})
	if got := h.Poll(); got != nil {
		t.Errorf("Poll before any observation = %v, want nil", got)
	}
}

func TestAim(t *testing.T) {
	tests := []struct {
		name string
		rays []int
		want control.Instruction
	}{
		{"centered", []int{1, 2, 3}, control.Shoot},
		{"counter-clockwise of barrel", []int{3, 4}, control.SpinTurretRight},
		{"clockwise of barrel", []int{0}, control.SpinTurretLeft},
		{"slightly off", []int{2, 3}, control.Shoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHunter(arena.Cell{0, 0}, arena.Cell{5, 0})
			h.Observe(control.Observation{TurretVision: enemyOn(tt.rays...)})
			got := h.Poll()
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Poll = %v, want [%v]", got, tt.want)
			}
		})
	}
}

func TestPatrolTurnsThenDrives(t *testing.T) {
	h := newHunter(arena.Cell{0, 0}, arena.Cell{5, 0})

	// Facing up at the first spawn; the next goal lies along +X, a clockwise turn away.
	h.Observe(control.Observation{Pos: r2.Vec{}, TurretVision: enemyOn()})
	got := h.Poll()
	if len(got) != 2 || got[0] != control.SpinTurretLeft || got[1] != control.RotateLeft {
		t.Fatalf("Poll = %v, want [spin_left rotate_left]", got)
	}

	h.Observe(control.Observation{Pos: r2.Vec{}, HullAngle: 3 * math.Pi / 2, TurretVision: enemyOn()})
	got = h.Poll()
	if len(got) != 2 || got[1] != control.MoveForward {
		t.Errorf("Poll = %v, want forward once aligned", got)
	}
	if h.path == nil || h.path.Goal != (r2.Vec{X: 5 * cell}) {
		t.Errorf("goal = %+v, want the far spawn", h.path)
	}
}

func TestStuckPicksNextGoal(t *testing.T) {
	h := newHunter(arena.Cell{0, 0}, arena.Cell{5, 0}, arena.Cell{0, 5})
	obs := control.Observation{Pos: r2.Vec{}, HullAngle: 3 * math.Pi / 2, TurretVision: enemyOn()}

	h.Observe(obs)
	h.Poll()
	first := h.path.Goal

	// Driving forward without moving.
	for i := 0; i <= h.opts.StuckTicks; i++ {
		h.Observe(obs)
		h.Poll()
	}
	if h.path == nil || h.path.Goal == first {
		t.Errorf("goal after getting stuck = %+v, want a new goal", h.path)
	}
}

func TestFinishStopsPolling(t *testing.T) {
	h := newHunter(arena.Cell{0, 0}, arena.Cell{5, 0})
	h.Observe(control.Observation{TurretVision: enemyOn(2)})
	h.Finish(control.Win)
	h.Finish(control.Loss)

	if got := h.Poll(); got != nil {
		t.Errorf("Poll after Finish = %v, want nil", got)
	}
	if o, ok := h.Outcome(); !ok || o != control.Win {
		t.Errorf("outcome = %v (%v), want first reported win", o, ok)
	}
}

func TestDefaultOptionsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	m, err := arena.Default()
	if err != nil {
		t.Fatalf("arena.Default: %v", err)
	}
	opts := DefaultOptions(m, cfg.Arena.CellSize, systems.NewSensor(cfg.Vision.Turret))
	if opts.AimTolerance >= opts.Turret.Spacing {
		t.Errorf("aim tolerance %f should be narrower than ray spacing %f", opts.AimTolerance, opts.Turret.Spacing)
	}
	if len(NewHunter(opts).goals) != len(m.SpawnPoints) {
		t.Error("every spawn point should be a patrol goal")
	}
}
