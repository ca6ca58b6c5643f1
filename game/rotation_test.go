package game

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/internal/controltest"
	"github.com/pthm-cable/tankarena/systems"
)

// turnFor runs n ticks of inst for the first player and returns the final frame.
func turnFor(t *testing.T, inst control.Instruction, n int) Frame {
	t.Helper()
	turner := controltest.NewScript()
	for i := 0; i < n; i++ {
		turner.Steps = append(turner.Steps, []control.Instruction{inst})
	}
	m := newMatch(t, setup{
		spawns: [Players]arena.Cell{{2, 2}, {2, 10}},
		ctrls:  [Players]control.Controller{turner, control.Idle{}},
	})
	for i := 0; i < n; i++ {
		if err := m.Tick(dt); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	return m.Frame()
}

func TestHullTurnDirection(t *testing.T) {
	rays := systems.NewSensor(config.Cfg().Vision.Hull).Directions(geom.Forward(0))
	first, last := rays[1], rays[len(rays)-1]

	tests := []struct {
		name     string
		inst     control.Instruction
		toward   r2.Vec
		awayFrom r2.Vec
	}{
		{"left turns toward the last ray", control.RotateLeft, last, first},
		{"right turns toward ray one", control.RotateRight, first, last},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := turnFor(t, tt.inst, 30)
			fwd := geom.Forward(f.Tanks[0].Hull.Angle)
			if r2.Dot(fwd, tt.toward) <= r2.Dot(fwd, tt.awayFrom) {
				t.Errorf("hull angle %f: dot toward %f, dot away %f",
					f.Tanks[0].Hull.Angle, r2.Dot(fwd, tt.toward), r2.Dot(fwd, tt.awayFrom))
			}
		})
	}
}

func TestTurretSpinDirection(t *testing.T) {
	rays := systems.NewSensor(config.Cfg().Vision.Turret).Directions(geom.Forward(0))
	first, last := rays[0], rays[len(rays)-1]

	tests := []struct {
		name     string
		inst     control.Instruction
		toward   r2.Vec
		awayFrom r2.Vec
	}{
		{"left spins toward ray zero", control.SpinTurretLeft, first, last},
		{"right spins toward the last ray", control.SpinTurretRight, last, first},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := turnFor(t, tt.inst, 5)
			if a := f.Tanks[0].Hull.Angle; a != 0 {
				t.Fatalf("hull angle = %f, want 0 while spinning the turret", a)
			}
			fwd := geom.Forward(f.Tanks[0].TurretAngle)
			if r2.Dot(fwd, tt.toward) <= r2.Dot(fwd, tt.awayFrom) {
				t.Errorf("turret angle %f: dot toward %f, dot away %f",
					f.Tanks[0].TurretAngle, r2.Dot(fwd, tt.toward), r2.Dot(fwd, tt.awayFrom))
			}
		})
	}
}
