package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/tankarena/components"
)

func TestGunStateMachine(t *testing.T) {
	var g components.GunState
	if !g.Ready() {
		t.Fatal("zero gun should be ready")
	}

	steps := []struct {
		name          string
		fire          bool
		advance       float64
		wantAccepted  bool
		wantReloading bool
	}{
		{"first shot", true, 0, true, true},
		{"shot while reloading", true, 0, false, true},
		{"half reload", false, 0.5, false, true},
		{"still reloading", true, 0, false, true},
		{"reload done", false, 0.5, false, false},
		{"ready again", true, 0, true, true},
	}

	for _, st := range steps {
		accepted := false
		if st.fire {
			accepted = Fire(&g, 1.0)
		} else {
			AdvanceReload(&g, st.advance)
		}
		if accepted != st.wantAccepted {
			t.Errorf("%s: accepted = %v, want %v", st.name, accepted, st.wantAccepted)
		}
		if g.Reloading != st.wantReloading {
			t.Errorf("%s: reloading = %v, want %v", st.name, g.Reloading, st.wantReloading)
		}
	}
}

func TestAdvanceReloadOvershoot(t *testing.T) {
	g := components.GunState{Reloading: true, Remaining: 0.01}
	AdvanceReload(&g, 0.5)
	if g.Reloading || g.Remaining != 0 {
		t.Errorf("gun = %+v, want ready with no remaining time", g)
	}

	// Advancing a ready gun is a no-op.
	AdvanceReload(&g, 1)
	if g.Reloading || g.Remaining != 0 {
		t.Errorf("ready gun changed: %+v", g)
	}
}

func TestSpin(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"left", 0, math.Pi / 2, math.Pi / 2},
		{"right wraps", 0, -math.Pi / 2, 3 * math.Pi / 2},
		{"full turn", math.Pi, 2 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tur := components.Turret{Angle: tt.start}
			Spin(&tur, tt.delta)
			if math.Abs(tur.Angle-tt.want) > 1e-9 {
				t.Errorf("angle = %f, want %f", tur.Angle, tt.want)
			}
		})
	}
}

func TestTurretPose(t *testing.T) {
	hull := components.Transform{Angle: 3 * math.Pi / 2}
	pose := TurretPose(hull, components.Turret{Angle: math.Pi})
	if math.Abs(pose.Angle-math.Pi/2) > 1e-9 {
		t.Errorf("world angle = %f, want π/2", pose.Angle)
	}
	if pose.Pos != hull.Pos {
		t.Errorf("turret pos = %v, want hull pos %v", pose.Pos, hull.Pos)
	}
}
