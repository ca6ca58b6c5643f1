package systems

import (
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/geom"
)

// Fire starts a reload of the given length if the gun is ready.
// A gun that is reloading ignores the request; shots are not queued.
func Fire(g *components.GunState, reload float64) bool {
	if g.Reloading {
		return false
	}
	g.Reloading = true
	g.Remaining = reload
	return true
}

// AdvanceReload counts down a reloading gun by dt.
func AdvanceReload(g *components.GunState, dt float64) {
	if !g.Reloading {
		return
	}
	g.Remaining -= dt
	if g.Remaining <= 0 {
		g.Reloading = false
		g.Remaining = 0
	}
}

// Spin turns the turret relative to its hull. Turrets never collide.
func Spin(t *components.Turret, delta float64) {
	t.Angle = geom.NormalizeAngle(t.Angle + delta)
}

// TurretPose returns the world pose of a turret mounted on hull.
func TurretPose(hull components.Transform, t components.Turret) components.Transform {
	return components.Transform{Pos: hull.Pos, Angle: geom.NormalizeAngle(hull.Angle + t.Angle)}
}
