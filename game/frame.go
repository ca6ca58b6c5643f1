package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/systems"
)

// Frame is a read-only copy of the scene for drawing.
type Frame struct {
	Tick     int
	SimTime  float64
	Bounds   r2.Box
	CellSize float64
	Walls    []geom.OBB
	Tanks    []TankView
	Bullets  []BulletView
	Over     bool
}

// TankView is one tank as drawn.
type TankView struct {
	Player      int
	Team        uint8
	Hull        geom.OBB
	TurretAngle float64 // world angle
	Gun         components.GunState
	HullRays    []RayView
	TurretRays  []RayView
}

// RayView is a vision ray from its origin to where it stopped.
type RayView struct {
	From, To r2.Vec
	Kind     components.HitKind
}

// BulletView is one bullet as drawn.
type BulletView struct {
	Pos    r2.Vec
	Angle  float64
	Radius float64
}

// Frame copies the current scene.
func (m *Match) Frame() Frame {
	f := Frame{
		Tick:     m.tick,
		SimTime:  m.simTime,
		Bounds:   m.bounds,
		CellSize: m.cfg.Arena.CellSize,
		Over:     m.over,
	}

	wq := m.wallFilter.Query()
	for wq.Next() {
		tr, _ := wq.Get()
		f.Walls = append(f.Walls, geom.Square(tr.Pos, m.cfg.Arena.CellSize, tr.Angle))
	}

	for _, e := range m.tanks() {
		tr, coll, tank, hull := m.tankMapper.Get(e)
		view := TankView{
			Player: tank.Player,
			Team:   tank.Team,
			Hull:   coll.Shape(*tr),
		}
		view.HullRays = rayViews(m.hullSensor, tr.Pos, tr.Forward(), hull.Rays)

		if turretEntity, err := m.TurretOf(e); err == nil {
			turret, vision := m.turretMapper.Get(turretEntity)
			pose := systems.TurretPose(*tr, *turret)
			view.TurretAngle = pose.Angle
			view.Gun = turret.Gun
			view.TurretRays = rayViews(m.turretSensor, pose.Pos, pose.Forward(), vision.Rays)
		}
		f.Tanks = append(f.Tanks, view)
	}

	bq := m.bulletFilter.Query()
	for bq.Next() {
		tr, _ := bq.Get()
		f.Bullets = append(f.Bullets, BulletView{Pos: tr.Pos, Angle: tr.Angle, Radius: m.cfg.Bullet.Radius})
	}
	return f
}

func rayViews(s systems.Sensor, origin, forward r2.Vec, hits []components.Hit) []RayView {
	dirs := s.Directions(forward)
	out := make([]RayView, len(dirs))
	for k, dir := range dirs {
		length := s.Range
		var kind components.HitKind
		if k < len(hits) && hits[k].Kind != components.HitNone {
			length = hits[k].Distance
			kind = hits[k].Kind
		}
		out[k] = RayView{From: origin, To: r2.Add(origin, r2.Scale(length, dir)), Kind: kind}
	}
	return out
}
