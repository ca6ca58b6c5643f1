// Package components defines ECS components for the arena.
package components

import (
	"github.com/mlange-42/ark/ecs"
)

// Tank is the hull of a player's tank. Every tank owns exactly one turret.
type Tank struct {
	Team   uint8
	Player int
	Turret ecs.Entity
}

// GunState is the reload state of a turret gun. The zero value is Ready.
type GunState struct {
	Reloading bool
	Remaining float64 // seconds until Ready
}

// Ready reports whether the gun can fire.
func (g GunState) Ready() bool {
	return !g.Reloading
}

// Turret is the rotating gun mount on a tank.
// Angle is relative to the hull; the mount sits at the hull center.
type Turret struct {
	Tank  ecs.Entity
	Angle float64
	Gun   GunState
}

// Wall marks a static wall cell.
type Wall struct {
	Cell [2]int
}

// Bullet is a projectile in flight.
type Bullet struct {
	Owner    ecs.Entity // tank that fired it
	Player   int
	Team     uint8
	Traveled float64
}

// HitKind classifies what a vision ray struck.
type HitKind uint8

const (
	HitNone HitKind = iota
	HitWall
	HitEnemy
)

// String returns the wire name of the kind.
func (k HitKind) String() string {
	switch k {
	case HitWall:
		return "Wall"
	case HitEnemy:
		return "Enemy"
	default:
		return "None"
	}
}

// Hit is the reading of a single vision ray.
type Hit struct {
	Kind     HitKind
	Distance float64
}

// HullVision holds the all-round ray fan of a tank.
type HullVision struct {
	Rays []Hit
}

// TurretVision holds the narrow ray fan along the turret.
type TurretVision struct {
	Rays []Hit
}
