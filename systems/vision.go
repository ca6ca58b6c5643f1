package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/spatial"
)

// ErrInvariant is returned when the scene is in a state the rules forbid,
// such as a body that is both (or neither) a tank and a wall.
var ErrInvariant = errors.New("scene invariant violated")

// RayCaster answers nearest-hit ray queries.
type RayCaster interface {
	RayCast(origin, dir r2.Vec, maxDist float64, exclude ecs.Entity) (spatial.RayHit, bool, error)
}

// Classifier tells tanks from walls.
type Classifier interface {
	IsTank(e ecs.Entity) bool
	IsWall(e ecs.Entity) bool
}

// Classify returns what kind of body e is.
func Classify(cls Classifier, e ecs.Entity) (components.HitKind, error) {
	tank, wall := cls.IsTank(e), cls.IsWall(e)
	switch {
	case tank && !wall:
		return components.HitEnemy, nil
	case wall && !tank:
		return components.HitWall, nil
	case tank && wall:
		return components.HitNone, fmt.Errorf("entity %v is both tank and wall: %w", e, ErrInvariant)
	default:
		return components.HitNone, fmt.Errorf("entity %v is neither tank nor wall: %w", e, ErrInvariant)
	}
}

// Sensor is a fan of rays fixed to a facing direction.
type Sensor struct {
	Rays        int
	Spacing     float64 // angle between consecutive rays
	StartOffset float64 // angle of ray 0 from forward
	Range       float64
}

// NewSensor builds a sensor spreading Rays evenly over the configured field of view.
func NewSensor(c config.RayFanConfig) Sensor {
	s := Sensor{Rays: c.Rays, StartOffset: c.StartOffset, Range: c.Range}
	if c.Rays > 0 {
		s.Spacing = c.FOV / float64(c.Rays)
	}
	return s
}

// Directions returns the unit direction of each ray for the given forward vector.
func (s Sensor) Directions(forward r2.Vec) []r2.Vec {
	dirs := make([]r2.Vec, s.Rays)
	for k := range dirs {
		dirs[k] = geom.Rotate(forward, s.StartOffset+float64(k)*s.Spacing)
	}
	return dirs
}

// Cast traces every ray from origin, ignoring self, and classifies the nearest hit.
func (s Sensor) Cast(q RayCaster, cls Classifier, origin, forward r2.Vec, self ecs.Entity) ([]components.Hit, error) {
	hits := make([]components.Hit, s.Rays)
	for k, dir := range s.Directions(forward) {
		hit, ok, err := q.RayCast(origin, dir, s.Range, self)
		if err != nil {
			return nil, fmt.Errorf("ray %d: %w", k, err)
		}
		if !ok {
			continue
		}
		kind, err := Classify(cls, hit.Entity)
		if err != nil {
			return nil, fmt.Errorf("ray %d: %w", k, err)
		}
		hits[k] = components.Hit{Kind: kind, Distance: hit.Distance}
	}
	return hits, nil
}
