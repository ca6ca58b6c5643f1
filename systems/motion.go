package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/spatial"
)

// Overlapper answers zero-distance box overlap queries.
type Overlapper interface {
	Overlap(shape geom.OBB, exclude ecs.Entity) (ecs.Entity, bool, error)
}

// Sweeper answers swept box queries.
type Sweeper interface {
	Sweep(shape geom.OBB, disp r2.Vec, exclude ecs.Entity) (spatial.SweepHit, bool, error)
}

// Resolver moves hull colliders without letting them pass through other bodies.
type Resolver struct {
	Skin   float64 // distance kept from an obstacle after a clamped move
	Policy QueryPolicy
}

// Rotate turns shape by delta if the rotated box overlaps nothing.
// A blocked rotation leaves the angle unchanged.
func (r *Resolver) Rotate(q Overlapper, shape geom.OBB, delta float64, self ecs.Entity) (float64, bool, error) {
	candidate := shape
	candidate.Angle = geom.NormalizeAngle(shape.Angle + delta)

	_, blocked, err := q.Overlap(candidate, self)
	if err != nil {
		if err := r.Policy.Handle("rotate", err); err != nil {
			return shape.Angle, false, err
		}
		blocked = false
	}
	if blocked {
		return shape.Angle, false, nil
	}
	return candidate.Angle, true, nil
}

// Translate moves shape by dir*distance, stopping short of the first obstacle.
// It returns the new center and the fraction of the move that was applied.
func (r *Resolver) Translate(q Sweeper, shape geom.OBB, dir r2.Vec, distance float64, self ecs.Entity) (r2.Vec, float64, error) {
	disp := r2.Scale(distance, dir)
	length := r2.Norm(disp)
	if length == 0 {
		return shape.Center, 1, nil
	}

	hit, ok, err := q.Sweep(shape, disp, self)
	if err != nil {
		if err := r.Policy.Handle("translate", err); err != nil {
			return shape.Center, 0, err
		}
		ok = false
	}
	if !ok {
		return r2.Add(shape.Center, disp), 1, nil
	}

	t := hit.Fraction - r.Skin/length
	if t < 0 {
		t = 0
	}
	return r2.Add(shape.Center, r2.Scale(t, disp)), t, nil
}
