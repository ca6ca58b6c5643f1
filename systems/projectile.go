package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/components"
)

// CircleOverlapper answers circle overlap queries.
type CircleOverlapper interface {
	OverlapCircle(center r2.Vec, radius float64, exclude ecs.Entity) (ecs.Entity, bool, error)
}

// Impact is what a bullet struck.
type Impact struct {
	Kind   components.HitKind
	Entity ecs.Entity
}

// StepBullet advances a bullet along its heading.
func StepBullet(t *components.Transform, b *components.Bullet, speed, dt float64) {
	step := speed * dt
	t.Pos = r2.Add(t.Pos, r2.Scale(step, t.Forward()))
	b.Traveled += step
}

// ResolveBullet checks a bullet of the given radius at pos against every body
// except its owner.
func ResolveBullet(q CircleOverlapper, cls Classifier, pos r2.Vec, radius float64, owner ecs.Entity) (Impact, bool, error) {
	e, ok, err := q.OverlapCircle(pos, radius, owner)
	if err != nil {
		return Impact{}, false, fmt.Errorf("bullet at %v: %w", pos, err)
	}
	if !ok {
		return Impact{}, false, nil
	}
	kind, err := Classify(cls, e)
	if err != nil {
		return Impact{}, false, fmt.Errorf("bullet at %v: %w", pos, err)
	}
	return Impact{Kind: kind, Entity: e}, true, nil
}

// BulletExpired reports whether a bullet has flown past maxRange or left bounds.
func BulletExpired(pos r2.Vec, b components.Bullet, bounds r2.Box, maxRange float64) bool {
	if maxRange > 0 && b.Traveled > maxRange {
		return true
	}
	return pos.X < bounds.Min.X || pos.X > bounds.Max.X || pos.Y < bounds.Min.Y || pos.Y > bounds.Max.Y
}
