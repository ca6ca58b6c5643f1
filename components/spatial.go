package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/geom"
)

// Transform is a world pose. Angle is counter-clockwise from +Y.
type Transform struct {
	Pos   r2.Vec
	Angle float64
}

// Forward returns the unit facing direction.
func (t Transform) Forward() r2.Vec {
	return geom.Forward(t.Angle)
}

// Collider is a box collider centered on the entity's Transform.
type Collider struct {
	Half r2.Vec
}

// Shape returns the collider placed at t.
func (c Collider) Shape(t Transform) geom.OBB {
	return geom.OBB{Center: t.Pos, Half: c.Half, Angle: t.Angle}
}

// SquareCollider returns a collider for a square of the given side.
func SquareCollider(size float64) Collider {
	return Collider{Half: r2.Vec{X: size / 2, Y: size / 2}}
}
