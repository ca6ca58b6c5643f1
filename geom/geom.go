// Package geom provides the direction, angle and oriented-box helpers shared by motion and sensing.
//
// Angles are measured counter-clockwise from the +Y axis ("up"), with world Y pointing up.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Up is the reference direction for all angles.
var Up = r2.Vec{X: 0, Y: 1}

// AngleFromUp returns the angle between Up and d, normalized to [0, 2π).
// d must be non-zero.
func AngleFromUp(d r2.Vec) float64 {
	angle := math.Atan2(r2.Cross(Up, d), r2.Dot(Up, d))
	if angle < 0 {
		angle += TwoPi
	}
	return angle
}

// Forward returns the unit direction for an angle measured from Up.
func Forward(angle float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: -sin, Y: cos}
}

// Rotate rotates d counter-clockwise by alpha around the origin.
func Rotate(d r2.Vec, alpha float64) r2.Vec {
	return r2.Rotate(d, alpha, r2.Vec{})
}

// NormalizeAngle wraps a to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// OBB is an oriented bounding box. Half holds the half extents along the
// box's local X and Y axes; Angle rotates the local frame from the world frame.
type OBB struct {
	Center r2.Vec
	Half   r2.Vec
	Angle  float64
}

// Square returns an OBB with equal half extents.
func Square(center r2.Vec, size, angle float64) OBB {
	return OBB{Center: center, Half: r2.Vec{X: size / 2, Y: size / 2}, Angle: angle}
}

// Axes returns the box's local X and Y axes in world space.
func (b OBB) Axes() [2]r2.Vec {
	sin, cos := math.Sincos(b.Angle)
	return [2]r2.Vec{
		{X: cos, Y: sin},
		{X: -sin, Y: cos},
	}
}

// Corners returns the four corners in counter-clockwise order.
func (b OBB) Corners() [4]r2.Vec {
	ax := b.Axes()
	ex := r2.Scale(b.Half.X, ax[0])
	ey := r2.Scale(b.Half.Y, ax[1])
	return [4]r2.Vec{
		r2.Sub(r2.Sub(b.Center, ex), ey),
		r2.Sub(r2.Add(b.Center, ex), ey),
		r2.Add(r2.Add(b.Center, ex), ey),
		r2.Add(r2.Sub(b.Center, ex), ey),
	}
}

// Project returns the interval covered by the box on a unit axis.
func (b OBB) Project(axis r2.Vec) (lo, hi float64) {
	ax := b.Axes()
	c := r2.Dot(b.Center, axis)
	r := b.Half.X*math.Abs(r2.Dot(ax[0], axis)) + b.Half.Y*math.Abs(r2.Dot(ax[1], axis))
	return c - r, c + r
}

// Bounds returns the axis-aligned box enclosing b.
func (b OBB) Bounds() r2.Box {
	xlo, xhi := b.Project(r2.Vec{X: 1})
	ylo, yhi := b.Project(r2.Vec{Y: 1})
	return r2.Box{Min: r2.Vec{X: xlo, Y: ylo}, Max: r2.Vec{X: xhi, Y: yhi}}
}

// Translate returns b moved by d.
func (b OBB) Translate(d r2.Vec) OBB {
	b.Center = r2.Add(b.Center, d)
	return b
}

// ToLocal expresses a world point in the box frame, relative to its center.
func (b OBB) ToLocal(p r2.Vec) r2.Vec {
	ax := b.Axes()
	d := r2.Sub(p, b.Center)
	return r2.Vec{X: r2.Dot(d, ax[0]), Y: r2.Dot(d, ax[1])}
}

// ToLocalDir expresses a world direction in the box frame.
func (b OBB) ToLocalDir(d r2.Vec) r2.Vec {
	ax := b.Axes()
	return r2.Vec{X: r2.Dot(d, ax[0]), Y: r2.Dot(d, ax[1])}
}
