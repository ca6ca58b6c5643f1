package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/geom"
)

// contactEps is the penetration depth below which two shapes count as touching, not overlapping.
const contactEps = 1e-9

// rayOBB returns the distance along a unit ray at which it enters box.
// A ray starting inside the box reports 0.
func rayOBB(origin, dir r2.Vec, box geom.OBB) (float64, bool) {
	o := box.ToLocal(origin)
	d := box.ToLocalDir(dir)

	tmin, tmax := math.Inf(-1), math.Inf(1)
	for _, axis := range [2]struct{ o, d, h float64 }{
		{o.X, d.X, box.Half.X},
		{o.Y, d.Y, box.Half.Y},
	} {
		if math.Abs(axis.d) < 1e-12 {
			if math.Abs(axis.o) > axis.h {
				return 0, false
			}
			continue
		}
		t1 := (-axis.h - axis.o) / axis.d
		t2 := (axis.h - axis.o) / axis.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// satAxes returns the four separating axis candidates for a pair of boxes.
func satAxes(a, b geom.OBB) [4]r2.Vec {
	aa, ba := a.Axes(), b.Axes()
	return [4]r2.Vec{aa[0], aa[1], ba[0], ba[1]}
}

// overlapOBB reports whether two boxes overlap by more than contactEps on every axis.
func overlapOBB(a, b geom.OBB) bool {
	for _, n := range satAxes(a, b) {
		a0, a1 := a.Project(n)
		b0, b1 := b.Project(n)
		if a1 <= b0+contactEps || b1 <= a0+contactEps {
			return false
		}
	}
	return true
}

// overlapCircleOBB reports whether a circle overlaps a box.
func overlapCircleOBB(center r2.Vec, radius float64, box geom.OBB) bool {
	p := box.ToLocal(center)
	closest := r2.Vec{
		X: math.Max(-box.Half.X, math.Min(box.Half.X, p.X)),
		Y: math.Max(-box.Half.Y, math.Min(box.Half.Y, p.Y)),
	}
	return r2.Norm2(r2.Sub(p, closest)) < radius*radius
}

// sweepOBB returns the fraction of disp at which box a, translating by disp,
// first touches the static box b. Boxes already overlapping report 0;
// touching boxes moving apart or sliding past each other report no hit.
func sweepOBB(a geom.OBB, disp r2.Vec, b geom.OBB) (float64, bool) {
	tEnter, tExit := math.Inf(-1), math.Inf(1)

	for _, n := range satAxes(a, b) {
		a0, a1 := a.Project(n)
		b0, b1 := b.Project(n)
		v := r2.Dot(disp, n)

		if math.Abs(v) < 1e-12 {
			if a1 <= b0+contactEps || b1 <= a0+contactEps {
				return 0, false
			}
			continue
		}

		// Touching, or overlapping by less than contactEps, and moving apart.
		if (v > 0 && b1 <= a0+contactEps) || (v < 0 && a1 <= b0+contactEps) {
			return 0, false
		}

		var t0, t1 float64
		if v > 0 {
			t0, t1 = (b0-a1)/v, (b1-a0)/v
		} else {
			t0, t1 = (b1-a0)/v, (b0-a1)/v
		}
		tEnter = math.Max(tEnter, t0)
		tExit = math.Min(tExit, t1)
		if tEnter >= tExit {
			return 0, false
		}
	}

	if tEnter > 1 || tExit <= 0 {
		return 0, false
	}
	return math.Max(tEnter, 0), true
}
