// Package spatial is the collision and ray query service: an R-tree broad phase
// over oriented boxes with exact narrow-phase tests.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/geom"
)

var (
	// ErrUnavailable is returned by queries on a closed index.
	ErrUnavailable = errors.New("spatial index unavailable")
	// ErrInvalidQuery is returned for non-finite query geometry.
	ErrInvalidQuery = errors.New("invalid spatial query")
)

// R-tree branching factors.
const (
	minChildren = 4
	maxChildren = 16
)

// pad keeps degenerate boxes (axis-aligned rays) valid for the R-tree.
const pad = 1e-6

// Body is a collider stored in the index.
type Body struct {
	Entity ecs.Entity
	Shape  geom.OBB

	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (b *Body) Bounds() rtreego.Rect {
	return b.rect
}

// RayHit is the nearest body along a ray.
type RayHit struct {
	Entity   ecs.Entity
	Distance float64
}

// SweepHit is the first body met by a translating box.
type SweepHit struct {
	Entity   ecs.Entity
	Fraction float64 // Of the displacement, in [0, 1]
}

// Index holds every collider in the arena.
type Index struct {
	tree   *rtreego.Rtree
	bodies map[ecs.Entity]*Body
	closed bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		tree:   rtreego.NewTree(2, minChildren, maxChildren),
		bodies: make(map[ecs.Entity]*Body),
	}
}

// Len returns the number of bodies.
func (ix *Index) Len() int {
	return len(ix.bodies)
}

// Body returns the collider stored for e.
func (ix *Index) Body(e ecs.Entity) (*Body, bool) {
	b, ok := ix.bodies[e]
	return b, ok
}

// Insert adds a collider for e, replacing any previous one.
func (ix *Index) Insert(e ecs.Entity, shape geom.OBB) error {
	if ix.closed {
		return ErrUnavailable
	}
	rect, err := boxRect(shape.Bounds())
	if err != nil {
		return fmt.Errorf("inserting %v: %w", e, err)
	}
	if old, ok := ix.bodies[e]; ok {
		ix.tree.Delete(old)
	}
	b := &Body{Entity: e, Shape: shape, rect: rect}
	ix.bodies[e] = b
	ix.tree.Insert(b)
	return nil
}

// Move replaces the shape of an existing collider.
func (ix *Index) Move(e ecs.Entity, shape geom.OBB) error {
	if ix.closed {
		return ErrUnavailable
	}
	b, ok := ix.bodies[e]
	if !ok {
		return fmt.Errorf("moving %v: no such body", e)
	}
	rect, err := boxRect(shape.Bounds())
	if err != nil {
		return fmt.Errorf("moving %v: %w", e, err)
	}
	// Delete looks the body up by its current bounds, so update afterwards.
	ix.tree.Delete(b)
	b.Shape = shape
	b.rect = rect
	ix.tree.Insert(b)
	return nil
}

// Remove drops the collider for e, if any.
func (ix *Index) Remove(e ecs.Entity) {
	b, ok := ix.bodies[e]
	if !ok {
		return
	}
	ix.tree.Delete(b)
	delete(ix.bodies, e)
}

// Close makes every later query fail with ErrUnavailable.
func (ix *Index) Close() {
	ix.closed = true
}

// RayCast returns the nearest body hit by a ray within maxDist, skipping exclude.
func (ix *Index) RayCast(origin, dir r2.Vec, maxDist float64, exclude ecs.Entity) (RayHit, bool, error) {
	if ix.closed {
		return RayHit{}, false, ErrUnavailable
	}
	if !finite(origin.X, origin.Y, dir.X, dir.Y, maxDist) || r2.Norm2(dir) == 0 {
		return RayHit{}, false, fmt.Errorf("ray from %v towards %v: %w", origin, dir, ErrInvalidQuery)
	}
	dir = r2.Unit(dir)
	end := r2.Add(origin, r2.Scale(maxDist, dir))

	candidates, err := ix.search(r2.NewBox(origin.X, origin.Y, end.X, end.Y), exclude)
	if err != nil {
		return RayHit{}, false, err
	}

	best := RayHit{Distance: math.Inf(1)}
	found := false
	for _, b := range candidates {
		d, ok := rayOBB(origin, dir, b.Shape)
		if !ok || d > maxDist {
			continue
		}
		if d < best.Distance || (d == best.Distance && b.Entity.ID() < best.Entity.ID()) {
			best = RayHit{Entity: b.Entity, Distance: d}
			found = true
		}
	}
	return best, found, nil
}

// Overlap returns a body overlapping shape, skipping exclude.
// When several overlap, the one whose center is nearest wins.
func (ix *Index) Overlap(shape geom.OBB, exclude ecs.Entity) (ecs.Entity, bool, error) {
	if ix.closed {
		return ecs.Entity{}, false, ErrUnavailable
	}
	candidates, err := ix.search(shape.Bounds(), exclude)
	if err != nil {
		return ecs.Entity{}, false, err
	}
	return nearest(candidates, shape.Center, func(b *Body) bool {
		return overlapOBB(shape, b.Shape)
	})
}

// OverlapCircle returns a body overlapping the circle, skipping exclude.
// When several overlap, the one whose center is nearest wins.
func (ix *Index) OverlapCircle(center r2.Vec, radius float64, exclude ecs.Entity) (ecs.Entity, bool, error) {
	if ix.closed {
		return ecs.Entity{}, false, ErrUnavailable
	}
	if !finite(center.X, center.Y, radius) {
		return ecs.Entity{}, false, fmt.Errorf("circle at %v: %w", center, ErrInvalidQuery)
	}
	box := r2.Box{
		Min: r2.Vec{X: center.X - radius, Y: center.Y - radius},
		Max: r2.Vec{X: center.X + radius, Y: center.Y + radius},
	}
	candidates, err := ix.search(box, exclude)
	if err != nil {
		return ecs.Entity{}, false, err
	}
	return nearest(candidates, center, func(b *Body) bool {
		return overlapCircleOBB(center, radius, b.Shape)
	})
}

// Sweep translates shape by disp and returns the first body it meets, skipping exclude.
func (ix *Index) Sweep(shape geom.OBB, disp r2.Vec, exclude ecs.Entity) (SweepHit, bool, error) {
	if ix.closed {
		return SweepHit{}, false, ErrUnavailable
	}
	if !finite(disp.X, disp.Y) {
		return SweepHit{}, false, fmt.Errorf("sweep by %v: %w", disp, ErrInvalidQuery)
	}

	// Broad phase over the whole trajectory.
	region := shape.Bounds().Union(shape.Translate(disp).Bounds())
	candidates, err := ix.search(region, exclude)
	if err != nil {
		return SweepHit{}, false, err
	}

	best := SweepHit{Fraction: math.Inf(1)}
	found := false
	for _, b := range candidates {
		t, ok := sweepOBB(shape, disp, b.Shape)
		if !ok {
			continue
		}
		if t < best.Fraction || (t == best.Fraction && b.Entity.ID() < best.Entity.ID()) {
			best = SweepHit{Entity: b.Entity, Fraction: t}
			found = true
		}
	}
	return best, found, nil
}

func (ix *Index) search(box r2.Box, exclude ecs.Entity) ([]*Body, error) {
	rect, err := boxRect(box)
	if err != nil {
		return nil, err
	}
	found := ix.tree.SearchIntersect(rect, func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		return obj.(*Body).Entity == exclude, false
	})
	bodies := make([]*Body, len(found))
	for i, s := range found {
		bodies[i] = s.(*Body)
	}
	return bodies, nil
}

func nearest(candidates []*Body, from r2.Vec, hit func(*Body) bool) (ecs.Entity, bool, error) {
	sort.Slice(candidates, func(i, j int) bool {
		di := r2.Norm2(r2.Sub(candidates[i].Shape.Center, from))
		dj := r2.Norm2(r2.Sub(candidates[j].Shape.Center, from))
		if di != dj {
			return di < dj
		}
		return candidates[i].Entity.ID() < candidates[j].Entity.ID()
	})
	for _, b := range candidates {
		if hit(b) {
			return b.Entity, true, nil
		}
	}
	return ecs.Entity{}, false, nil
}

func boxRect(box r2.Box) (rtreego.Rect, error) {
	if !finite(box.Min.X, box.Min.Y, box.Max.X, box.Max.Y) {
		return rtreego.Rect{}, fmt.Errorf("box %v: %w", box, ErrInvalidQuery)
	}
	size := box.Size()
	rect, err := rtreego.NewRect(
		rtreego.Point{box.Min.X - pad, box.Min.Y - pad},
		[]float64{size.X + 2*pad, size.Y + 2*pad},
	)
	if err != nil {
		return rtreego.Rect{}, fmt.Errorf("box %v: %w", box, err)
	}
	return rect, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
