package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
)

const navCell = 32.0

func cellPos(x, y int) r2.Vec {
	return arena.Cell{x, y}.Center(navCell)
}

func TestNavGridBlocking(t *testing.T) {
	grid := NewNavGrid(&arena.Map{Width: 4, Height: 3, Walls: []arena.Cell{{1, 1}}}, navCell)

	tests := []struct {
		gx, gy int
		want   bool
	}{
		{0, 0, false},
		{1, 1, true},
		{-1, 0, true},
		{4, 0, true},
		{3, 2, false},
		{3, 3, true},
	}
	for _, tt := range tests {
		if got := grid.IsBlocked(tt.gx, tt.gy); got != tt.want {
			t.Errorf("IsBlocked(%d, %d) = %v, want %v", tt.gx, tt.gy, got, tt.want)
		}
	}

	// Positions round to the nearest cell center.
	if gx, gy := grid.WorldToGrid(r2.Vec{X: 47, Y: 15}); gx != 1 || gy != 0 {
		t.Errorf("WorldToGrid = (%d, %d), want (1, 0)", gx, gy)
	}
	if !grid.IsBlockedWorld(r2.Vec{X: 40, Y: 28}) {
		t.Error("point inside the wall cell should be blocked")
	}
}

func TestAStarStraightPath(t *testing.T) {
	planner := NewAStarPlanner(NewNavGrid(&arena.Map{Width: 6, Height: 3}, navCell))

	path := planner.FindPath(cellPos(0, 1), cellPos(5, 1))
	if len(path) != 2 {
		t.Fatalf("straight run should simplify to 2 waypoints, got %v", path)
	}
	if path[0] != cellPos(0, 1) || path[1] != cellPos(5, 1) {
		t.Errorf("path = %v", path)
	}
}

func TestAStarAroundWall(t *testing.T) {
	// A vertical wall at x=2 with a gap at the top row.
	m := &arena.Map{
		Width:  5,
		Height: 4,
		Walls:  []arena.Cell{{2, 0}, {2, 1}, {2, 2}},
	}
	grid := NewNavGrid(m, navCell)
	planner := NewAStarPlanner(grid)

	path := planner.FindPath(cellPos(0, 0), cellPos(4, 0))
	if path == nil {
		t.Fatal("expected a path through the gap")
	}
	if path[len(path)-1] != cellPos(4, 0) {
		t.Errorf("path ends at %v, want goal", path[len(path)-1])
	}

	// Every segment is axis-aligned and stays on open cells.
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if a.X != b.X && a.Y != b.Y {
			t.Fatalf("segment %v -> %v is diagonal", a, b)
		}
		steps := int(r2.Norm(r2.Sub(b, a)) / navCell)
		dir := r2.Scale(1/float64(steps), r2.Sub(b, a))
		for s := 0; s <= steps; s++ {
			if p := r2.Add(a, r2.Scale(float64(s), dir)); grid.IsBlockedWorld(p) {
				t.Fatalf("segment %v -> %v crosses wall at %v", a, b, p)
			}
		}
	}
}

func TestAStarNoPath(t *testing.T) {
	m := &arena.Map{
		Width:  5,
		Height: 3,
		Walls:  []arena.Cell{{2, 0}, {2, 1}, {2, 2}},
	}
	planner := NewAStarPlanner(NewNavGrid(m, navCell))
	if path := planner.FindPath(cellPos(0, 1), cellPos(4, 1)); path != nil {
		t.Errorf("expected no path across a full wall, got %v", path)
	}
}

func TestAStarBlockedGoalUsesNearestOpen(t *testing.T) {
	m := &arena.Map{Width: 5, Height: 3, Walls: []arena.Cell{{4, 1}}}
	planner := NewAStarPlanner(NewNavGrid(m, navCell))

	path := planner.FindPath(cellPos(0, 1), cellPos(4, 1))
	if path == nil {
		t.Fatal("expected a path to a cell next to the wall")
	}
	last := path[len(path)-1]
	if planner.Grid().IsBlockedWorld(last) {
		t.Errorf("path ends on a wall at %v", last)
	}
}

func TestNextWaypoint(t *testing.T) {
	cache := &PathCache{Waypoints: []r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 64}, {X: 64, Y: 64}}}

	wp, ok := NextWaypoint(cache, r2.Vec{X: 0, Y: 1}, 2)
	if !ok || wp != (r2.Vec{X: 0, Y: 64}) {
		t.Errorf("waypoint = %v (%v), want (0, 64)", wp, ok)
	}
	if cache.Index != 1 {
		t.Errorf("index = %d, want 1", cache.Index)
	}

	// Far from the current waypoint, the index does not move.
	if wp, _ := NextWaypoint(cache, r2.Vec{X: 64, Y: 0}, 2); wp != (r2.Vec{X: 0, Y: 64}) || cache.Index != 1 {
		t.Errorf("waypoint = %v at index %d, want (0, 64) at 1", wp, cache.Index)
	}

	cache.Index = 2
	if _, ok := NextWaypoint(cache, r2.Vec{X: 64, Y: 64}, 2); ok {
		t.Error("path should be exhausted at the last waypoint")
	}
	if _, ok := NextWaypoint(nil, r2.Vec{}, 2); ok {
		t.Error("nil cache has no waypoint")
	}
}
