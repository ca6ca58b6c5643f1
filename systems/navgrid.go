package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
)

// NavGrid stores a navigation grid for A* pathfinding.
// One nav cell per map cell; walls and everything outside the map are blocked.
type NavGrid struct {
	cells    []bool  // true = blocked
	cellSize float64 // world units per cell
	width    int     // grid width in cells
	height   int     // grid height in cells
}

// NewNavGrid creates a navigation grid from a map layout.
func NewNavGrid(m *arena.Map, cellSize float64) *NavGrid {
	grid := &NavGrid{
		cells:    make([]bool, m.Width*m.Height),
		cellSize: cellSize,
		width:    m.Width,
		height:   m.Height,
	}
	for _, w := range m.Walls {
		if grid.inside(w.X(), w.Y()) {
			grid.cells[w.Y()*grid.width+w.X()] = true
		}
	}
	return grid
}

func (g *NavGrid) inside(gx, gy int) bool {
	return gx >= 0 && gx < g.width && gy >= 0 && gy < g.height
}

// IsBlocked checks if a grid cell is blocked.
func (g *NavGrid) IsBlocked(gx, gy int) bool {
	if !g.inside(gx, gy) {
		return true
	}
	return g.cells[gy*g.width+gx]
}

// IsBlockedWorld checks if the cell containing a world position is blocked.
func (g *NavGrid) IsBlockedWorld(p r2.Vec) bool {
	gx, gy := g.WorldToGrid(p)
	return g.IsBlocked(gx, gy)
}

// WorldToGrid converts world coordinates to grid coordinates.
// Cell centers sit at multiples of the cell size.
func (g *NavGrid) WorldToGrid(p r2.Vec) (int, int) {
	return int(math.Floor(p.X/g.cellSize + 0.5)), int(math.Floor(p.Y/g.cellSize + 0.5))
}

// GridToWorld converts grid coordinates to the world position of the cell center.
func (g *NavGrid) GridToWorld(gx, gy int) r2.Vec {
	return arena.Cell{gx, gy}.Center(g.cellSize)
}

// Width returns the grid width in cells.
func (g *NavGrid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *NavGrid) Height() int { return g.height }
