package systems

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AStarPlanner plans tank routes over a navigation grid. Moves are
// 4-connected: a tank fills a whole cell, so diagonal steps would clip corners.
type AStarPlanner struct {
	grid *NavGrid

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
}

// PathCache stores a computed path and the progress along it.
type PathCache struct {
	Waypoints []r2.Vec // Path waypoints in world coordinates
	Index     int      // Current waypoint index
	Goal      r2.Vec   // Target position when path was computed
}

// astarNode is a node in the A* search.
type astarNode struct {
	gx, gy int     // Grid coordinates
	f      float64 // f = g + h (priority)
	index  int     // Heap index
}

// nodeHeap implements heap.Interface for A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Stable order keeps planned routes reproducible.
	if h[i].gy != h[j].gy {
		return h[i].gy < h[j].gy
	}
	return h[i].gx < h[j].gx
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewAStarPlanner creates an A* planner over grid.
func NewAStarPlanner(grid *NavGrid) *AStarPlanner {
	return &AStarPlanner{
		grid:      grid,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
	}
}

// Grid returns the grid the planner searches.
func (a *AStarPlanner) Grid() *NavGrid { return a.grid }

// FindPath computes a path of cell centers from start to goal.
// Returns nil if no path exists.
func (a *AStarPlanner) FindPath(start, goal r2.Vec) []r2.Vec {
	grid := a.grid

	startGX, startGY := grid.WorldToGrid(start)
	goalGX, goalGY := grid.WorldToGrid(goal)

	if grid.IsBlocked(startGX, startGY) {
		startGX, startGY = a.findNearestOpen(startGX, startGY)
		if startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		goalGX, goalGY = a.findNearestOpen(goalGX, goalGY)
		if goalGX < 0 {
			return nil
		}
	}

	// Same cell - no path needed
	if startGX == goalGX && startGY == goalGY {
		return []r2.Vec{grid.GridToWorld(goalGX, goalGY)}
	}

	*a.openHeap = (*a.openHeap)[:0]
	clear(a.closedSet)
	clear(a.cameFrom)
	clear(a.gScore)

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	a.gScore[startID] = 0
	heap.Push(a.openHeap, &astarNode{gx: startGX, gy: startGY, f: heuristic(startGX, startGY, goalGX, goalGY)})

	for a.openHeap.Len() > 0 {
		current := heap.Pop(a.openHeap).(*astarNode)
		currentID := current.gy*grid.width + current.gx

		if currentID == goalID {
			return a.reconstructPath(startID, goalID)
		}
		if _, done := a.closedSet[currentID]; done {
			continue
		}
		a.closedSet[currentID] = struct{}{}

		for _, n := range [4][2]int{
			{current.gx - 1, current.gy},
			{current.gx + 1, current.gy},
			{current.gx, current.gy - 1},
			{current.gx, current.gy + 1},
		} {
			ngx, ngy := n[0], n[1]
			if grid.IsBlocked(ngx, ngy) {
				continue
			}
			neighborID := ngy*grid.width + ngx
			if _, ok := a.closedSet[neighborID]; ok {
				continue
			}

			tentativeG := a.gScore[currentID] + 1
			if existingG, exists := a.gScore[neighborID]; exists && tentativeG >= existingG {
				continue
			}
			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			// Stale heap entries are skipped by the closed set check.
			heap.Push(a.openHeap, &astarNode{gx: ngx, gy: ngy, f: tentativeG + heuristic(ngx, ngy, goalGX, goalGY)})
		}
	}

	return nil
}

// heuristic is the Manhattan distance, exact on an open 4-connected grid.
func heuristic(gx1, gy1, gx2, gy2 int) float64 {
	return math.Abs(float64(gx2-gx1)) + math.Abs(float64(gy2-gy1))
}

// reconstructPath builds the path from cameFrom map.
func (a *AStarPlanner) reconstructPath(startID, goalID int) []r2.Vec {
	var pathIDs []int
	current := goalID
	for current != startID {
		pathIDs = append(pathIDs, current)
		var ok bool
		current, ok = a.cameFrom[current]
		if !ok {
			break
		}
	}
	pathIDs = append(pathIDs, startID)

	path := make([]r2.Vec, len(pathIDs))
	for i := range pathIDs {
		id := pathIDs[len(pathIDs)-1-i]
		path[i] = a.grid.GridToWorld(id%a.grid.width, id/a.grid.width)
	}
	return simplifyPath(path)
}

// simplifyPath removes waypoints in the middle of straight runs.
func simplifyPath(path []r2.Vec) []r2.Vec {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]r2.Vec, 0, len(path))
	simplified = append(simplified, path[0])
	for i := 1; i < len(path)-1; i++ {
		in := r2.Sub(path[i], path[i-1])
		out := r2.Sub(path[i+1], path[i])
		if math.Abs(r2.Cross(in, out)) > 1e-9 {
			simplified = append(simplified, path[i])
		}
	}
	return append(simplified, path[len(path)-1])
}

// findNearestOpen finds the nearest unblocked cell to the given cell.
// Returns (-1, -1) if no open cell found within search radius.
func (a *AStarPlanner) findNearestOpen(gx, gy int) (int, int) {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				// Only check cells at the current radius
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if !a.grid.IsBlocked(gx+dx, gy+dy) {
					return gx + dx, gy + dy
				}
			}
		}
	}
	return -1, -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// NextWaypoint returns the waypoint to steer toward, advancing the path
// index once pos is within arrivalDist of the current one. ok is false
// when the path is exhausted.
func NextWaypoint(cache *PathCache, pos r2.Vec, arrivalDist float64) (r2.Vec, bool) {
	if cache == nil {
		return pos, false
	}
	for cache.Index < len(cache.Waypoints) {
		wp := cache.Waypoints[cache.Index]
		if r2.Norm(r2.Sub(wp, pos)) >= arrivalDist {
			return wp, true
		}
		cache.Index++
	}
	return pos, false
}
