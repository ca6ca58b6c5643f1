// Package bot provides a local computer opponent. The Hunter patrols the
// map's spawn points along A* routes and sweeps its turret. Once the turret
// sees an enemy it stops, lines the barrel up with the rays that hit and fires.
package bot

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/systems"
)

// Options tunes a Hunter.
type Options struct {
	Map      *arena.Map
	CellSize float64
	Turret   systems.Sensor // the turret ray fan, to turn ray indexes into angles

	TurnTolerance float64 // radians off course before turning instead of driving
	AimTolerance  float64 // radians between barrel and target at which to fire
	ArrivalDist   float64 // distance at which a waypoint counts as reached
	StuckTicks    int     // polls without progress before picking the next goal

	Logger *slog.Logger
}

// DefaultOptions returns options for a map with the given cell size and turret fan.
func DefaultOptions(m *arena.Map, cellSize float64, turret systems.Sensor) Options {
	return Options{
		Map:           m,
		CellSize:      cellSize,
		Turret:        turret,
		TurnTolerance: 0.05,
		AimTolerance:  0.045,
		ArrivalDist:   cellSize / 8,
		StuckTicks:    30,
	}
}

// Hunter is a control.Controller driven by a path planner.
type Hunter struct {
	opts    Options
	planner *systems.AStarPlanner
	goals   []r2.Vec
	logger  *slog.Logger

	mu      sync.Mutex
	obs     control.Observation
	seen    bool
	done    bool
	goal    int
	path    *systems.PathCache
	lastPos r2.Vec
	driving bool
	stuck   int
	outcome *control.Outcome
}

// NewHunter creates a hunter for the given map.
func NewHunter(opts Options) *Hunter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	goals := make([]r2.Vec, len(opts.Map.SpawnPoints))
	for i, s := range opts.Map.SpawnPoints {
		goals[i] = s.Center(opts.CellSize)
	}
	return &Hunter{
		opts:    opts,
		planner: systems.NewAStarPlanner(systems.NewNavGrid(opts.Map, opts.CellSize)),
		goals:   goals,
		logger:  logger,
	}
}

// Observe implements control.Controller.
func (h *Hunter) Observe(o control.Observation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.obs = o
	h.seen = true
}

// Finish implements control.Controller.
func (h *Hunter) Finish(o control.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = true
	if h.outcome == nil {
		h.outcome = &o
	}
}

// Outcome returns the reported outcome, if any.
func (h *Hunter) Outcome() (control.Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.outcome == nil {
		return control.Loss, false
	}
	return *h.outcome, true
}

// Poll implements control.Controller. While aiming the hull holds still;
// otherwise each call yields a turret sweep and one hull instruction.
func (h *Hunter) Poll() []control.Instruction {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done || !h.seen {
		return nil
	}

	if offset, ok := h.target(); ok {
		h.driving = false
		switch {
		case offset > h.opts.AimTolerance:
			return []control.Instruction{control.SpinTurretRight}
		case offset < -h.opts.AimTolerance:
			return []control.Instruction{control.SpinTurretLeft}
		default:
			return []control.Instruction{control.Shoot}
		}
	}

	out := []control.Instruction{control.SpinTurretLeft}
	if inst, ok := h.steer(); ok {
		out = append(out, inst)
	}
	return out
}

// target returns the mean angle, relative to the barrel, of the turret rays
// that see an enemy.
func (h *Hunter) target() (float64, bool) {
	var sum float64
	n := 0
	for k, r := range h.obs.TurretVision {
		if r.Kind != components.HitEnemy {
			continue
		}
		sum += h.opts.Turret.StartOffset + float64(k)*h.opts.Turret.Spacing
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// steer picks the hull instruction that follows the current route.
func (h *Hunter) steer() (control.Instruction, bool) {
	pos := h.obs.Pos
	h.checkProgress(pos)

	wp, ok := systems.NextWaypoint(h.path, pos, h.opts.ArrivalDist)
	if !ok {
		if !h.replan(pos) {
			return 0, false
		}
		if wp, ok = systems.NextWaypoint(h.path, pos, h.opts.ArrivalDist); !ok {
			return 0, false
		}
	}

	diff := geom.NormalizeAngle(geom.AngleFromUp(r2.Sub(wp, pos)) - h.obs.HullAngle)
	if diff > math.Pi {
		diff -= geom.TwoPi
	}
	h.lastPos = pos
	switch {
	case diff > h.opts.TurnTolerance:
		h.driving = false
		return control.RotateRight, true
	case diff < -h.opts.TurnTolerance:
		h.driving = false
		return control.RotateLeft, true
	default:
		h.driving = true
		return control.MoveForward, true
	}
}

// checkProgress drops the route after too many forward moves that went nowhere.
func (h *Hunter) checkProgress(pos r2.Vec) {
	if !h.driving || r2.Norm(r2.Sub(pos, h.lastPos)) > 1e-3 {
		h.stuck = 0
		return
	}
	h.stuck++
	if h.stuck >= h.opts.StuckTicks {
		h.logger.Debug("hunter stuck, picking next goal", "pos", pos)
		h.stuck = 0
		h.path = nil
	}
}

// replan routes to the next spawn point that is not where the tank already is.
func (h *Hunter) replan(pos r2.Vec) bool {
	for range h.goals {
		goal := h.goals[h.goal%len(h.goals)]
		h.goal++
		if r2.Norm(r2.Sub(goal, pos)) < h.opts.CellSize {
			continue
		}
		if path := h.planner.FindPath(pos, goal); len(path) > 0 {
			h.path = &systems.PathCache{Waypoints: path, Goal: goal}
			return true
		}
	}
	h.path = nil
	return false
}
