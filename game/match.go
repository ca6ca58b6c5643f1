// Package game runs a match: it owns the ECS world and the spatial index and
// advances them one tick at a time in a fixed order.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/spatial"
	"github.com/pthm-cable/tankarena/systems"
	"github.com/pthm-cable/tankarena/telemetry"
)

// Players is the number of players in a match.
const Players = 2

// Options configures a match.
type Options struct {
	Config      *config.Config
	Map         *arena.Map
	Controllers [Players]control.Controller
	GameID      string
	Seed        int64
	Spawns      *[Players]arena.Cell // overrides the random spawn choice
	Labels      [Players]string      // player names for snapshots

	Logger *slog.Logger
	Output *telemetry.OutputManager
	Perf   *telemetry.PerfCollector
	Sinks  []telemetry.Sink
}

type player struct {
	index   int
	team    uint8
	ctrl    control.Controller
	tank    ecs.Entity
	outcome *control.Outcome
}

// Match is a running two-player match.
type Match struct {
	cfg    *config.Config
	world  *ecs.World
	index  *spatial.Index
	logger *slog.Logger
	gameID string
	seed   int64
	arena  *arena.Map
	labels [Players]string

	// Entity mappers
	wallMapper   *ecs.Map3[components.Transform, components.Collider, components.Wall]
	tankMapper   *ecs.Map4[components.Transform, components.Collider, components.Tank, components.HullVision]
	turretMapper *ecs.Map2[components.Turret, components.TurretVision]
	bulletMapper *ecs.Map2[components.Transform, components.Bullet]

	// Individual component mappers for lookups
	tankMap   *ecs.Map[components.Tank]
	wallMap   *ecs.Map[components.Wall]
	turretMap *ecs.Map[components.Turret]

	tankFilter   *ecs.Filter1[components.Tank]
	wallFilter   *ecs.Filter2[components.Transform, components.Wall]
	turretFilter *ecs.Filter1[components.Turret]
	bulletFilter *ecs.Filter2[components.Transform, components.Bullet]

	hullSensor   systems.Sensor
	turretSensor systems.Sensor
	resolver     *systems.Resolver
	policy       systems.QueryPolicy
	bounds       r2.Box

	players [Players]*player

	collector *telemetry.Collector
	tracker   *telemetry.PlayerTracker
	bookmarks *telemetry.BookmarkDetector
	marks     []telemetry.Bookmark
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector
	sinks     []telemetry.Sink

	tick    int
	simTime float64
	over    bool
}

// NewMatch builds the scene: walls from the map and one tank per player,
// each with its turret.
func NewMatch(opts Options) (*Match, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.Map == nil {
		return nil, errors.New("match needs a map")
	}
	if err := opts.Map.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("game_id", opts.GameID)

	world := ecs.NewWorld()
	policy := systems.NewQueryPolicy(cfg.Collision, logger)

	m := &Match{
		cfg:    cfg,
		world:  world,
		index:  spatial.NewIndex(),
		logger: logger,
		gameID: opts.GameID,
		seed:   opts.Seed,
		arena:  opts.Map,
		labels: opts.Labels,

		wallMapper:   ecs.NewMap3[components.Transform, components.Collider, components.Wall](world),
		tankMapper:   ecs.NewMap4[components.Transform, components.Collider, components.Tank, components.HullVision](world),
		turretMapper: ecs.NewMap2[components.Turret, components.TurretVision](world),
		bulletMapper: ecs.NewMap2[components.Transform, components.Bullet](world),

		tankMap:   ecs.NewMap[components.Tank](world),
		wallMap:   ecs.NewMap[components.Wall](world),
		turretMap: ecs.NewMap[components.Turret](world),

		tankFilter:   ecs.NewFilter1[components.Tank](world),
		wallFilter:   ecs.NewFilter2[components.Transform, components.Wall](world),
		turretFilter: ecs.NewFilter1[components.Turret](world),
		bulletFilter: ecs.NewFilter2[components.Transform, components.Bullet](world),

		hullSensor:   systems.NewSensor(cfg.Vision.Hull),
		turretSensor: systems.NewSensor(cfg.Vision.Turret),
		resolver:     &systems.Resolver{Skin: cfg.Tank.Skin, Policy: policy},
		policy:       policy,
		bounds:       expand(opts.Map.Bounds(cfg.Arena.CellSize), cfg.Arena.CellSize),

		collector: telemetry.NewCollector(cfg.Derived.StatsTicks, cfg.Physics.DT),
		tracker:   telemetry.NewPlayerTracker(Players),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		output:    opts.Output,
		perf:      opts.Perf,
		sinks:     opts.Sinks,
	}
	if opts.Output != nil {
		m.sinks = append(m.sinks, opts.Output)
	}

	for _, cell := range opts.Map.Walls {
		if err := m.spawnWall(cell); err != nil {
			return nil, err
		}
	}

	var spawns [Players]arena.Cell
	if opts.Spawns != nil {
		spawns = *opts.Spawns
	} else {
		spawns[0], spawns[1] = opts.Map.PickSpawns(rand.New(rand.NewSource(opts.Seed)))
	}

	for i := range m.players {
		ctrl := opts.Controllers[i]
		if ctrl == nil {
			ctrl = control.Idle{}
		}
		p := &player{index: i, team: uint8(i), ctrl: ctrl}
		tank, err := m.spawnTank(p, spawns[i])
		if err != nil {
			return nil, err
		}
		p.tank = tank
		m.players[i] = p
		logger.Info("tank spawned", "player", i, "team", p.team, "cell", spawns[i], "entity", tank.ID())
	}

	return m, nil
}

func (m *Match) spawnWall(cell arena.Cell) error {
	size := m.cfg.Arena.CellSize
	tr := components.Transform{Pos: cell.Center(size)}
	coll := components.SquareCollider(size)
	e := m.wallMapper.NewEntity(&tr, &coll, &components.Wall{Cell: cell})
	if err := m.index.Insert(e, coll.Shape(tr)); err != nil {
		return fmt.Errorf("placing wall %v: %w", cell, err)
	}
	return nil
}

func (m *Match) spawnTank(p *player, cell arena.Cell) (ecs.Entity, error) {
	tr := components.Transform{Pos: cell.Center(m.cfg.Arena.CellSize)}
	coll := components.SquareCollider(m.cfg.Tank.Size)
	hull := components.HullVision{Rays: make([]components.Hit, m.hullSensor.Rays)}
	tank := m.tankMapper.NewEntity(&tr, &coll, &components.Tank{Team: p.team, Player: p.index}, &hull)

	turretVision := components.TurretVision{Rays: make([]components.Hit, m.turretSensor.Rays)}
	turret := m.turretMapper.NewEntity(&components.Turret{Tank: tank}, &turretVision)
	m.tankMap.Get(tank).Turret = turret

	if err := m.index.Insert(tank, coll.Shape(tr)); err != nil {
		return ecs.Entity{}, fmt.Errorf("placing tank for player %d: %w", p.index, err)
	}
	return tank, nil
}

// IsTank implements systems.Classifier.
func (m *Match) IsTank(e ecs.Entity) bool {
	return m.world.Alive(e) && m.tankMap.Has(e)
}

// IsWall implements systems.Classifier.
func (m *Match) IsWall(e ecs.Entity) bool {
	return m.world.Alive(e) && m.wallMap.Has(e)
}

// TurretOf returns the turret owned by tank.
func (m *Match) TurretOf(tank ecs.Entity) (ecs.Entity, error) {
	if !m.IsTank(tank) {
		return ecs.Entity{}, fmt.Errorf("entity %v is not a tank: %w", tank, systems.ErrInvariant)
	}
	turret := m.tankMap.Get(tank).Turret
	if !m.world.Alive(turret) || !m.turretMap.Has(turret) {
		return ecs.Entity{}, fmt.Errorf("tank %v has no turret: %w", tank, systems.ErrInvariant)
	}
	return turret, nil
}

// TankOf returns the tank of a player, if it is still in the match.
func (m *Match) TankOf(playerIndex int) (ecs.Entity, bool) {
	if playerIndex < 0 || playerIndex >= Players {
		return ecs.Entity{}, false
	}
	tank := m.players[playerIndex].tank
	return tank, m.IsTank(tank)
}

// Alive reports whether e is still part of the scene.
func (m *Match) Alive(e ecs.Entity) bool {
	return m.world.Alive(e)
}

// Over reports whether the match has ended.
func (m *Match) Over() bool { return m.over }

// Outcome returns how the match ended for a player.
func (m *Match) Outcome(playerIndex int) (control.Outcome, bool) {
	if playerIndex < 0 || playerIndex >= Players || m.players[playerIndex].outcome == nil {
		return control.Loss, false
	}
	return *m.players[playerIndex].outcome, true
}

// TickCount returns the number of ticks run.
func (m *Match) TickCount() int { return m.tick }

// SimTime returns the simulated seconds elapsed.
func (m *Match) SimTime() float64 { return m.simTime }

// Stats returns the activity of a player so far.
func (m *Match) Stats(playerIndex int) (telemetry.PlayerStats, bool) {
	s := m.tracker.Get(playerIndex)
	if s == nil {
		return telemetry.PlayerStats{}, false
	}
	return *s, true
}

// Bookmarks returns the notable moments detected so far.
func (m *Match) Bookmarks() []telemetry.Bookmark {
	return append([]telemetry.Bookmark(nil), m.marks...)
}

// TankCount returns the number of live tanks on a team.
func (m *Match) TankCount(team uint8) int {
	n := 0
	q := m.tankFilter.Query()
	for q.Next() {
		if q.Get().Team == team {
			n++
		}
	}
	return n
}

// BulletCount returns the number of bullets in flight.
func (m *Match) BulletCount() int {
	return len(m.bullets())
}

// Close releases the spatial index. Ticks after Close fail with spatial.ErrUnavailable.
func (m *Match) Close() {
	m.index.Close()
}

// tanks returns every live tank, in creation order.
func (m *Match) tanks() []ecs.Entity {
	var out []ecs.Entity
	q := m.tankFilter.Query()
	for q.Next() {
		out = append(out, q.Entity())
	}
	return out
}

func (m *Match) bullets() []ecs.Entity {
	var out []ecs.Entity
	q := m.bulletFilter.Query()
	for q.Next() {
		out = append(out, q.Entity())
	}
	return out
}

// AddSink subscribes s to the events of later ticks.
func (m *Match) AddSink(s telemetry.Sink) {
	m.sinks = append(m.sinks, s)
}

func (m *Match) emit(ev telemetry.Event) {
	ev.GameID = m.gameID
	for _, s := range m.sinks {
		s.Emit(ev)
	}
}

// expand grows b by margin on every side.
func expand(b r2.Box, margin float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: b.Min.X - margin, Y: b.Min.Y - margin},
		Max: r2.Vec{X: b.Max.X + margin, Y: b.Max.Y + margin},
	}
}
