// Package arena describes the playing field: its size in cells, the wall cells
// and the cells tanks may spawn on.
package arena

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed maps/default.yaml
var defaultMapYAML []byte

// Cell is a map coordinate in cell units.
type Cell [2]int

// X returns the column.
func (c Cell) X() int { return c[0] }

// Y returns the row.
func (c Cell) Y() int { return c[1] }

// Center returns the world position of the cell center.
func (c Cell) Center(cellSize float64) r2.Vec {
	return r2.Vec{X: float64(c[0]) * cellSize, Y: float64(c[1]) * cellSize}
}

// Map is a read-only arena layout.
type Map struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Walls       []Cell `yaml:"walls"`
	SpawnPoints []Cell `yaml:"spawn_points"`
}

// Parse decodes and validates a YAML map.
func Parse(data []byte) (*Map, error) {
	m := &Map{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads a YAML map file. An empty path returns the embedded default map.
func Load(path string) (*Map, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded map.
func Default() (*Map, error) {
	return Parse(defaultMapYAML)
}

// Validate checks the layout can host a two-player match.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map dimensions must be positive, got %dx%d", m.Width, m.Height)
	}
	if len(m.SpawnPoints) < 2 {
		return errors.New("map needs at least two spawn points")
	}
	walls := make(map[Cell]struct{}, len(m.Walls))
	for _, w := range m.Walls {
		walls[w] = struct{}{}
	}
	for _, s := range m.SpawnPoints {
		if _, ok := walls[s]; ok {
			return fmt.Errorf("spawn point %v is on a wall", s)
		}
	}
	return nil
}

// PickSpawns chooses a random spawn for the first player and the spawn
// farthest from it for the second. Ties keep the earlier spawn point.
func (m *Map) PickSpawns(rng *rand.Rand) (Cell, Cell) {
	first := m.SpawnPoints[rng.Intn(len(m.SpawnPoints))]

	second := first
	best := -1
	for _, s := range m.SpawnPoints {
		if s == first {
			continue
		}
		dx := s.X() - first.X()
		dy := s.Y() - first.Y()
		if d := dx*dx + dy*dy; d > best {
			best = d
			second = s
		}
	}
	return first, second
}

// Bounds returns the world rectangle covered by the map, walls included.
func (m *Map) Bounds(cellSize float64) r2.Box {
	half := cellSize / 2
	return r2.Box{
		Min: r2.Vec{X: -half, Y: -half},
		Max: r2.Vec{X: float64(m.Width)*cellSize - half, Y: float64(m.Height)*cellSize - half},
	}
}
