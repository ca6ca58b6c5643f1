package arena

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMapValidates(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if m.Width != 20 || m.Height != 15 {
		t.Errorf("dimensions = %dx%d, want 20x15", m.Width, m.Height)
	}
	if len(m.SpawnPoints) != 4 {
		t.Errorf("spawn points = %d, want 4", len(m.SpawnPoints))
	}
	if len(m.Walls) == 0 {
		t.Error("default map has no walls")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Map
		wantErr bool
	}{
		{
			name: "ok",
			m:    Map{Width: 5, Height: 5, SpawnPoints: []Cell{{1, 1}, {3, 3}}},
		},
		{
			name:    "zero size",
			m:       Map{Width: 0, Height: 5, SpawnPoints: []Cell{{1, 1}, {3, 3}}},
			wantErr: true,
		},
		{
			name:    "single spawn",
			m:       Map{Width: 5, Height: 5, SpawnPoints: []Cell{{1, 1}}},
			wantErr: true,
		},
		{
			name:    "spawn on wall",
			m:       Map{Width: 5, Height: 5, Walls: []Cell{{3, 3}}, SpawnPoints: []Cell{{1, 1}, {3, 3}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPickSpawnsChoosesFarthest(t *testing.T) {
	m := Map{
		Width:       10,
		Height:      10,
		SpawnPoints: []Cell{{1, 1}, {2, 1}, {8, 8}, {1, 8}},
	}

	for seed := int64(0); seed < 20; seed++ {
		first, second := m.PickSpawns(rand.New(rand.NewSource(seed)))
		if first == second {
			t.Fatalf("seed %d: both players on %v", seed, first)
		}
		// Every other spawn must be no farther from first than second is.
		dist := func(c Cell) int {
			dx, dy := c.X()-first.X(), c.Y()-first.Y()
			return dx*dx + dy*dy
		}
		for _, s := range m.SpawnPoints {
			if s != first && dist(s) > dist(second) {
				t.Errorf("seed %d: %v is farther from %v than chosen %v", seed, s, first, second)
			}
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	data := []byte("width: 4\nheight: 3\nwalls:\n  - [0, 0]\nspawn_points:\n  - [1, 1]\n  - [2, 1]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Walls) != 1 || m.Walls[0] != (Cell{0, 0}) {
		t.Errorf("walls = %v", m.Walls)
	}

	b := m.Bounds(32)
	if b.Min.X != -16 || b.Max.X != 4*32-16 || b.Max.Y != 3*32-16 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestCellCenter(t *testing.T) {
	c := Cell{3, 2}
	p := c.Center(32)
	if p.X != 96 || p.Y != 64 {
		t.Errorf("Center = %v, want (96, 64)", p)
	}
}
