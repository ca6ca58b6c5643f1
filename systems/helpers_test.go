package systems

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/spatial"
)

func init() {
	config.MustInit("")
}

type marker struct{ id int }

func newEntities(n int) []ecs.Entity {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[marker](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = mapper.NewEntity(&marker{id: i})
	}
	return out
}

// scene classifies entities from two sets.
type scene struct {
	tanks map[ecs.Entity]bool
	walls map[ecs.Entity]bool
}

func newScene() *scene {
	return &scene{tanks: map[ecs.Entity]bool{}, walls: map[ecs.Entity]bool{}}
}

func (s *scene) IsTank(e ecs.Entity) bool { return s.tanks[e] }
func (s *scene) IsWall(e ecs.Entity) bool { return s.walls[e] }

func square(x, y float64) geom.OBB {
	return geom.Square(r2.Vec{X: x, Y: y}, 32, 0)
}

func mustInsert(t *testing.T, ix *spatial.Index, e ecs.Entity, shape geom.OBB) {
	t.Helper()
	if err := ix.Insert(e, shape); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func quietPolicy(ignore bool) QueryPolicy {
	return QueryPolicy{Ignore: ignore, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
