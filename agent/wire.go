package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/control"
)

// Vec is a position on the wire.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ray is one vision reading on the wire: {"Wall": d}, {"Enemy": d} or null.
type Ray components.Hit

// MarshalJSON encodes the ray as an externally tagged value.
func (r Ray) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case components.HitWall, components.HitEnemy:
		return json.Marshal(map[string]float64{r.Kind.String(): r.Distance})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes an externally tagged value.
func (r *Ray) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Ray{}
		return nil
	}
	var tagged map[string]float64
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("decoding ray: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("decoding ray: want one tag, got %d", len(tagged))
	}
	for tag, d := range tagged {
		switch tag {
		case "Wall":
			*r = Ray{Kind: components.HitWall, Distance: d}
		case "Enemy":
			*r = Ray{Kind: components.HitEnemy, Distance: d}
		default:
			return fmt.Errorf("decoding ray: unknown tag %q", tag)
		}
	}
	return nil
}

// Snapshot is the body of a /brain request.
type Snapshot struct {
	GameID       string  `json:"game_id"`
	Pos          Vec     `json:"pos"`
	TurretRot    float64 `json:"turret_rot"`
	TurretVision []Ray   `json:"turret_vision"`
	HullVision   []Ray   `json:"hull_vision"`
}

// NewSnapshot converts an observation for the given match.
func NewSnapshot(gameID string, o control.Observation) Snapshot {
	return Snapshot{
		GameID:       gameID,
		Pos:          Vec{X: o.Pos.X, Y: o.Pos.Y},
		TurretRot:    o.TurretAngle,
		TurretVision: rays(o.TurretVision),
		HullVision:   rays(o.HullVision),
	}
}

// EmptySnapshot is what is sent before the first observation: every ray is null.
func EmptySnapshot(gameID string, turretRays, hullRays int) Snapshot {
	return Snapshot{
		GameID:       gameID,
		TurretVision: make([]Ray, turretRays),
		HullVision:   make([]Ray, hullRays),
	}
}

func rays(hits []components.Hit) []Ray {
	out := make([]Ray, len(hits))
	for i, h := range hits {
		out[i] = Ray(h)
	}
	return out
}

// StartRequest is the body of a /start_game request.
type StartRequest struct {
	GameID string `json:"game_id"`
	Server string `json:"server"`
	Port   string `json:"port"`
}

// EndRequest is the body of a /win or /loss request.
type EndRequest struct {
	GameID string `json:"game_id"`
}

// Action is the body of a /brain response.
type Action struct {
	Action string `json:"action"`
}
