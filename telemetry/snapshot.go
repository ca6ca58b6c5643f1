package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the state of a match at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	GameID  string `json:"game_id"`
	RNGSeed int64  `json:"rng_seed"`

	MapWidth  int     `json:"map_width"`
	MapHeight int     `json:"map_height"`
	CellSize  float64 `json:"cell_size"`

	Tick    int     `json:"tick"`
	SimTime float64 `json:"sim_time"`
	Over    bool    `json:"over"`

	Tanks   []TankState   `json:"tanks"`
	Bullets []BulletState `json:"bullets"`
	Players []PlayerState `json:"players"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// TankState holds one live tank.
type TankState struct {
	Player      int     `json:"player"`
	Team        uint8   `json:"team"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	HullAngle   float64 `json:"hull_angle"`
	TurretAngle float64 `json:"turret_angle"`
	Reload      float64 `json:"reload"`
}

// BulletState holds one projectile in flight.
type BulletState struct {
	Player   int     `json:"player"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Traveled float64 `json:"traveled"`
}

// PlayerState holds a player's label, outcome and match stats.
type PlayerState struct {
	Label   string      `json:"label"`
	Outcome string      `json:"outcome,omitempty"`
	Stats   PlayerStats `json:"stats"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
