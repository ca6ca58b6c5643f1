package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Tank.Size != 32 {
		t.Errorf("tank size = %v, want 32", cfg.Tank.Size)
	}
	if math.Abs(cfg.Tank.RotationSpeed-math.Pi/2) > 1e-6 {
		t.Errorf("tank rotation speed = %v, want π/2", cfg.Tank.RotationSpeed)
	}
	if math.Abs(cfg.Turret.RotationSpeed-3*math.Pi/2) > 1e-6 {
		t.Errorf("turret rotation speed = %v, want 3π/2", cfg.Turret.RotationSpeed)
	}
	if cfg.Vision.Hull.Rays != 8 || cfg.Vision.Turret.Rays != 5 {
		t.Errorf("ray counts = %d/%d, want 8/5", cfg.Vision.Hull.Rays, cfg.Vision.Turret.Rays)
	}
	if cfg.Collision.OnQueryError != PolicyAbort {
		t.Errorf("default policy = %q, want %q", cfg.Collision.OnQueryError, PolicyAbort)
	}
	if cfg.Telemetry.BookmarkHistory != 10 || !cfg.Telemetry.SnapshotOnBookmark {
		t.Errorf("bookmark settings = %d/%v, want 10/true", cfg.Telemetry.BookmarkHistory, cfg.Telemetry.SnapshotOnBookmark)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if math.Abs(cfg.Derived.HullSpacing-math.Pi/4) > 1e-6 {
		t.Errorf("hull spacing = %v, want π/4", cfg.Derived.HullSpacing)
	}
	if math.Abs(cfg.Derived.TurretSpacing-math.Pi/60) > 1e-6 {
		t.Errorf("turret spacing = %v, want π/60", cfg.Derived.TurretSpacing)
	}
	if cfg.Derived.AgentTimeout != 5*time.Second {
		t.Errorf("agent timeout = %v, want 5s", cfg.Derived.AgentTimeout)
	}
	if cfg.Derived.PollInterval != 10*time.Millisecond {
		t.Errorf("poll interval = %v, want 10ms", cfg.Derived.PollInterval)
	}
	if cfg.Derived.StatsTicks != 60 {
		t.Errorf("stats ticks = %d, want 60", cfg.Derived.StatsTicks)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	override := []byte("bullet:\n  speed: 250\ncollision:\n  on_query_error: ignore\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bullet.Speed != 250 {
		t.Errorf("bullet speed = %v, want 250", cfg.Bullet.Speed)
	}
	if cfg.Bullet.Radius != 7 {
		t.Errorf("bullet radius = %v, want default 7", cfg.Bullet.Radius)
	}
	if cfg.Collision.OnQueryError != PolicyIgnore {
		t.Errorf("policy = %q, want %q", cfg.Collision.OnQueryError, PolicyIgnore)
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("collision:\n  on_query_error: guess\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tank.MoveSpeed = 42

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if loaded.Tank.MoveSpeed != 42 {
		t.Errorf("move speed after round trip = %v, want 42", loaded.Tank.MoveSpeed)
	}
}
