// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all arena configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Tank      TankConfig      `yaml:"tank"`
	Turret    TurretConfig    `yaml:"turret"`
	Bullet    BulletConfig    `yaml:"bullet"`
	Vision    VisionConfig    `yaml:"vision"`
	Collision CollisionConfig `yaml:"collision"`
	Agent     AgentConfig     `yaml:"agent"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Events    EventsConfig    `yaml:"events"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds map geometry settings.
type ArenaConfig struct {
	CellSize float64 `yaml:"cell_size"` // World units per map cell (wall side length)
	Map      string  `yaml:"map"`       // Map YAML path; empty uses the embedded map
}

// PhysicsConfig holds simulation timing.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`       // Seconds per tick when running with a fixed step
	Realtime bool    `yaml:"realtime"` // Headless runs sleep dt between ticks
}

// TankConfig holds hull parameters.
type TankConfig struct {
	Size          float64 `yaml:"size"`           // Side of the square hull
	MoveSpeed     float64 `yaml:"move_speed"`     // Units per second
	RotationSpeed float64 `yaml:"rotation_speed"` // Radians per second
	Skin          float64 `yaml:"skin"`           // Gap kept from obstacles after a clamped move; 0 stops at contact
}

// TurretConfig holds turret and gun parameters.
type TurretConfig struct {
	RotationSpeed float64 `yaml:"rotation_speed"` // Radians per second
	ReloadSeconds float64 `yaml:"reload_seconds"`
}

// BulletConfig holds projectile parameters.
type BulletConfig struct {
	Speed    float64 `yaml:"speed"`     // Units per second
	Radius   float64 `yaml:"radius"`    // Overlap circle radius
	MaxRange float64 `yaml:"max_range"` // Distance after which a bullet is discarded
}

// RayFanConfig describes one vision sensor.
type RayFanConfig struct {
	Rays        int     `yaml:"rays"`
	FOV         float64 `yaml:"fov"`          // Total angle covered; spacing = fov / rays
	StartOffset float64 `yaml:"start_offset"` // Angle of the first ray relative to forward
	Range       float64 `yaml:"range"`        // Maximum ray length
}

// VisionConfig holds both tank sensors.
type VisionConfig struct {
	Hull   RayFanConfig `yaml:"hull"`
	Turret RayFanConfig `yaml:"turret"`
}

// CollisionConfig holds the spatial query failure policy.
type CollisionConfig struct {
	OnQueryError string `yaml:"on_query_error"` // "abort" or "ignore"
}

// AgentConfig holds remote decision service settings.
type AgentConfig struct {
	TimeoutSec        float64 `yaml:"timeout_sec"`
	PollIntervalMS    int     `yaml:"poll_interval_ms"`
	CallbackServer    string  `yaml:"callback_server"`
	CallbackPort      string  `yaml:"callback_port"`
	InstructionBuffer int     `yaml:"instruction_buffer"`
}

// TelemetryConfig holds CSV output settings.
type TelemetryConfig struct {
	StatsWindow        float64 `yaml:"stats_window"`         // Seconds per stats row
	BookmarkHistory    int     `yaml:"bookmark_history"`     // Windows averaged for firefight detection
	SnapshotOnBookmark bool    `yaml:"snapshot_on_bookmark"` // Save a match snapshot on each bookmark
}

// EventsConfig holds match event publishing settings.
type EventsConfig struct {
	NatsURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Query failure policies.
const (
	PolicyAbort  = "abort"
	PolicyIgnore = "ignore"
)

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	HullSpacing   float64       // Vision.Hull.FOV / Rays
	TurretSpacing float64       // Vision.Turret.FOV / Rays
	AgentTimeout  time.Duration // Agent.TimeoutSec
	PollInterval  time.Duration // Agent.PollIntervalMS
	StatsTicks    int           // Telemetry.StatsWindow / Physics.DT, at least 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Collision.OnQueryError {
	case PolicyAbort, PolicyIgnore:
	default:
		return fmt.Errorf("collision.on_query_error: unknown policy %q", c.Collision.OnQueryError)
	}
	if c.Vision.Hull.Rays <= 0 || c.Vision.Turret.Rays <= 0 {
		return fmt.Errorf("vision: ray counts must be positive")
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Tank.Size <= 0 || c.Arena.CellSize <= 0 {
		return fmt.Errorf("tank.size and arena.cell_size must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HullSpacing = c.Vision.Hull.FOV / float64(c.Vision.Hull.Rays)
	c.Derived.TurretSpacing = c.Vision.Turret.FOV / float64(c.Vision.Turret.Rays)
	c.Derived.AgentTimeout = time.Duration(c.Agent.TimeoutSec * float64(time.Second))
	c.Derived.PollInterval = time.Duration(c.Agent.PollIntervalMS) * time.Millisecond

	c.Derived.StatsTicks = int(c.Telemetry.StatsWindow/c.Physics.DT + 0.5)
	if c.Derived.StatsTicks < 1 {
		c.Derived.StatsTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
