package telemetry

import "log/slog"

// WindowStats holds aggregated match statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene at window end
	Team0Tanks int `csv:"team0_tanks"`
	Team1Tanks int `csv:"team1_tanks"`
	Bullets    int `csv:"bullets"`

	// Activity during window
	Instructions    int     `csv:"instructions"`
	Shots           int     `csv:"shots"`
	ShotsRefused    int     `csv:"shots_refused"` // Shoot while reloading
	WallHits        int     `csv:"wall_hits"`
	TankHits        int     `csv:"tank_hits"`
	BulletsExpired  int     `csv:"bullets_expired"`
	MovesClamped    int     `csv:"moves_clamped"`
	RotationsDenied int     `csv:"rotations_denied"`
	Accuracy        float64 `csv:"accuracy"` // tank hits per accepted shot
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("team0_tanks", s.Team0Tanks),
		slog.Int("team1_tanks", s.Team1Tanks),
		slog.Int("bullets", s.Bullets),
		slog.Int("instructions", s.Instructions),
		slog.Int("shots", s.Shots),
		slog.Int("shots_refused", s.ShotsRefused),
		slog.Int("wall_hits", s.WallHits),
		slog.Int("tank_hits", s.TankHits),
		slog.Int("bullets_expired", s.BulletsExpired),
		slog.Int("moves_clamped", s.MovesClamped),
		slog.Int("rotations_denied", s.RotationsDenied),
		slog.Float64("accuracy", s.Accuracy),
	)
}

// LogStats logs the window stats using the given logger, or the default one.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"tanks", []int{s.Team0Tanks, s.Team1Tanks},
		"bullets", s.Bullets,
		"shots", s.Shots,
		"tank_hits", s.TankHits,
		"wall_hits", s.WallHits,
		"moves_clamped", s.MovesClamped,
	)
}
