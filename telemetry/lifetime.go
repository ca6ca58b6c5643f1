package telemetry

// PlayerStats tracks one player's activity over the match.
type PlayerStats struct {
	ShotsFired      int     `json:"shots_fired"`
	ShotsRefused    int     `json:"shots_refused"`
	TankHits        int     `json:"tank_hits"`
	WallHits        int     `json:"wall_hits"`
	Distance        float64 `json:"distance"` // units travelled by the hull
	MovesClamped    int     `json:"moves_clamped"`
	RotationsDenied int     `json:"rotations_denied"`

	SurvivalTimeSec float64 `json:"survival_time_sec"`
	EliminatedTick  int     `json:"eliminated_tick"` // 0 while alive
}

// Accuracy returns tank hits per fired shot.
func (s PlayerStats) Accuracy() float64 {
	if s.ShotsFired == 0 {
		return 0
	}
	return float64(s.TankHits) / float64(s.ShotsFired)
}

// PlayerTracker manages per-player statistics.
type PlayerTracker struct {
	stats []PlayerStats
}

// NewPlayerTracker creates a tracker for n players.
func NewPlayerTracker(n int) *PlayerTracker {
	return &PlayerTracker{stats: make([]PlayerStats, n)}
}

// Get returns the stats of a player, or nil for an unknown index.
func (pt *PlayerTracker) Get(player int) *PlayerStats {
	if player < 0 || player >= len(pt.stats) {
		return nil
	}
	return &pt.stats[player]
}

// RecordShot records a Shoot instruction; accepted is false while reloading.
func (pt *PlayerTracker) RecordShot(player int, accepted bool) {
	if s := pt.Get(player); s != nil {
		if accepted {
			s.ShotsFired++
		} else {
			s.ShotsRefused++
		}
	}
}

// RecordTankHit credits the shooter with a hit.
func (pt *PlayerTracker) RecordTankHit(player int) {
	if s := pt.Get(player); s != nil {
		s.TankHits++
	}
}

// RecordWallHit records a shot stopped by a wall.
func (pt *PlayerTracker) RecordWallHit(player int) {
	if s := pt.Get(player); s != nil {
		s.WallHits++
	}
}

// RecordMove adds travelled distance; clamped marks a move cut short.
func (pt *PlayerTracker) RecordMove(player int, distance float64, clamped bool) {
	if s := pt.Get(player); s != nil {
		s.Distance += distance
		if clamped {
			s.MovesClamped++
		}
	}
}

// RecordRotationDenied records a rotation refused because of overlap.
func (pt *PlayerTracker) RecordRotationDenied(player int) {
	if s := pt.Get(player); s != nil {
		s.RotationsDenied++
	}
}

// RecordEliminated stops the survival clock of a player.
func (pt *PlayerTracker) RecordEliminated(player, tick int) {
	if s := pt.Get(player); s != nil && s.EliminatedTick == 0 {
		s.EliminatedTick = tick
	}
}

// UpdateSurvivalTime advances the survival clock of every player still alive.
func (pt *PlayerTracker) UpdateSurvivalTime(dt float64) {
	for i := range pt.stats {
		if pt.stats[i].EliminatedTick == 0 {
			pt.stats[i].SurvivalTimeSec += dt
		}
	}
}

// All returns a copy of every player's stats.
func (pt *PlayerTracker) All() []PlayerStats {
	return append([]PlayerStats(nil), pt.stats...)
}
