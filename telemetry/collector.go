package telemetry

// Collector accumulates match activity within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int
	dt                  float64

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	instructions    int
	shots           int
	shotsRefused    int
	wallHits        int
	tankHits        int
	movesClamped    int
	rotationsDenied int
	bulletsExpired  int
}

// NewCollector creates a stats collector.
// windowTicks is the number of ticks per window; dt converts ticks to seconds.
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks, dt: dt}
}

// RecordInstruction records an applied instruction.
func (c *Collector) RecordInstruction() { c.instructions++ }

// RecordShot records a Shoot instruction; accepted is false while reloading.
func (c *Collector) RecordShot(accepted bool) {
	if accepted {
		c.shots++
	} else {
		c.shotsRefused++
	}
}

// RecordWallHit records a bullet stopped by a wall.
func (c *Collector) RecordWallHit() { c.wallHits++ }

// RecordTankHit records a bullet striking a tank.
func (c *Collector) RecordTankHit() { c.tankHits++ }

// RecordMoveClamped records a translation cut short by an obstacle.
func (c *Collector) RecordMoveClamped() { c.movesClamped++ }

// RecordRotationDenied records a rotation refused because of overlap.
func (c *Collector) RecordRotationDenied() { c.rotationsDenied++ }

// RecordBulletExpired records a bullet discarded without hitting anything.
func (c *Collector) RecordBulletExpired() { c.bulletsExpired++ }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// teamTanks holds the live tank count per team; bullets is the number in flight.
func (c *Collector) Flush(currentTick int, teamTanks [2]int, bullets int) WindowStats {
	var accuracy float64
	if c.shots > 0 {
		accuracy = float64(c.tankHits) / float64(c.shots)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Team0Tanks: teamTanks[0],
		Team1Tanks: teamTanks[1],
		Bullets:    bullets,

		Instructions:    c.instructions,
		Shots:           c.shots,
		ShotsRefused:    c.shotsRefused,
		WallHits:        c.wallHits,
		TankHits:        c.tankHits,
		BulletsExpired:  c.bulletsExpired,
		MovesClamped:    c.movesClamped,
		RotationsDenied: c.rotationsDenied,
		Accuracy:        accuracy,
	}

	c.windowStartTick = currentTick
	c.instructions = 0
	c.shots = 0
	c.shotsRefused = 0
	c.wallHits = 0
	c.tankHits = 0
	c.movesClamped = 0
	c.rotationsDenied = 0
	c.bulletsExpired = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
