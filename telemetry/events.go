// Package telemetry records what happens in a match: per-window stats, tick
// timing and a log of match events, written as CSV.
package telemetry

// EventType identifies match events.
type EventType string

const (
	EventShot       EventType = "shot"
	EventWallHit    EventType = "wall_hit"
	EventTankHit    EventType = "tank_hit"
	EventEliminated EventType = "eliminated"
	EventMatchEnd   EventType = "match_end"
)

// Event is a single match event.
type Event struct {
	Type   EventType `csv:"type" json:"type"`
	GameID string    `csv:"game_id" json:"game_id"`
	Tick   int       `csv:"tick" json:"tick"`
	Player int       `csv:"player" json:"player"` // acting player, -1 if none
	Team   int       `csv:"team" json:"team"`
	X      float64   `csv:"x" json:"x"`
	Y      float64   `csv:"y" json:"y"`

	// Optional fields depending on event type
	Target  int    `csv:"target" json:"target"`             // player hit or eliminated, -1 if none
	Outcome string `csv:"outcome" json:"outcome,omitempty"` // match_end only
}

// NewShotEvent creates a shot event at the muzzle position.
func NewShotEvent(tick, player, team int, x, y float64) Event {
	return Event{Type: EventShot, Tick: tick, Player: player, Team: team, X: x, Y: y, Target: -1}
}

// NewWallHitEvent creates an event for a bullet stopped by a wall.
func NewWallHitEvent(tick, shooter, team int, x, y float64) Event {
	return Event{Type: EventWallHit, Tick: tick, Player: shooter, Team: team, X: x, Y: y, Target: -1}
}

// NewTankHitEvent creates an event for a bullet striking a tank.
func NewTankHitEvent(tick, shooter, team, target int, x, y float64) Event {
	return Event{Type: EventTankHit, Tick: tick, Player: shooter, Team: team, X: x, Y: y, Target: target}
}

// NewEliminatedEvent creates an event for a tank and its turret leaving the match.
func NewEliminatedEvent(tick, player, team int, x, y float64) Event {
	return Event{Type: EventEliminated, Tick: tick, Player: -1, Team: team, X: x, Y: y, Target: player}
}

// NewMatchEndEvent creates the final event for one player.
func NewMatchEndEvent(tick, player, team int, outcome string) Event {
	return Event{Type: EventMatchEnd, Tick: tick, Player: player, Team: team, Target: -1, Outcome: outcome}
}

// Sink receives match events.
type Sink interface {
	Emit(Event)
}
