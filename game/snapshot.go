package game

import (
	"github.com/pthm-cable/tankarena/systems"
	"github.com/pthm-cable/tankarena/telemetry"
)

// Snapshot captures the current scene together with per-player stats.
func (m *Match) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		GameID:    m.gameID,
		RNGSeed:   m.seed,
		MapWidth:  m.arena.Width,
		MapHeight: m.arena.Height,
		CellSize:  m.cfg.Arena.CellSize,
		Tick:      m.tick,
		SimTime:   m.simTime,
		Over:      m.over,
	}

	for _, e := range m.tanks() {
		tr, _, tank, _ := m.tankMapper.Get(e)
		state := telemetry.TankState{
			Player:    tank.Player,
			Team:      tank.Team,
			X:         tr.Pos.X,
			Y:         tr.Pos.Y,
			HullAngle: tr.Angle,
		}
		if turretEntity, err := m.TurretOf(e); err == nil {
			turret := m.turretMap.Get(turretEntity)
			state.TurretAngle = systems.TurretPose(*tr, *turret).Angle
			state.Reload = turret.Gun.Remaining
		}
		snap.Tanks = append(snap.Tanks, state)
	}

	for _, e := range m.bullets() {
		tr, b := m.bulletMapper.Get(e)
		snap.Bullets = append(snap.Bullets, telemetry.BulletState{
			Player:   b.Player,
			X:        tr.Pos.X,
			Y:        tr.Pos.Y,
			Angle:    tr.Angle,
			Traveled: b.Traveled,
		})
	}

	for i, p := range m.players {
		state := telemetry.PlayerState{Label: m.labels[i], Stats: *m.tracker.Get(i)}
		if p.outcome != nil {
			state.Outcome = p.outcome.String()
		}
		snap.Players = append(snap.Players, state)
	}
	return snap
}
