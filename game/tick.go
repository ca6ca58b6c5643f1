package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/systems"
	"github.com/pthm-cable/tankarena/telemetry"
)

// ErrMatchOver is returned by Tick once a winner has been decided.
var ErrMatchOver = errors.New("match is over")

// Tick advances the match by dt seconds:
// reload, instructions, vision, observation, bullets, cleanup, end check, telemetry.
func (m *Match) Tick(dt float64) error {
	if m.over {
		return ErrMatchOver
	}
	m.perf.StartTick()
	defer m.perf.EndTick()

	m.tick++
	m.simTime += dt

	m.perf.StartPhase(telemetry.PhaseReload)
	m.advanceReloads(dt)

	m.perf.StartPhase(telemetry.PhaseInstructions)
	for _, p := range m.players {
		if err := m.applyInstructions(p, dt); err != nil {
			return err
		}
	}

	m.perf.StartPhase(telemetry.PhaseVision)
	if err := m.updateVision(); err != nil {
		return err
	}

	m.perf.StartPhase(telemetry.PhaseObserve)
	m.observe()

	m.perf.StartPhase(telemetry.PhaseBullets)
	m.stepBullets(dt)

	m.perf.StartPhase(telemetry.PhaseCleanup)
	if err := m.resolveBullets(); err != nil {
		return err
	}
	m.checkEnd()

	m.perf.StartPhase(telemetry.PhaseTelemetry)
	m.tracker.UpdateSurvivalTime(dt)
	m.flushTelemetry()
	return nil
}

func (m *Match) advanceReloads(dt float64) {
	q := m.turretFilter.Query()
	for q.Next() {
		t := q.Get()
		systems.AdvanceReload(&t.Gun, dt)
	}
}

// applyInstructions drains a controller and applies each instruction in order.
// Instructions for a tank that is no longer in the match are discarded.
func (m *Match) applyInstructions(p *player, dt float64) error {
	insts := p.ctrl.Poll()
	if !m.IsTank(p.tank) {
		return nil
	}
	for _, inst := range insts {
		if err := m.apply(p, inst, dt); err != nil {
			return fmt.Errorf("player %d %s: %w", p.index, inst, err)
		}
		m.collector.RecordInstruction()
	}
	return nil
}

func (m *Match) apply(p *player, inst control.Instruction, dt float64) error {
	tr, coll, tank, _ := m.tankMapper.Get(p.tank)
	shape := coll.Shape(*tr)

	switch inst {
	case control.MoveForward, control.MoveBackward:
		dir := tr.Forward()
		if inst == control.MoveBackward {
			dir = r2.Scale(-1, dir)
		}
		pos, frac, err := m.resolver.Translate(m.index, shape, dir, m.cfg.Tank.MoveSpeed*dt, p.tank)
		if err != nil {
			return err
		}
		if frac < 1 {
			m.collector.RecordMoveClamped()
		}
		m.tracker.RecordMove(p.index, r2.Norm(r2.Sub(pos, tr.Pos)), frac < 1)
		tr.Pos = pos
		return m.moveBody(p.tank, coll.Shape(*tr))

	case control.RotateLeft, control.RotateRight:
		// Left turns clockwise, away from the counter-clockwise ray order.
		delta := m.cfg.Tank.RotationSpeed * dt
		if inst == control.RotateLeft {
			delta = -delta
		}
		angle, ok, err := m.resolver.Rotate(m.index, shape, delta, p.tank)
		if err != nil {
			return err
		}
		if !ok {
			m.collector.RecordRotationDenied()
			m.tracker.RecordRotationDenied(p.index)
			return nil
		}
		tr.Angle = angle
		return m.moveBody(p.tank, coll.Shape(*tr))

	case control.SpinTurretLeft, control.SpinTurretRight:
		turret, err := m.TurretOf(p.tank)
		if err != nil {
			return err
		}
		delta := m.cfg.Turret.RotationSpeed * dt
		if inst == control.SpinTurretLeft {
			delta = -delta
		}
		systems.Spin(m.turretMap.Get(turret), delta)
		return nil

	case control.Shoot:
		turretEntity, err := m.TurretOf(p.tank)
		if err != nil {
			return err
		}
		turret := m.turretMap.Get(turretEntity)
		fired := systems.Fire(&turret.Gun, m.cfg.Turret.ReloadSeconds)
		m.collector.RecordShot(fired)
		m.tracker.RecordShot(p.index, fired)
		if !fired {
			return nil
		}
		pose := systems.TurretPose(*tr, *turret)
		bullet := components.Bullet{Owner: p.tank, Player: tank.Player, Team: tank.Team}
		// Creating the entity invalidates the component pointers above.
		m.bulletMapper.NewEntity(&pose, &bullet)
		m.emit(telemetry.NewShotEvent(m.tick, bullet.Player, int(bullet.Team), pose.Pos.X, pose.Pos.Y))
		m.logger.Debug("shot fired", "tick", m.tick, "player", bullet.Player, "angle", pose.Angle)
		return nil
	}
	return fmt.Errorf("unknown instruction %d", inst)
}

// moveBody updates the indexed collider of e after its transform changed.
func (m *Match) moveBody(e ecs.Entity, shape geom.OBB) error {
	if err := m.index.Move(e, shape); err != nil {
		return m.policy.Handle("move", err)
	}
	return nil
}

// updateVision recomputes both sensors of every tank from the current scene.
func (m *Match) updateVision() error {
	for _, e := range m.tanks() {
		tr, _, _, hull := m.tankMapper.Get(e)
		turretEntity, err := m.TurretOf(e)
		if err != nil {
			return err
		}
		turret, turretVision := m.turretMapper.Get(turretEntity)

		hullRays, err := m.hullSensor.Cast(m.index, m, tr.Pos, tr.Forward(), e)
		if err != nil {
			if err := m.policy.Handle("hull vision", err); err != nil {
				return err
			}
			hullRays = make([]components.Hit, m.hullSensor.Rays)
		}
		hull.Rays = hullRays

		pose := systems.TurretPose(*tr, *turret)
		turretRays, err := m.turretSensor.Cast(m.index, m, pose.Pos, pose.Forward(), e)
		if err != nil {
			if err := m.policy.Handle("turret vision", err); err != nil {
				return err
			}
			turretRays = make([]components.Hit, m.turretSensor.Rays)
		}
		turretVision.Rays = turretRays
	}
	return nil
}

// observe hands every live player a copy of its tank's state.
func (m *Match) observe() {
	for _, p := range m.players {
		if !m.IsTank(p.tank) {
			continue
		}
		obs, err := m.observation(p.tank)
		if err != nil {
			m.logger.Warn("no observation", "player", p.index, "error", err)
			continue
		}
		p.ctrl.Observe(obs)
	}
}

func (m *Match) observation(tank ecs.Entity) (control.Observation, error) {
	turretEntity, err := m.TurretOf(tank)
	if err != nil {
		return control.Observation{}, err
	}
	tr, _, _, hull := m.tankMapper.Get(tank)
	turret, turretVision := m.turretMapper.Get(turretEntity)
	return control.Observation{
		Pos:          tr.Pos,
		HullAngle:    tr.Angle,
		TurretAngle:  systems.TurretPose(*tr, *turret).Angle,
		HullVision:   append([]components.Hit(nil), hull.Rays...),
		TurretVision: append([]components.Hit(nil), turretVision.Rays...),
	}, nil
}

func (m *Match) stepBullets(dt float64) {
	q := m.bulletFilter.Query()
	for q.Next() {
		tr, b := q.Get()
		systems.StepBullet(tr, b, m.cfg.Bullet.Speed, dt)
	}
}

// resolveBullets removes bullets that expired or struck something, then
// removes every tank that was hit together with its turret.
func (m *Match) resolveBullets() error {
	var spent []ecs.Entity
	hitTanks := make(map[ecs.Entity]struct{})
	var hitOrder []ecs.Entity

	for _, e := range m.bullets() {
		tr, b := m.bulletMapper.Get(e)
		if systems.BulletExpired(tr.Pos, *b, m.bounds, m.cfg.Bullet.MaxRange) {
			m.collector.RecordBulletExpired()
			spent = append(spent, e)
			continue
		}

		impact, ok, err := systems.ResolveBullet(m.index, m, tr.Pos, m.cfg.Bullet.Radius, b.Owner)
		if err != nil {
			if err := m.policy.Handle("bullet", err); err != nil {
				return err
			}
			continue
		}
		if !ok {
			continue
		}

		spent = append(spent, e)
		switch impact.Kind {
		case components.HitWall:
			m.collector.RecordWallHit()
			m.tracker.RecordWallHit(b.Player)
			m.emit(telemetry.NewWallHitEvent(m.tick, b.Player, int(b.Team), tr.Pos.X, tr.Pos.Y))
		case components.HitEnemy:
			m.collector.RecordTankHit()
			m.tracker.RecordTankHit(b.Player)
			target := m.tankMap.Get(impact.Entity)
			m.emit(telemetry.NewTankHitEvent(m.tick, b.Player, int(b.Team), target.Player, tr.Pos.X, tr.Pos.Y))
			if _, dup := hitTanks[impact.Entity]; !dup {
				hitTanks[impact.Entity] = struct{}{}
				hitOrder = append(hitOrder, impact.Entity)
			}
		}
	}

	for _, e := range spent {
		m.world.RemoveEntity(e)
	}
	for _, tank := range hitOrder {
		if err := m.eliminate(tank); err != nil {
			return err
		}
	}
	return nil
}

// eliminate removes a tank and its turret in one step.
func (m *Match) eliminate(tank ecs.Entity) error {
	turret, err := m.TurretOf(tank)
	if err != nil {
		return err
	}
	tr, _, info, _ := m.tankMapper.Get(tank)
	pos, player, team := tr.Pos, info.Player, info.Team

	m.index.Remove(tank)
	m.world.RemoveEntity(turret)
	m.world.RemoveEntity(tank)

	m.tracker.RecordEliminated(player, m.tick)
	m.emit(telemetry.NewEliminatedEvent(m.tick, player, int(team), pos.X, pos.Y))
	m.logger.Info("tank eliminated", "tick", m.tick, "player", player, "team", team)
	return nil
}

// checkEnd finishes the match once a team has no tanks left. A team without
// tanks loses; if both teams are gone, both lose.
func (m *Match) checkEnd() {
	var counts [Players]int
	for _, e := range m.tanks() {
		counts[m.tankMap.Get(e).Team]++
	}
	if counts[0] > 0 && counts[1] > 0 {
		return
	}

	m.over = true
	for _, p := range m.players {
		outcome := control.Win
		if counts[p.team] == 0 {
			outcome = control.Loss
		}
		p.outcome = &outcome
		p.ctrl.Finish(outcome)
		m.emit(telemetry.NewMatchEndEvent(m.tick, p.index, int(p.team), outcome.String()))
		m.logger.Info("match over", "tick", m.tick, "player", p.index, "outcome", outcome.String())
	}
}

// flushTelemetry writes a stats row at the end of every window and checks it for bookmarks.
func (m *Match) flushTelemetry() {
	if !m.collector.ShouldFlush(m.tick) && !m.over {
		return
	}
	stats := m.collector.Flush(m.tick, [2]int{m.TankCount(0), m.TankCount(1)}, m.BulletCount())
	stats.LogStats(m.logger)
	if err := m.output.WriteStats(stats); err != nil {
		m.logger.Warn("writing stats", "error", err)
	}
	if m.perf != nil {
		perf := m.perf.Stats()
		perf.LogStats(m.logger)
		if err := m.output.WritePerf(perf, m.tick); err != nil {
			m.logger.Warn("writing perf", "error", err)
		}
	}

	for _, bm := range m.bookmarks.Check(stats) {
		bm.LogBookmark(m.logger)
		m.marks = append(m.marks, bm)
		if m.output == nil || !m.cfg.Telemetry.SnapshotOnBookmark {
			continue
		}
		snap := m.Snapshot()
		snap.Bookmark = &bm
		if _, err := telemetry.SaveSnapshot(snap, m.output.Dir()); err != nil {
			m.logger.Warn("saving snapshot", "error", err)
		}
	}
}
