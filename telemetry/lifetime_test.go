package telemetry

import "testing"

func TestPlayerTracker(t *testing.T) {
	pt := NewPlayerTracker(2)

	pt.RecordShot(0, true)
	pt.RecordShot(0, true)
	pt.RecordShot(0, false)
	pt.RecordTankHit(0)
	pt.RecordWallHit(0)
	pt.RecordMove(1, 10, false)
	pt.RecordMove(1, 2.5, true)
	pt.RecordRotationDenied(1)

	pt.UpdateSurvivalTime(1)
	pt.RecordEliminated(1, 60)
	pt.RecordEliminated(1, 90) // first elimination wins
	pt.UpdateSurvivalTime(1)

	p0, p1 := pt.Get(0), pt.Get(1)
	if p0.ShotsFired != 2 || p0.ShotsRefused != 1 {
		t.Errorf("shots = %d/%d, want 2/1", p0.ShotsFired, p0.ShotsRefused)
	}
	if got := p0.Accuracy(); got != 0.5 {
		t.Errorf("accuracy = %f, want 0.5", got)
	}
	if p1.Distance != 12.5 || p1.MovesClamped != 1 || p1.RotationsDenied != 1 {
		t.Errorf("player 1 movement = %+v", *p1)
	}
	if p1.EliminatedTick != 60 {
		t.Errorf("eliminated tick = %d, want 60", p1.EliminatedTick)
	}
	if p0.SurvivalTimeSec != 2 || p1.SurvivalTimeSec != 1 {
		t.Errorf("survival = %f/%f, want 2/1", p0.SurvivalTimeSec, p1.SurvivalTimeSec)
	}
}

func TestPlayerTrackerUnknownPlayer(t *testing.T) {
	pt := NewPlayerTracker(2)
	if pt.Get(2) != nil || pt.Get(-1) != nil {
		t.Error("out-of-range players should return nil")
	}
	pt.RecordShot(5, true) // must not panic
	if (PlayerStats{}).Accuracy() != 0 {
		t.Error("accuracy without shots should be 0")
	}
}
