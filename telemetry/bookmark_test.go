package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstBlood(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{WindowEndTick: 60, Shots: 1}); hasBookmark(bms, BookmarkFirstBlood) {
		t.Error("no hit yet, no first blood")
	}
	if bms := bd.Check(WindowStats{WindowEndTick: 120, Shots: 1, TankHits: 1}); !hasBookmark(bms, BookmarkFirstBlood) {
		t.Error("expected first_blood bookmark")
	}
	if bms := bd.Check(WindowStats{WindowEndTick: 180, Shots: 1, TankHits: 1}); hasBookmark(bms, BookmarkFirstBlood) {
		t.Error("first_blood should trigger once")
	}
}

func TestBookmarkDetector_Firefight(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 60, Shots: 1, Team0Tanks: 1, Team1Tanks: 1})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 360, Shots: 4, Team0Tanks: 1, Team1Tanks: 1})
	if !hasBookmark(bms, BookmarkFirefight) {
		t.Error("expected firefight bookmark")
	}
}

func TestBookmarkDetector_FirefightNeedsHistory(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if bms := bd.Check(WindowStats{Shots: 10}); hasBookmark(bms, BookmarkFirefight) {
		t.Error("firefight needs a rolling average")
	}
}

func TestBookmarkDetector_Stalemate(t *testing.T) {
	bd := NewBookmarkDetector(10)
	quiet := WindowStats{Team0Tanks: 1, Team1Tanks: 1}

	var triggered int
	for i := 0; i < 2*stalemateWindows; i++ {
		quiet.WindowEndTick = i * 60
		if hasBookmark(bd.Check(quiet), BookmarkStalemate) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("stalemate triggered %d times in one streak, want 1", triggered)
	}

	// A shot resets the streak.
	bd.Check(WindowStats{Shots: 1, Team0Tanks: 1, Team1Tanks: 1})
	for i := 0; i < stalemateWindows; i++ {
		if hasBookmark(bd.Check(quiet), BookmarkStalemate) {
			triggered++
		}
	}
	if triggered != 2 {
		t.Errorf("stalemate after reset: triggered %d, want 2", triggered)
	}
}
