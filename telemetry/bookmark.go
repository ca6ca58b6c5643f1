package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstBlood BookmarkType = "first_blood"
	BookmarkFirefight  BookmarkType = "firefight"
	BookmarkStalemate  BookmarkType = "stalemate"
)

// stalemateWindows is the number of consecutive quiet windows that make a stalemate.
const stalemateWindows = 5

// Bookmark marks a notable moment of the match.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        int          `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using the given logger, or the default one.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	sawHit       bool // a tank has been hit
	quietWindows int  // consecutive windows without a shot
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstBlood(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFirefight(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStalemate(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstBlood(stats WindowStats) *Bookmark {
	if bd.sawHit || stats.TankHits == 0 {
		return nil
	}
	bd.sawHit = true
	return &Bookmark{
		Type:        BookmarkFirstBlood,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("first tank hit after %.1fs", stats.SimTimeSec),
	}
}

// checkFirefight fires when shots in a window reach at least 3 and twice the rolling average.
func (bd *BookmarkDetector) checkFirefight(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 || stats.Shots < 3 {
		return nil
	}

	total := 0
	for _, h := range history {
		total += h.Shots
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.Shots) < 2*avg {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFirefight,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d shots vs %.1f average", stats.Shots, avg),
	}
}

// checkStalemate fires once per streak of quiet windows with both teams alive.
func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	if stats.Shots > 0 || stats.Team0Tanks == 0 || stats.Team1Tanks == 0 {
		bd.quietWindows = 0
		return nil
	}
	bd.quietWindows++
	if bd.quietWindows != stalemateWindows {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStalemate,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("no shots for %d windows", stalemateWindows),
	}
}
