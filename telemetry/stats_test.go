package telemetry

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/tankarena/config"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(60, 1.0/60)

	if c.ShouldFlush(59) {
		t.Error("window should not be complete at tick 59")
	}
	if !c.ShouldFlush(60) {
		t.Error("window should be complete at tick 60")
	}

	c.RecordShot(true)
	c.RecordShot(true)
	c.RecordShot(false)
	c.RecordTankHit()
	c.RecordWallHit()
	c.RecordMoveClamped()
	c.RecordRotationDenied()
	c.RecordInstruction()
	c.RecordBulletExpired()

	stats := c.Flush(60, [2]int{1, 0}, 1)
	if stats.Shots != 2 || stats.ShotsRefused != 1 {
		t.Errorf("shots = %d refused = %d", stats.Shots, stats.ShotsRefused)
	}
	if math.Abs(stats.Accuracy-0.5) > 1e-9 {
		t.Errorf("accuracy = %f, want 0.5", stats.Accuracy)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-9 {
		t.Errorf("sim time = %f, want 1", stats.SimTimeSec)
	}
	if stats.Team0Tanks != 1 || stats.Team1Tanks != 0 || stats.Bullets != 1 {
		t.Errorf("scene counts = %+v", stats)
	}
	if stats.WallHits != 1 || stats.MovesClamped != 1 || stats.RotationsDenied != 1 || stats.BulletsExpired != 1 {
		t.Errorf("activity counts = %+v", stats)
	}

	// Counters reset, window restarts at the flush tick.
	next := c.Flush(120, [2]int{1, 0}, 0)
	if next.Shots != 0 || next.TankHits != 0 || next.WindowStartTick != 60 {
		t.Errorf("second window = %+v", next)
	}
	if c.ShouldFlush(150) {
		t.Error("new window should not be complete yet")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 0.1)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window ticks = %d, want 1", c.WindowDurationTicks())
	}
}

func TestWindowStatsLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	WindowStats{WindowEndTick: 60, Shots: 3}.LogStats(logger)

	out := buf.String()
	if !strings.Contains(out, `"msg":"stats"`) || !strings.Contains(out, `"shots":3`) {
		t.Errorf("log line = %s", out)
	}
}

func TestOutputManager(t *testing.T) {
	config.MustInit("")
	dir := filepath.Join(t.TempDir(), "run")

	om, err := NewOutputManager(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := 60; tick <= 180; tick += 60 {
		if err := om.WriteStats(WindowStats{WindowEndTick: tick}); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	om.Emit(NewShotEvent(3, 0, 0, 64, 64))
	om.Emit(NewMatchEndEvent(90, 1, 1, "loss"))
	if err := om.WritePerf(PerfStats{}, 60); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "stats.csv"))
	if len(rows) != 4 {
		t.Fatalf("stats.csv has %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "window_end" {
		t.Errorf("stats header = %v", rows[0])
	}
	for _, r := range rows[1:] {
		if r[0] == "window_end" {
			t.Error("header repeated")
		}
	}

	events := readCSV(t, filepath.Join(dir, "events.csv"))
	if len(events) != 3 || events[1][0] != "shot" || events[2][0] != "match_end" {
		t.Errorf("events.csv = %v", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("", nil)
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v %v", om, err)
	}
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvent(Event{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}
