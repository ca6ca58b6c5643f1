package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/tankarena/config"
)

// csvTable is an append-only CSV file whose header is written with the first row.
type csvTable struct {
	name          string
	file          *os.File
	headerWritten bool
}

func createTable(dir, name string) (*csvTable, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable{name: name, file: f}, nil
}

func (t *csvTable) write(records any) error {
	var err error
	if !t.headerWritten {
		err = gocsv.Marshal(records, t.file)
		t.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, t.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", t.name, err)
	}
	return nil
}

// OutputManager writes match output into a directory.
// A nil OutputManager discards everything.
type OutputManager struct {
	dir    string
	stats  *csvTable
	perf   *csvTable
	events *csvTable
	logger *slog.Logger
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, logger *slog.Logger) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, logger: logger}
	var err error
	if om.stats, err = createTable(dir, "stats.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = createTable(dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.events, err = createTable(dir, "events.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the configuration the match ran with as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a window stats row to stats.csv.
func (om *OutputManager) WriteStats(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.stats.write([]WindowStats{stats})
}

// WritePerf appends a timing row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteEvent appends an event row to events.csv.
func (om *OutputManager) WriteEvent(ev Event) error {
	if om == nil {
		return nil
	}
	return om.events.write([]Event{ev})
}

// Emit implements Sink. Write failures are logged.
func (om *OutputManager) Emit(ev Event) {
	if err := om.WriteEvent(ev); err != nil {
		om.logger.Error("failed to write event", "type", ev.Type, "error", err)
	}
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, t := range []*csvTable{om.stats, om.perf, om.events} {
		if t == nil {
			continue
		}
		if err := t.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
