package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/tankarena/agent"
	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/events"
	"github.com/pthm-cable/tankarena/game"
	"github.com/pthm-cable/tankarena/telemetry"
	"github.com/pthm-cable/tankarena/viewer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("arena failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	p1 := flag.String("p1", "wasd", "Player 1: wasd, arrow, bot, idle or host:port of a decision service")
	p2 := flag.String("p2", "arrow", "Player 2: wasd, arrow, bot, idle or host:port of a decision service")
	mapPath := flag.String("map", "", "Map YAML path (empty = config, then embedded map)")
	dt := flag.Float64("dt", 0, "Seconds per tick (0 = frame time with a window, config dt headless)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	natsURL := flag.String("nats", "", "NATS server URL for match events (empty = config)")
	gameID := flag.String("game-id", "", "Match id (empty = random uuid)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	id := *gameID
	if id == "" {
		id = uuid.NewString()
	}

	if *mapPath == "" {
		*mapPath = cfg.Arena.Map
	}
	m, err := arena.Load(*mapPath)
	if err != nil {
		return err
	}

	var specs [game.Players]playerSpec
	for i, s := range []string{*p1, *p2} {
		if specs[i], err = parsePlayer(s); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := telemetry.NewOutputManager(*outputDir, logger)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	url := *natsURL
	if url == "" {
		url = cfg.Events.NatsURL
	}
	publisher, err := events.Connect(url, cfg.Events.SubjectPrefix, id, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	var sinks []telemetry.Sink
	if publisher != nil {
		sinks = append(sinks, publisher)
	}

	ctrls, clients, err := buildControllers(ctx, cfg, m, specs, id, *headless, logger)
	if err != nil {
		return err
	}
	defer closeAgents(clients)

	perf := telemetry.NewPerfCollector(cfg.Derived.StatsTicks)
	match, err := game.NewMatch(game.Options{
		Config:      cfg,
		Map:         m,
		Controllers: ctrls,
		GameID:      id,
		Seed:        rngSeed,
		Labels:      [game.Players]string{specs[0].label(), specs[1].label()},
		Logger:      logger,
		Output:      output,
		Perf:        perf,
		Sinks:       sinks,
	})
	if err != nil {
		return err
	}
	defer match.Close()

	for _, c := range clients {
		c.Start(ctx)
	}

	logger.Info("starting match",
		"game_id", id,
		"seed", rngSeed,
		"p1", specs[0].label(),
		"p2", specs[1].label(),
		"headless", *headless,
		"max_ticks", *maxTicks,
	)

	if *headless {
		tickDT := *dt
		if tickDT <= 0 {
			tickDT = cfg.Physics.DT
		}
		err = runHeadless(ctx, match, tickDT, *maxTicks, cfg.Physics.Realtime, logger)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tank Arena")
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		v := viewer.New(viewer.Options{
			Match:    match,
			Config:   cfg,
			GameID:   id,
			Labels:   [game.Players]string{specs[0].label(), specs[1].label()},
			DT:       *dt,
			MaxTicks: *maxTicks,
			Seed:     rngSeed,
			Perf:     perf,
			Logger:   logger,
		})
		err = v.Run()
		rl.CloseWindow()
	}
	if err != nil {
		return err
	}

	if output != nil {
		path, err := telemetry.SaveSnapshot(match.Snapshot(), output.Dir())
		if err != nil {
			return err
		}
		logger.Info("final snapshot saved", "path", path)
	}

	if match.Over() {
		waitAgents(clients, cfg.Derived.AgentTimeout)
	}
	return nil
}

// runHeadless ticks the match until it ends, the tick limit is reached or ctx is cancelled.
func runHeadless(ctx context.Context, match *game.Match, dt float64, maxTicks int, realtime bool, logger *slog.Logger) error {
	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	for !match.Over() {
		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				logger.Info("interrupted", "tick", match.TickCount())
				return nil
			}
		} else if ctx.Err() != nil {
			logger.Info("interrupted", "tick", match.TickCount())
			return nil
		}

		if err := match.Tick(dt); err != nil {
			if errors.Is(err, game.ErrMatchOver) {
				break
			}
			return fmt.Errorf("tick %d: %w", match.TickCount(), err)
		}
		if maxTicks > 0 && match.TickCount() >= maxTicks {
			logger.Info("max ticks reached", "tick", match.TickCount())
			return nil
		}
	}

	for i := 0; i < game.Players; i++ {
		if o, ok := match.Outcome(i); ok {
			logger.Info("result", "player", i+1, "outcome", o.String())
		}
	}
	return nil
}

// waitAgents gives each agent loop time to report the outcome.
func waitAgents(clients []*agent.Client, timeout time.Duration) {
	deadline := time.After(timeout)
	for _, c := range clients {
		select {
		case <-c.Done():
		case <-deadline:
			return
		}
	}
}

func closeAgents(clients []*agent.Client) {
	for _, c := range clients {
		c.Close()
	}
}
