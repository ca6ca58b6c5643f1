package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm-cable/tankarena/agent"
	"github.com/pthm-cable/tankarena/arena"
	"github.com/pthm-cable/tankarena/bot"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/game"
	"github.com/pthm-cable/tankarena/input"
	"github.com/pthm-cable/tankarena/systems"
)

type playerKind int

const (
	kindIdle playerKind = iota
	kindKeyboard
	kindAgent
	kindBot
)

// playerSpec is a parsed -p1/-p2 value.
type playerSpec struct {
	kind   playerKind
	layout string // keyboard layout name
	addr   string // agent address
}

func parsePlayer(s string) (playerSpec, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "idle":
		return playerSpec{kind: kindIdle}, nil
	case "bot":
		return playerSpec{kind: kindBot}, nil
	case input.WASD.Name, input.Arrows.Name:
		return playerSpec{kind: kindKeyboard, layout: s}, nil
	}
	if strings.Contains(s, ":") {
		return playerSpec{kind: kindAgent, addr: s}, nil
	}
	return playerSpec{}, fmt.Errorf("unknown player %q: want wasd, arrow, bot, idle or host:port", s)
}

func (p playerSpec) label() string {
	switch p.kind {
	case kindKeyboard:
		return p.layout
	case kindAgent:
		return p.addr
	case kindBot:
		return "bot"
	default:
		return "idle"
	}
}

// buildControllers creates one controller per player. Agent clients are
// registered but not started.
func buildControllers(ctx context.Context, cfg *config.Config, m *arena.Map, specs [game.Players]playerSpec, gameID string, headless bool, logger *slog.Logger) ([game.Players]control.Controller, []*agent.Client, error) {
	var ctrls [game.Players]control.Controller
	var clients []*agent.Client

	closeAll := func() {
		for _, c := range clients {
			c.Close()
		}
	}

	for i, spec := range specs {
		switch spec.kind {
		case kindIdle:
			ctrls[i] = control.Idle{}

		case kindBot:
			opts := bot.DefaultOptions(m, cfg.Arena.CellSize, systems.NewSensor(cfg.Vision.Turret))
			opts.Logger = logger.With("player", i)
			ctrls[i] = bot.NewHunter(opts)

		case kindKeyboard:
			if headless {
				closeAll()
				return ctrls, nil, errors.New("keyboard players need a window; use idle or an agent address with -headless")
			}
			layout, err := input.LayoutByName(spec.layout)
			if err != nil {
				closeAll()
				return ctrls, nil, err
			}
			ctrls[i] = input.NewKeyboard(layout)

		case kindAgent:
			opts := agent.OptionsFromConfig(cfg, spec.addr, gameID)
			opts.Logger = logger.With("player", i)
			client, err := agent.Dial(ctx, opts)
			if err != nil {
				closeAll()
				return ctrls, nil, fmt.Errorf("player %d: %w", i+1, err)
			}
			clients = append(clients, client)
			ctrls[i] = client
		}
	}
	return ctrls, clients, nil
}
