// Package agent is the client side of the remote decision protocol: it
// registers a match with a decision service, then polls it for actions while
// the match runs and reports the result when it ends.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
)

// ErrRegistration is returned when the decision service refuses or cannot
// be reached for /start_game.
var ErrRegistration = errors.New("agent registration failed")

// Options configures a Client.
type Options struct {
	Addr           string // host:port or base URL of the decision service
	GameID         string
	CallbackServer string
	CallbackPort   string
	Timeout        time.Duration // per request
	PollInterval   time.Duration // pause between /brain requests
	Buffer         int           // outbound instruction capacity
	HullRays       int
	TurretRays     int
	Logger         *slog.Logger
}

// OptionsFromConfig fills Options from the loaded config.
func OptionsFromConfig(cfg *config.Config, addr, gameID string) Options {
	return Options{
		Addr:           addr,
		GameID:         gameID,
		CallbackServer: cfg.Agent.CallbackServer,
		CallbackPort:   cfg.Agent.CallbackPort,
		Timeout:        cfg.Derived.AgentTimeout,
		PollInterval:   cfg.Derived.PollInterval,
		Buffer:         cfg.Agent.InstructionBuffer,
		HullRays:       cfg.Vision.Hull.Rays,
		TurretRays:     cfg.Vision.Turret.Rays,
	}
}

// Client polls a decision service on behalf of one player.
// It implements control.Controller.
type Client struct {
	opts       Options
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	observations chan control.Observation
	instructions chan control.Instruction

	mu       sync.Mutex
	finished bool
	outcome  control.Outcome

	cancel    context.CancelFunc
	startOnce sync.Once
	done      chan struct{}
}

// Dial registers a match with the decision service. No client is returned
// if registration fails.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		opts:         opts,
		baseURL:      baseURL(opts.Addr),
		httpClient:   &http.Client{Timeout: opts.Timeout},
		logger:       logger.With("component", "agent", "addr", opts.Addr, "game_id", opts.GameID),
		observations: make(chan control.Observation, 1),
		instructions: make(chan control.Instruction, opts.Buffer),
		done:         make(chan struct{}),
	}

	req := StartRequest{GameID: opts.GameID, Server: opts.CallbackServer, Port: opts.CallbackPort}
	resp, err := c.post(ctx, "/start_game", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	resp.Body.Close()

	c.logger.Info("agent registered")
	return c, nil
}

func baseURL(addr string) string {
	addr = strings.TrimRight(addr, "/")
	if strings.Contains(addr, "://") {
		return addr
	}
	return "http://" + addr
}

// Start launches the polling loop. It stops when the outcome has been
// reported, when ctx ends, or on Close.
func (c *Client) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		ctx, c.cancel = context.WithCancel(ctx)
		go c.run(ctx)
	})
}

// Observe replaces the pending observation. It never blocks.
func (c *Client) Observe(o control.Observation) {
	select {
	case <-c.observations:
	default:
	}
	select {
	case c.observations <- o:
	default:
	}
}

// Poll returns every instruction received so far, oldest first.
func (c *Client) Poll() []control.Instruction {
	var out []control.Instruction
	for {
		select {
		case inst := <-c.instructions:
			out = append(out, inst)
		default:
			return out
		}
	}
}

// Finish records the outcome and asks the loop to report it and stop.
// Later calls are ignored.
func (c *Client) Finish(o control.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.finished = true
	c.outcome = o
}

// Terminate is an alias for Finish.
func (c *Client) Terminate(o control.Outcome) {
	c.Finish(o)
}

func (c *Client) result() (control.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.finished
}

// Done is closed once the loop has exited.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close stops the loop without reporting an outcome.
func (c *Client) Close() {
	c.startOnce.Do(func() {
		close(c.done)
	})
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)

	snap := EmptySnapshot(c.opts.GameID, c.opts.TurretRays, c.opts.HullRays)
	for {
		select {
		case o := <-c.observations:
			snap = NewSnapshot(c.opts.GameID, o)
		default:
		}

		if inst, ok := c.think(ctx, snap); ok {
			select {
			case c.instructions <- inst:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-time.After(c.opts.PollInterval):
		case <-ctx.Done():
			return
		}

		if outcome, ok := c.result(); ok {
			c.report(ctx, outcome)
			return
		}
	}
}

// think asks the service for one action. Failed cycles are skipped.
func (c *Client) think(ctx context.Context, snap Snapshot) (control.Instruction, bool) {
	resp, err := c.post(ctx, "/brain", snap)
	if err != nil {
		c.logger.Debug("brain request failed", "error", err)
		return 0, false
	}
	defer resp.Body.Close()

	var action Action
	if err := json.NewDecoder(resp.Body).Decode(&action); err != nil {
		c.logger.Debug("brain response malformed", "error", err)
		return 0, false
	}
	inst, ok := control.ParseAction(action.Action)
	if !ok && action.Action != control.ActionWait {
		c.logger.Debug("unknown action", "action", action.Action)
	}
	return inst, ok
}

func (c *Client) report(ctx context.Context, outcome control.Outcome) {
	path := "/" + outcome.String()
	resp, err := c.post(ctx, path, EndRequest{GameID: c.opts.GameID})
	if err != nil {
		c.logger.Warn("outcome report failed", "outcome", outcome.String(), "error", err)
		return
	}
	resp.Body.Close()
	c.logger.Info("outcome reported", "outcome", outcome.String())
}

// post sends body as JSON and fails on transport errors and non-2xx replies.
func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return resp, nil
}
