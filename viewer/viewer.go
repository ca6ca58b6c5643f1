// Package viewer runs a match inside a raylib window: it ticks the match from
// the frame loop, draws it and handles camera and overlay input.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tankarena/camera"
	"github.com/pthm-cable/tankarena/config"
	"github.com/pthm-cable/tankarena/control"
	"github.com/pthm-cable/tankarena/game"
	"github.com/pthm-cable/tankarena/render"
	"github.com/pthm-cable/tankarena/systems"
	"github.com/pthm-cable/tankarena/telemetry"
	"github.com/pthm-cable/tankarena/ui"
)

// maxFrameDT caps the step taken from a slow frame.
const maxFrameDT = 0.1

// Options configures a viewer.
type Options struct {
	Match    *game.Match
	Config   *config.Config
	GameID   string
	Labels   [game.Players]string // controller description per player
	DT       float64              // fixed seconds per tick; 0 uses the frame time
	MaxTicks int                  // 0 = unlimited
	Seed     int64                // particle effects
	Perf     *telemetry.PerfCollector
	Logger   *slog.Logger
}

// Viewer is the windowed front end. The window must already be open.
type Viewer struct {
	opts   Options
	match  *game.Match
	logger *slog.Logger

	camera        *camera.Camera
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	controlsPanel *ui.ControlsPanel
	overlays      *ui.OverlayRegistry
	particles     *systems.ParticleSystem

	screenWidth, screenHeight float32
	stepsPerFrame             int
	paused                    bool
	showPerf                  bool
	quit                      bool
}

// New creates a viewer sized to the current window.
func New(opts Options) *Viewer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	b := opts.Match.Frame().Bounds

	v := &Viewer{
		opts:          opts,
		match:         opts.Match,
		logger:        logger,
		camera:        camera.New(w, h, float32(b.Min.X), float32(b.Min.Y), float32(b.Max.X), float32(b.Max.Y)),
		hud:           ui.NewHUD(),
		perfPanel:     ui.NewPerfPanel(10, 110),
		controlsPanel: ui.NewControlsPanel(10, 110, 200),
		overlays:      ui.NewOverlayRegistry(),
		particles:     systems.NewParticleSystem(opts.Seed),
		screenWidth:   w,
		screenHeight:  h,
		stepsPerFrame: 1,
	}
	opts.Match.AddSink(v)
	return v
}

// Emit implements telemetry.Sink by turning match events into particle effects.
func (v *Viewer) Emit(ev telemetry.Event) {
	x, y := float32(ev.X), float32(ev.Y)
	switch ev.Type {
	case telemetry.EventShot:
		v.particles.EmitMuzzle(x, y)
	case telemetry.EventWallHit, telemetry.EventTankHit:
		v.particles.EmitSpark(x, y)
	case telemetry.EventEliminated:
		v.particles.EmitExplosion(x, y)
	}
}

// Run loops until the window closes, the player quits after the match,
// the tick limit is reached, or a tick fails.
func (v *Viewer) Run() error {
	for !rl.WindowShouldClose() && !v.quit {
		if err := v.Update(); err != nil {
			return err
		}
		v.Draw()

		if v.opts.MaxTicks > 0 && v.match.TickCount() >= v.opts.MaxTicks {
			v.logger.Info("max ticks reached", "tick", v.match.TickCount())
			return nil
		}
	}
	return nil
}

// Update handles input and advances the match.
func (v *Viewer) Update() error {
	v.opts.Perf.RecordFrame()
	v.handleInput()
	v.particles.Update(float64(rl.GetFrameTime()))

	if v.paused || v.match.Over() {
		return nil
	}

	dt := v.opts.DT
	if dt <= 0 {
		dt = float64(rl.GetFrameTime())
		if dt > maxFrameDT {
			dt = maxFrameDT
		}
		if dt <= 0 {
			return nil
		}
	}

	for i := 0; i < v.stepsPerFrame && !v.match.Over(); i++ {
		if err := v.match.Tick(dt); err != nil {
			if errors.Is(err, game.ErrMatchOver) {
				return nil
			}
			return fmt.Errorf("tick %d: %w", v.match.TickCount(), err)
		}
	}
	return nil
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		v.controlsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		v.showPerf = !v.showPerf
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && v.stepsPerFrame > 1 {
		v.stepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.stepsPerFrame < 10 {
		v.stepsPerFrame++
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}

	v.handleCameraInput()
}

func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.camera.Resize(w, h)
}

func (v *Viewer) handleCameraInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// Draw renders the arena and the HUD.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	frame := v.match.Frame()
	render.Draw(frame, v.camera, v.overlays)
	render.DrawParticles(v.particles.Particles, v.camera)

	v.hud.Draw(ui.HUDData{
		Title:   "Tank Arena",
		GameID:  v.opts.GameID,
		Tick:    frame.Tick,
		SimTime: frame.SimTime,
		Speed:   v.stepsPerFrame,
		FPS:     rl.GetFPS(),
		Paused:  v.paused,
		Over:    frame.Over,
	})
	v.hud.DrawPlayers(v.playerStatus(frame), int32(v.screenWidth))
	v.stepsPerFrame = ui.SpeedSlider(v.screenWidth/2-80, 12, v.stepsPerFrame)

	if v.showPerf {
		v.perfPanel.Draw(v.opts.Perf.Stats())
	}
	v.controlsPanel.Draw(v.overlays)
	v.hud.DrawControls(int32(v.screenHeight),
		"[F1] overlays  [F2] pause  [F3] timing  [<>] speed  [wheel/right drag] camera  [Home] reset  [F11] fullscreen")

	if frame.Over {
		if v.hud.DrawEndBanner(v.resultText(), int32(v.screenWidth), int32(v.screenHeight)) == ui.EndBannerQuit {
			v.quit = true
		}
	}
}

func (v *Viewer) playerStatus(f game.Frame) []ui.PlayerStatus {
	reload := v.opts.Config.Turret.ReloadSeconds
	out := make([]ui.PlayerStatus, game.Players)
	for i := range out {
		out[i] = ui.PlayerStatus{Index: i, Team: uint8(i), Controller: v.opts.Labels[i]}
		for _, t := range f.Tanks {
			if t.Player != i {
				continue
			}
			out[i].Alive = true
			out[i].Reload = 1
			if t.Gun.Reloading && reload > 0 {
				out[i].Reload = float32(1 - t.Gun.Remaining/reload)
			}
		}
		if s, ok := v.match.Stats(i); ok {
			out[i].Shots, out[i].Hits = s.ShotsFired, s.TankHits
		}
		if o, ok := v.match.Outcome(i); ok {
			out[i].Outcome = o.String()
		}
	}
	return out
}

func (v *Viewer) resultText() string {
	for i := 0; i < game.Players; i++ {
		if o, ok := v.match.Outcome(i); ok && o == control.Win {
			return fmt.Sprintf("Player %d wins", i+1)
		}
	}
	return "No winner"
}
