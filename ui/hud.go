package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tankarena/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	GameID  string
	Tick    int
	SimTime float64
	Speed   int
	FPS     int32
	Paused  bool
	Over    bool
}

// PlayerStatus is one player's panel.
type PlayerStatus struct {
	Index      int
	Team       uint8
	Controller string // wasd, arrow, idle or the agent address
	Alive      bool
	Reload     float32 // 1 when the gun is ready
	Outcome    string  // empty until the match ends
	Shots      int
	Hits       int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the title and match status lines.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Game: %s", data.GameID),
		10, 35, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 53, 14, rl.LightGray,
	)

	statusText := "Running"
	switch {
	case data.Over:
		statusText = "MATCH OVER"
	case data.Paused:
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 71, 16, rl.Yellow)
}

// DrawPlayers renders one panel per player along the right edge.
func (h *HUD) DrawPlayers(players []PlayerStatus, screenWidth int32) {
	r := h.renderer
	width := int32(220)
	height := r.Theme.LineHeight*5 + r.Theme.Padding*2
	x := screenWidth - width - 10
	y := int32(10)

	for _, p := range players {
		r.DrawTeamPanel(x, y, width, height, TeamColor(p.Team))
		ly := y + r.Theme.Padding
		lx := x + r.Theme.Padding

		ly = r.DrawSectionHeader(lx, ly, fmt.Sprintf("Player %d", p.Index+1), TeamColor(p.Team))
		ly = r.DrawLabelValue(lx, ly, "Control", p.Controller)

		state := "alive"
		if !p.Alive {
			state = "destroyed"
		}
		if p.Outcome != "" {
			state = p.Outcome
		}
		ly = r.DrawLabelValue(lx, ly, "Status", state)
		ly = r.DrawLabelValue(lx, ly, "Hits", fmt.Sprintf("%d / %d shots", p.Hits, p.Shots))
		r.DrawReloadBar(lx, ly, "Gun", p.Reload, width-r.Theme.Padding*2)

		y += height + 6
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// EndBannerAction is what the player chose on the end-of-match banner.
type EndBannerAction int

const (
	EndBannerNone EndBannerAction = iota
	EndBannerQuit
)

// DrawEndBanner shows the result in the middle of the screen with a quit button.
func (h *HUD) DrawEndBanner(text string, screenWidth, screenHeight int32) EndBannerAction {
	width, height := float32(320), float32(110)
	x := float32(screenWidth)/2 - width/2
	y := float32(screenHeight)/2 - height/2

	h.renderer.DrawPanel(int32(x), int32(y), int32(width), int32(height))
	textWidth := rl.MeasureText(text, 24)
	rl.DrawText(text, int32(x+width/2)-textWidth/2, int32(y)+18, 24, rl.White)

	if gui.Button(rl.Rectangle{X: x + width/2 - 60, Y: y + height - 44, Width: 120, Height: 30}, "Quit") {
		return EndBannerQuit
	}
	return EndBannerNone
}

// SpeedSlider draws the simulation speed slider and returns the chosen steps per frame.
func SpeedSlider(x, y float32, steps int) int {
	value := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 160, Height: 18},
		"1x", "10x",
		float32(steps), 1, 10,
	)
	return int(value + 0.5)
}

// PerfPanel renders tick timing by phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
