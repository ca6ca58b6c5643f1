package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	r.DrawTeamPanel(x, y, width, height, r.Theme.PanelBorder)
}

// DrawTeamPanel draws a panel whose border and top strip use accent.
func (r *Renderer) DrawTeamPanel(x, y, width, height int32, accent rl.Color) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, accent)
	if accent != r.Theme.PanelBorder {
		rl.DrawRectangle(x, y, width, r.Theme.AccentHeight, accent)
	}
}

// DrawSectionHeader draws a header line and returns the next Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string, color rl.Color) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, color)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws "label: value" and returns the next Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawReloadBar draws gun readiness in [0, 1]. A full bar reads READY.
func (r *Renderer) DrawReloadBar(x, y int32, label string, ready float32, width int32) int32 {
	ready = min(max(ready, 0), 1)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	color, text := r.Theme.ReloadingFill, fmt.Sprintf("%3.0f%%", ready*100)
	if ready >= 1 {
		color, text = r.Theme.ReadyFill, "READY"
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ready), r.Theme.BarHeight, color)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}
