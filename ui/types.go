// Package ui draws the heads-up display over the arena: match status,
// per-player panels, tick timing and overlay toggles.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	ReloadingFill  rl.Color
	ReadyFill      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	AccentHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		ReloadingFill:  rl.Color{R: 200, G: 160, B: 60, A: 255},
		ReadyFill:      rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		AccentHeight:   3,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// TeamColor returns the drawing color of a team.
func TeamColor(team uint8) rl.Color {
	if team == 0 {
		return rl.Color{R: 90, G: 160, B: 230, A: 255}
	}
	return rl.Color{R: 230, G: 110, B: 90, A: 255}
}
