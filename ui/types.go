// Package ui draws the raylib panels around a view: the world detail
// panel, the SIZE/SPEED controls, the status HUD and the key legend.
package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	Accent        rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FontSize      int32
	TitleFontSize int32
}

// RL converts a palette color.
func RL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// DefaultTheme derives the panel style from the view palette: panels are
// paper with ink text, headings are dimmed ink.
func DefaultTheme(ink, paper, accent color.RGBA) Theme {
	bg := RL(paper)
	bg.A = 245
	dim := RL(ink)
	dim.A = 140
	border := RL(ink)
	border.A = 60
	return Theme{
		PanelBg:       bg,
		PanelBorder:   border,
		SectionHeader: dim,
		LabelColor:    dim,
		ValueColor:    RL(ink),
		Accent:        RL(accent),
		Padding:       16,
		LineHeight:    18,
		LabelWidth:    60,
		FontSize:      14,
		TitleFontSize: 24,
	}
}
