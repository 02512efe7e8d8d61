package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/telemetry"
)

// HUDData holds all the data needed to render the status HUD.
type HUDData struct {
	Title    string
	Mode     string
	Worlds   int
	Selected string
	Frame    uint64
	FPS      int32
	Zoom     float64
	Speed    float64
}

// HUD renders the status heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD(t Theme) *HUD {
	return &HUD{renderer: NewRenderer(t)}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	t := &h.renderer.Theme
	x, y := t.Padding, t.Padding

	rl.DrawText(data.Title, x, y, 20, t.ValueColor)
	y += 26

	rl.DrawText(
		fmt.Sprintf("%s | %d worlds | size %.2f | speed %.2f", data.Mode, data.Worlds, data.Zoom, data.Speed),
		x, y, t.FontSize-2, t.LabelColor,
	)
	y += t.LineHeight

	rl.DrawText(fmt.Sprintf("Frame: %d | FPS: %d", data.Frame, data.FPS), x, y, t.FontSize-2, t.LabelColor)
	y += t.LineHeight

	if data.Selected != "" {
		rl.DrawText(data.Selected, x, y, t.FontSize-2, t.Accent)
	}
}

// DrawControls renders the key legend at the bottom-right of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	t := &h.renderer.Theme
	w := rl.MeasureText(controls, t.FontSize-2)
	rl.DrawText(controls, screenWidth-w-t.Padding, screenHeight-t.FontSize-t.Padding, t.FontSize-2, t.LabelColor)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(t Theme, x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(t), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	t := &p.renderer.Theme
	x, y := p.x, p.y

	rl.DrawText("Frame Performance", x, y, t.FontSize, t.ValueColor)
	y += t.LineHeight + 2

	rl.DrawText(fmt.Sprintf("avg %s  p95 %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)),
		x, y, t.FontSize-2, t.Accent)
	y += t.LineHeight

	for _, name := range phases {
		pct := stats.PhasePct[name]
		c := t.LabelColor
		if pct > 50 {
			c = t.Accent
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, t.FontSize-2, c,
		)
		y += t.LineHeight - 2
	}
}
