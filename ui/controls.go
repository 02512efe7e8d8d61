package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Controls panel geometry
const (
	controlsWidth  = 240
	sliderHeight   = 16
	controlsMargin = 16
)

// ControlsPanel renders the SIZE and SPEED sliders in the bottom-left
// corner.
type ControlsPanel struct {
	r       *Renderer
	visible bool

	MinZoom, MaxZoom   float32
	MinSpeed, MaxSpeed float32
}

// NewControlsPanel creates a visible panel over the given ranges.
func NewControlsPanel(t Theme, minZoom, maxZoom, minSpeed, maxSpeed float64) *ControlsPanel {
	return &ControlsPanel{
		r:        NewRenderer(t),
		visible:  true,
		MinZoom:  float32(minZoom),
		MaxZoom:  float32(maxZoom),
		MinSpeed: float32(minSpeed),
		MaxSpeed: float32(maxSpeed),
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

func (c *ControlsPanel) height() int32 {
	t := &c.r.Theme
	return 2*t.Padding + 2*(t.LineHeight+sliderHeight) + t.Padding/2
}

// Bounds returns the panel rectangle for a screen height.
func (c *ControlsPanel) Bounds(sh int32) rl.Rectangle {
	h := c.height()
	return rl.Rectangle{X: controlsMargin, Y: float32(sh - h - controlsMargin), Width: controlsWidth, Height: float32(h)}
}

// Contains reports whether p is over the visible panel.
func (c *ControlsPanel) Contains(p rl.Vector2, sh int32) bool {
	return c.visible && rl.CheckCollisionPointRec(p, c.Bounds(sh))
}

// Draw renders the sliders and returns the possibly changed values.
func (c *ControlsPanel) Draw(sh int32, zoom, speed float64) (float64, float64) {
	if !c.visible {
		return zoom, speed
	}
	t := &c.r.Theme
	b := c.Bounds(sh)
	c.r.DrawPanel(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))

	x := b.X + float32(t.Padding)
	y := int32(b.Y) + t.Padding
	w := b.Width - 2*float32(t.Padding)

	y = c.r.DrawLabelValue(int32(x), y, "SIZE", fmt.Sprintf("%.2f", zoom))
	z := gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: sliderHeight}, "", "", float32(zoom), c.MinZoom, c.MaxZoom)
	y += sliderHeight + t.Padding/2

	y = c.r.DrawLabelValue(int32(x), y, "SPEED", fmt.Sprintf("%.2f", speed))
	s := gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: w, Height: sliderHeight}, "", "", float32(speed), c.MinSpeed, c.MaxSpeed)

	if z != float32(zoom) {
		zoom = float64(z)
	}
	if s != float32(speed) {
		speed = float64(s)
	}
	return zoom, speed
}
