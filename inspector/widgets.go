package inspector

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
)

// Widget geometry in logical pixels.
const (
	rowHeight   = 18
	valueColumn = 80
	barWidth    = 120
	barHeight   = 10
	dialSize    = 28
)

// Widget colors
var (
	ColorBarFill = color.RGBA{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = color.RGBA{R: 180, G: 80, B: 80, A: 255}
	ColorBoolOn  = color.RGBA{R: 100, G: 200, B: 100, A: 255}
	ColorNeedle  = color.RGBA{R: 217, G: 79, B: 43, A: 255}
)

// drawLabel renders "name: value" and returns the row height.
func (p *Panel) drawLabel(s renderer.Surface, at geom.Vec2, name string, value any, options map[string]string) float64 {
	text := fmt.Sprintf("%s: %s", name, FormatValue(value, options["fmt"]))
	s.DrawText(text, at, p.FontSize, p.Ink)
	return rowHeight
}

// drawBar renders a horizontal bar over [min, max].
func (p *Panel) drawBar(s renderer.Surface, at geom.Vec2, name string, value float64, options map[string]string) float64 {
	lo, hi := GetMin(options), GetMax(options)
	ratio := 0.0
	if hi > lo {
		ratio = geom.Clamp((value-lo)/(hi-lo), 0, 1)
	}

	s.DrawText(name, at, p.FontSize, renderer.WithAlpha(p.Ink, 0.6))

	bg := geom.Rect{X: at.X + valueColumn, Y: at.Y + 2, W: barWidth, H: barHeight}
	s.FillPill(bg, renderer.WithAlpha(p.Ink, 0.15))
	if ratio > 0 {
		fill := bg
		fill.W = bg.W * ratio
		s.FillPill(fill, lerpColor(ColorBarLow, ColorBarFill, ratio))
	}

	s.DrawText(fmt.Sprintf("%.2f", value), geom.Vec2{X: bg.X + bg.W + 5, Y: at.Y}, p.FontSize, renderer.WithAlpha(p.Ink, 0.6))
	return rowHeight
}

// drawAngle renders a compass dial with the angle in degrees.
func (p *Panel) drawAngle(s renderer.Surface, at geom.Vec2, name string, radians float64) float64 {
	r := float64(dialSize) / 2
	c := geom.Vec2{X: at.X + valueColumn + r, Y: at.Y + r}

	s.DrawText(name, geom.Vec2{X: at.X, Y: c.Y - p.FontSize/2}, p.FontSize, renderer.WithAlpha(p.Ink, 0.6))
	s.FillCircle(c, r, renderer.WithAlpha(p.Ink, 0.12))

	tip := geom.Vec2{X: c.X + (r-3)*math.Cos(radians), Y: c.Y - (r-3)*math.Sin(radians)}
	s.StrokeLine(c, tip, 2, ColorNeedle)

	deg := geom.WrapAngle(radians) * 180 / math.Pi
	s.DrawText(fmt.Sprintf("%.0f deg", deg), geom.Vec2{X: c.X + r + 5, Y: c.Y - p.FontSize/2}, p.FontSize, renderer.WithAlpha(p.Ink, 0.6))
	return dialSize + 4
}

// drawBool renders an on/off indicator.
func (p *Panel) drawBool(s renderer.Surface, at geom.Vec2, name string, value bool) float64 {
	s.DrawText(name, at, p.FontSize, renderer.WithAlpha(p.Ink, 0.6))

	c := geom.Vec2{X: at.X + valueColumn + 6, Y: at.Y + 6}
	col, text := renderer.WithAlpha(p.Ink, 0.25), "OFF"
	if value {
		col, text = ColorBoolOn, "ON"
	}
	s.FillCircle(c, 6, col)
	s.DrawText(text, geom.Vec2{X: c.X + 12, Y: at.Y}, p.FontSize, col)
	return rowHeight
}

// drawField renders a field using its widget type and returns its height.
func (p *Panel) drawField(s renderer.Surface, at geom.Vec2, f Field) float64 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(f.Value); ok {
			return p.drawBar(s, at, f.Name, v, f.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(f.Value); ok {
			return p.drawAngle(s, at, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return p.drawBool(s, at, f.Name, v)
		}
	}
	return p.drawLabel(s, at, f.Name, f.Value, f.Options)
}

// fieldHeight mirrors drawField without drawing.
func fieldHeight(f Field) float64 {
	if f.Widget == WidgetAngle {
		if _, ok := GetFloatValue(f.Value); ok {
			return dialSize + 4
		}
	}
	return rowHeight
}

// lerpColor interpolates between two opaque colors.
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(geom.Lerp(float64(a.R), float64(b.R), t)),
		G: uint8(geom.Lerp(float64(a.G), float64(b.G), t)),
		B: uint8(geom.Lerp(float64(a.B), float64(b.B), t)),
		A: 255,
	}
}
