package camera

import (
	"math"

	"github.com/pthm-cable/orbits/geom"
)

// ScaleRule maps a viewport to the pixel length of one scene unit before
// zoom. A positive Uniform uses min(w, h)*Uniform; otherwise wide viewports
// scale from width and tall ones from height.
type ScaleRule struct {
	WideAspect float64
	WideScale  float64
	TallScale  float64
	Uniform    float64
}

// OrbitScale is the rule for the independent-orbits view.
func OrbitScale() ScaleRule {
	return ScaleRule{WideAspect: 1.2, WideScale: 0.82, TallScale: 0.75}
}

// SphereScale is the rule for the globe views.
func SphereScale() ScaleRule {
	return ScaleRule{Uniform: 0.42}
}

// Viewport is the drawing surface size in logical pixels plus the device
// pixel ratio of the backing store.
type Viewport struct {
	Width, Height float64
	DPR           float64
}

// NewViewport creates a viewport; a non-positive dpr means 1.
func NewViewport(w, h, dpr float64) Viewport {
	v := Viewport{}
	v.Resize(w, h, dpr)
	return v
}

// Resize updates the size and reports whether anything changed. It only
// touches size state; the next frame picks it up.
func (v *Viewport) Resize(w, h, dpr float64) bool {
	if dpr <= 0 || !finite(dpr) {
		dpr = 1
	}
	w = math.Max(0, w)
	h = math.Max(0, h)
	if w == v.Width && h == v.Height && dpr == v.DPR {
		return false
	}
	v.Width, v.Height, v.DPR = w, h, dpr
	return true
}

// Backing returns the backing store size in device pixels.
func (v Viewport) Backing() (w, h int) {
	return int(math.Ceil(v.Width * v.DPR)), int(math.Ceil(v.Height * v.DPR))
}

// Center returns the midpoint in logical pixels.
func (v Viewport) Center() geom.Vec2 {
	return geom.Vec2{X: v.Width / 2, Y: v.Height / 2}
}

// Empty reports whether there is nothing to draw into.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// BaseScale returns pixels per scene unit for the rule, times zoom.
func (v Viewport) BaseScale(rule ScaleRule, zoom float64) float64 {
	if v.Empty() {
		return 0
	}
	var base float64
	switch {
	case rule.Uniform > 0:
		base = math.Min(v.Width, v.Height) * rule.Uniform
	case v.Width/v.Height > rule.WideAspect:
		base = v.Width * rule.WideScale
	default:
		base = v.Height * rule.TallScale
	}
	return base * zoom
}
