package geom

import "gonum.org/v1/gonum/spatial/r3"

// Vec2 is a screen-space point in logical pixels.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len2 returns the squared length of v.
func (v Vec2) Len2() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Project drops the depth axis and maps p to screen space around center.
// Screen y grows downward.
func Project(p r3.Vec, center Vec2, scale float64) Vec2 {
	return Vec2{
		X: center.X + p.X*scale,
		Y: center.Y - p.Y*scale,
	}
}

// DepthFraction remaps z in [-1, 1] to [0, 1], clamped.
func DepthFraction(z float64) float64 {
	d := (z + 1) / 2
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
