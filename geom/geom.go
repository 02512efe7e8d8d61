// Package geom holds the pure rotation, placement and projection math shared
// by the scene, camera and renderer.
//
// All rotations compose yaw (x/z plane) first and pitch (y/z plane) second.
// Every caller must go through Rotate so orbit paths and markers agree.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a camera orientation in radians.
type Rotation struct {
	Pitch float64 // about the x axis
	Yaw   float64 // about the vertical axis
}

// Add returns r + o component-wise.
func (r Rotation) Add(o Rotation) Rotation {
	return Rotation{Pitch: r.Pitch + o.Pitch, Yaw: r.Yaw + o.Yaw}
}

// Sub returns r - o component-wise.
func (r Rotation) Sub(o Rotation) Rotation {
	return Rotation{Pitch: r.Pitch - o.Pitch, Yaw: r.Yaw - o.Yaw}
}

// Scale returns r with both axes multiplied by f.
func (r Rotation) Scale(f float64) Rotation {
	return Rotation{Pitch: r.Pitch * f, Yaw: r.Yaw * f}
}

// Rotate applies yaw then pitch to p.
func Rotate(p r3.Vec, rot Rotation) r3.Vec {
	cy, sy := math.Cos(rot.Yaw), math.Sin(rot.Yaw)
	x := p.X*cy - p.Z*sy
	z := p.X*sy + p.Z*cy

	cp, sp := math.Cos(rot.Pitch), math.Sin(rot.Pitch)
	y := p.Y*cp - z*sp
	z = p.Y*sp + z*cp

	return r3.Vec{X: x, Y: y, Z: z}
}

// InverseRotate undoes Rotate: pitch is removed first, then yaw.
func InverseRotate(p r3.Vec, rot Rotation) r3.Vec {
	cp, sp := math.Cos(rot.Pitch), math.Sin(rot.Pitch)
	y := p.Y*cp + p.Z*sp
	z := -p.Y*sp + p.Z*cp

	cy, sy := math.Cos(rot.Yaw), math.Sin(rot.Yaw)
	x := p.X*cy + z*sy
	z = -p.X*sy + z*cy

	return r3.Vec{X: x, Y: y, Z: z}
}

// Spherical converts an azimuth theta, polar angle phi and radius to a point.
// The polar axis is y.
func Spherical(theta, phi, r float64) r3.Vec {
	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: r * sinPhi * math.Cos(theta),
		Y: r * math.Cos(phi),
		Z: r * sinPhi * math.Sin(theta),
	}
}

// Finite reports whether every component of p is a finite number.
func Finite(p r3.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}

// WrapAngle maps a into (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Nearest returns the angle equivalent to target (mod 2pi) closest to from.
func Nearest(from, target float64) float64 {
	return from + WrapAngle(target-from)
}

// Deg converts degrees to radians.
func Deg(d float64) float64 {
	return d * math.Pi / 180
}
