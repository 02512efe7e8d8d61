package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Golden is the golden ratio.
var Golden = (1 + math.Sqrt(5)) / 2

// phaseStep is the per-index phase increment as a fraction of a full turn.
const phaseStep = 0.618

// Orbit describes one elliptical path. Angles are radians.
type Orbit struct {
	Radius   float64
	Tilt     float64 // about the x axis, applied before Rotation
	Rotation float64 // about the vertical axis
}

// OrbitMotion holds the parameters shared by every orbit.
type OrbitMotion struct {
	Ellipse    float64 // z flattening of the base ellipse
	BaseSpeed  float64 // radians per unit of simulation time
	RadiusGain float64 // outer orbits move faster by 1 + gain*radius
}

// DefaultMotion returns the stock orbital motion.
func DefaultMotion() OrbitMotion {
	return OrbitMotion{Ellipse: 0.85, BaseSpeed: 0.0003, RadiusGain: 0.5}
}

// AngularSpeed returns the angular speed of an orbit with the given radius.
func (m OrbitMotion) AngularSpeed(radius float64) float64 {
	return m.BaseSpeed * (1 + m.RadiusGain*radius)
}

// OrbitPosition returns the point at phase advanced by time t along o.
// The base ellipse lies in the x/z plane; it is tilted about x and then
// turned about the vertical axis by the orbit's rotation offset.
func OrbitPosition(phase float64, o Orbit, m OrbitMotion, t float64) r3.Vec {
	angle := phase + t*m.AngularSpeed(o.Radius)

	x := math.Cos(angle) * o.Radius
	z := math.Sin(angle) * o.Radius * m.Ellipse

	ct, st := math.Cos(o.Tilt), math.Sin(o.Tilt)
	y := -z * st
	z = z * ct

	cr, sr := math.Cos(o.Rotation), math.Sin(o.Rotation)
	return r3.Vec{
		X: x*cr - z*sr,
		Y: y,
		Z: x*sr + z*cr,
	}
}

// GoldenPhase is the orbital phase of the i-th entity.
func GoldenPhase(i int) float64 {
	return math.Mod(float64(i)*phaseStep*2*math.Pi, 2*math.Pi)
}

// GoldenSpiral returns the azimuth and polar angle of point i of n on a
// Fibonacci sphere.
func GoldenSpiral(i, n int) (theta, phi float64) {
	theta = 2 * math.Pi * float64(i) / Golden
	phi = math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
	return theta, phi
}
