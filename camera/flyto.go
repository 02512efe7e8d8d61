package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/orbits/geom"
)

// reach caps the target height at this share of what the pitch can reach.
const reach = 0.9

// CenteringTarget returns the rotation that brings p to zero lateral offset
// on the near side, with its height placed at lift*radius.
//
// Yaw solves x' = 0. Pitch then solves A cos t - B sin t = C with A = p.Y,
// B the horizontal distance and C the desired height, clamped to 90% of
// sqrt(A^2+B^2). Points at the origin have no such rotation.
func CenteringTarget(p r3.Vec, lift, radius float64) (geom.Rotation, bool) {
	if !geom.Finite(p) {
		return geom.Rotation{}, false
	}
	yaw := math.Atan2(p.X, p.Z)
	b := math.Hypot(p.X, p.Z)
	a := p.Y
	r := math.Hypot(a, b)
	if r < 1e-12 {
		return geom.Rotation{}, false
	}
	c := geom.Clamp(lift*radius, -reach*r, reach*r)
	pitch := math.Atan2(a, b) - math.Atan2(c, math.Sqrt(r*r-c*c))
	return geom.Rotation{Pitch: pitch, Yaw: yaw}, true
}
