// Package camera holds the rotation state of one view and its per-frame
// update: ambient auto-rotation, drag, momentum and eased fly-to.
package camera

import (
	"math"

	"github.com/pthm-cable/orbits/geom"
)

// Params tunes how the camera moves. Angles are radians per frame.
type Params struct {
	AutoYaw       float64 // ambient yaw per frame at speed 1
	AutoPitch     float64 // ambient pitch per frame at speed 1
	Decay         float64 // momentum multiplier per frame
	Sensitivity   float64 // radians per dragged pixel
	VelocityGain  float64 // momentum per dragged pixel
	VelocityBlend float64 // weight of previous velocity while dragging
	FlyEase       float64 // fraction of the remaining delta per frame
	FlyEpsilon    float64 // snap threshold per axis
	FlyLift       float64 // fly-to target height as a fraction of orbit radius
	MomentumRest  float64 // velocities below this are zeroed

	MinZoom, MaxZoom   float64
	MinSpeed, MaxSpeed float64
}

// OrbitParams returns the stock feel of the independent-orbits view.
func OrbitParams() Params {
	return Params{
		AutoYaw:       0.0015,
		Decay:         0.92,
		Sensitivity:   0.004,
		VelocityGain:  0.0015,
		VelocityBlend: 0.5,
		FlyEase:       0.08,
		FlyEpsilon:    0.0005,
		FlyLift:       0.3,
		MomentumRest:  1e-5,
		MinZoom:       0.3,
		MaxZoom:       1.2,
		MinSpeed:      0,
		MaxSpeed:      2,
	}
}

// SphereParams returns the stock feel of the globe views.
func SphereParams() Params {
	p := OrbitParams()
	p.AutoYaw = 0.004
	p.AutoPitch = 0.001
	p.Decay = 0.95
	p.Sensitivity = 0.005
	p.VelocityGain = 0.002
	p.VelocityBlend = 0
	p.FlyLift = 0
	return p
}

// TextParams derives the text-globe feel from p. The strips scroll on
// their own, so the camera has no ambient rotation and a released drag
// does not coast.
func TextParams(p Params) Params {
	p.AutoYaw = 0
	p.AutoPitch = 0
	p.VelocityGain = 0
	p.VelocityBlend = 0
	return p
}

// Phase names the mechanism that moved the camera during one Update.
type Phase uint8

const (
	PhaseIdle     Phase = iota // nothing moved (hovering at rest)
	PhaseDrag                  // rotation is driven by DragBy
	PhaseFlyTo                 // easing toward a target
	PhaseMomentum              // coasting after a flick
	PhaseAuto                  // ambient rotation
)

func (p Phase) String() string {
	switch p {
	case PhaseDrag:
		return "drag"
	case PhaseFlyTo:
		return "fly_to"
	case PhaseMomentum:
		return "momentum"
	case PhaseAuto:
		return "auto"
	default:
		return "idle"
	}
}

// Camera is the mutable view state. It is owned by one view and touched only
// from that view's event handlers and frame callback.
type Camera struct {
	Rotation geom.Rotation
	Velocity geom.Rotation // Pitch is fed by vertical drags, Yaw by horizontal

	Dragging bool
	Hovering bool

	Zoom  float64
	Speed float64

	// Time drives orbital motion independently of the camera.
	Time float64

	Params Params

	target    geom.Rotation
	hasTarget bool
	initial   float64
}

// New creates a camera tilted by initialPitch.
func New(p Params, initialPitch, zoom, speed float64) *Camera {
	c := &Camera{Params: p, initial: initialPitch}
	c.Reset()
	c.SetZoom(zoom)
	c.SetSpeed(speed)
	return c
}

// Reset returns rotation, motion and time to their mount-time values.
// Zoom and speed are left alone.
func (c *Camera) Reset() {
	c.Rotation = geom.Rotation{Pitch: c.initial}
	c.Velocity = geom.Rotation{}
	c.Dragging = false
	c.Hovering = false
	c.Time = 0
	c.hasTarget = false
}

// Target returns the fly-to target if one is in flight.
func (c *Camera) Target() (geom.Rotation, bool) {
	return c.target, c.hasTarget
}

// Flying reports whether a fly-to is in progress.
func (c *Camera) Flying() bool {
	return c.hasTarget
}

// FlyTo starts an eased transition to r. Each axis is unwrapped to the
// equivalent angle nearest the current rotation so the camera never spins
// through extra turns. Ignored while dragging.
func (c *Camera) FlyTo(r geom.Rotation) {
	if c.Dragging || !finite(r.Pitch) || !finite(r.Yaw) {
		return
	}
	c.target = geom.Rotation{
		Pitch: geom.Nearest(c.Rotation.Pitch, r.Pitch),
		Yaw:   geom.Nearest(c.Rotation.Yaw, r.Yaw),
	}
	c.hasTarget = true
	c.Velocity = geom.Rotation{}
}

// CancelFlyTo drops any in-flight target.
func (c *Camera) CancelFlyTo() {
	c.hasTarget = false
}

// BeginDrag hands rotation to the pointer. Any fly-to is cancelled and
// momentum is discarded.
func (c *Camera) BeginDrag() {
	c.Dragging = true
	c.hasTarget = false
	c.Velocity = geom.Rotation{}
}

// DragBy applies a pointer delta in pixels directly to rotation and folds it
// into the momentum estimate.
func (c *Camera) DragBy(dx, dy float64) {
	if !c.Dragging {
		return
	}
	p := c.Params
	c.Rotation.Yaw += dx * p.Sensitivity
	c.Rotation.Pitch += dy * p.Sensitivity
	c.Velocity = geom.Rotation{
		Pitch: c.Velocity.Pitch*p.VelocityBlend + dy*p.VelocityGain,
		Yaw:   c.Velocity.Yaw*p.VelocityBlend + dx*p.VelocityGain,
	}
}

// EndDrag releases the pointer; residual velocity coasts.
func (c *Camera) EndDrag() {
	c.Dragging = false
}

// SetHovering toggles ambient rotation suppression.
func (c *Camera) SetHovering(h bool) {
	c.Hovering = h
}

// SetZoom sets the zoom level, clamped to the configured range.
func (c *Camera) SetZoom(z float64) {
	if !finite(z) {
		return
	}
	c.Zoom = geom.Clamp(z, c.Params.MinZoom, c.Params.MaxZoom)
}

// SetSpeed sets the speed multiplier, clamped to the configured range.
func (c *Camera) SetSpeed(s float64) {
	if !finite(s) {
		return
	}
	c.Speed = geom.Clamp(s, c.Params.MinSpeed, c.Params.MaxSpeed)
}

// Coasting reports whether momentum is above the rest threshold.
func (c *Camera) Coasting() bool {
	rest := c.Params.MomentumRest
	return math.Abs(c.Velocity.Pitch) > rest || math.Abs(c.Velocity.Yaw) > rest
}

// Update advances the camera by one frame and reports which mechanism moved
// it. Exactly one of fly-to, momentum and auto-rotation acts per frame; a
// drag suppresses all three.
func (c *Camera) Update() Phase {
	phase := PhaseIdle
	p := c.Params

	switch {
	case c.Dragging:
		phase = PhaseDrag

	case c.hasTarget:
		d := c.target.Sub(c.Rotation)
		if math.Abs(d.Pitch) < p.FlyEpsilon && math.Abs(d.Yaw) < p.FlyEpsilon {
			c.Rotation = c.target
			c.hasTarget = false
		} else {
			c.Rotation = c.Rotation.Add(d.Scale(p.FlyEase))
		}
		phase = PhaseFlyTo

	case c.Coasting():
		c.Rotation = c.Rotation.Add(c.Velocity)
		c.Velocity = c.Velocity.Scale(p.Decay)
		if !c.Coasting() {
			c.Velocity = geom.Rotation{}
		}
		phase = PhaseMomentum

	case !c.Hovering:
		c.Velocity = geom.Rotation{}
		c.Rotation.Yaw += p.AutoYaw * c.Speed
		c.Rotation.Pitch += p.AutoPitch * c.Speed
		phase = PhaseAuto
	}

	// Orbits hold still during a fly-to so the target does not drift away.
	if !c.hasTarget {
		c.Time += c.Speed
	}
	return phase
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
