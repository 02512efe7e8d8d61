// Package input turns pointer events into camera drags, hover state and
// overlay clicks.
package input

import (
	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/geom"
)

// State is the controller's pointer state.
type State uint8

const (
	Idle           State = iota
	Dragging             // pointer rotates the camera
	PressingTarget       // pressed on an overlay handle; a release may click it
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case PressingTarget:
		return "pressing"
	default:
		return "idle"
	}
}

// Kind is the pointer device class.
type Kind uint8

const (
	Mouse Kind = iota
	Touch
)

// Cursor is the pointer shape a shell should show.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorPointer
)

// Target is the overlay layer the controller routes hits to.
type Target interface {
	HitTest(p geom.Vec2) int
	SetHover(i int) bool
	Click(i int, cam *camera.Camera)
}

// Controller is the pointer state machine of one view.
type Controller struct {
	DeadZone float64

	cam    *camera.Camera
	target Target

	state   State
	pointer int // id of the pointer that owns the gesture
	kind    Kind
	anchor  geom.Vec2
	last    geom.Vec2
	pressed int
	over    bool
	hover   int

	detached bool
}

// New creates a controller driving cam. target may be nil.
func New(cam *camera.Camera, target Target, deadZone float64) *Controller {
	return &Controller{DeadZone: deadZone, cam: cam, target: target, pressed: -1, hover: -1}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Detach makes the controller ignore all further events and releases any
// gesture in progress.
func (c *Controller) Detach() {
	c.reset()
	c.detached = true
}

// Attach re-enables event handling.
func (c *Controller) Attach() {
	c.detached = false
}

// Detached reports whether events are ignored.
func (c *Controller) Detached() bool {
	return c.detached
}

func (c *Controller) hit(p geom.Vec2) int {
	if c.target == nil {
		return -1
	}
	return c.target.HitTest(p)
}

// Down handles a press. A second simultaneous pointer is ignored.
func (c *Controller) Down(p geom.Vec2, kind Kind, id int) {
	if c.detached || c.state != Idle {
		return
	}
	c.pointer, c.kind = id, kind
	c.anchor, c.last = p, p
	if i := c.hit(p); i >= 0 {
		c.state = PressingTarget
		c.pressed = i
		return
	}
	c.state = Dragging
	c.cam.BeginDrag()
}

// Move handles pointer motion.
func (c *Controller) Move(p geom.Vec2, kind Kind, id int) {
	if c.detached {
		return
	}
	switch c.state {
	case Idle:
		if kind == Mouse {
			c.setOver(true)
			c.setHover(c.hit(p))
		}
	case Dragging:
		if id != c.pointer {
			return
		}
		d := p.Sub(c.last)
		c.last = p
		c.cam.DragBy(d.X, d.Y)
	case PressingTarget:
		if id != c.pointer {
			return
		}
		if p.Sub(c.anchor).Len2() > c.DeadZone*c.DeadZone {
			// Too far for a click: the press becomes a drag.
			c.state = Dragging
			c.pressed = -1
			c.cam.BeginDrag()
			d := p.Sub(c.last)
			c.last = p
			c.cam.DragBy(d.X, d.Y)
		}
	}
}

// Up handles a release.
func (c *Controller) Up(p geom.Vec2, id int) {
	if c.detached || c.state == Idle || id != c.pointer {
		return
	}
	switch c.state {
	case Dragging:
		c.cam.EndDrag()
	case PressingTarget:
		i := c.pressed
		if p.Sub(c.anchor).Len2() <= c.DeadZone*c.DeadZone && c.hit(p) == i && c.target != nil {
			c.target.Click(i, c.cam)
		}
	}
	c.state = Idle
	c.pressed = -1
	if c.kind == Mouse {
		c.setHover(c.hit(p))
	}
}

// Enter handles the pointer entering the surface.
func (c *Controller) Enter(kind Kind) {
	if c.detached || kind != Mouse {
		return
	}
	c.setOver(true)
}

// Leave handles the pointer leaving the surface: any gesture ends and the
// hover state clears.
func (c *Controller) Leave() {
	if c.detached {
		return
	}
	c.reset()
}

// Cancel aborts a gesture without clicking, for interrupted touches.
func (c *Controller) Cancel() {
	if c.detached {
		return
	}
	if c.state == Dragging {
		c.cam.EndDrag()
	}
	c.state = Idle
	c.pressed = -1
}

func (c *Controller) reset() {
	if c.state == Dragging {
		c.cam.EndDrag()
	}
	c.state = Idle
	c.pressed = -1
	c.setOver(false)
	c.setHover(-1)
}

func (c *Controller) setOver(over bool) {
	c.over = over
	c.cam.SetHovering(over)
}

func (c *Controller) setHover(i int) {
	c.hover = i
	if c.target != nil {
		c.target.SetHover(i)
	}
}

// Cursor returns the pointer shape for the current state.
func (c *Controller) Cursor() Cursor {
	switch {
	case c.state == Dragging:
		return CursorGrabbing
	case c.state == PressingTarget || c.hover >= 0:
		return CursorPointer
	case c.over:
		return CursorGrab
	default:
		return CursorDefault
	}
}
