package viewer

import (
	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/inspector"
)

// cameraReadout is the camera section of the debug panel.
type cameraReadout struct {
	Pitch float64      `inspect:"angle"`
	Yaw   float64      `inspect:"angle"`
	Zoom  float64      `inspect:"label,fmt:%.2f"`
	Speed float64      `inspect:"label,fmt:%.2f"`
	Phase camera.Phase `inspect:"label"`
	Time  float64      `inspect:"label,fmt:%.0f"`
}

// drawInspector shows the camera and the hovered (else selected) handle.
func (v *View) drawInspector() {
	if !v.panel.Visible {
		return
	}
	c := v.Camera
	phase := camera.PhaseAuto
	switch {
	case c.Dragging:
		phase = camera.PhaseDrag
	case c.Flying():
		phase = camera.PhaseFlyTo
	case c.Coasting():
		phase = camera.PhaseMomentum
	case c.Hovering:
		phase = camera.PhaseIdle
	}
	sections := []inspector.Section{inspector.Inspect("Camera", cameraReadout{
		Pitch: c.Rotation.Pitch,
		Yaw:   c.Rotation.Yaw,
		Zoom:  c.Zoom,
		Speed: c.Speed,
		Phase: phase,
		Time:  c.Time,
	})}

	i := v.overlay.Hovered()
	if i < 0 {
		_, i = v.overlay.Selected()
	}
	title := v.opts.Mode.String()
	if h, s, l, ok := v.overlay.Components(i); ok {
		title = l.Text
		sections = append(sections,
			inspector.Inspect("Handle", h),
			inspector.Inspect("Screen", s),
			inspector.Inspect("Label", l),
		)
	}
	v.panel.Draw(v.surface, title, sections...)
}
