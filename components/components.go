// Package components defines ECS components for overlay handles.
package components

// Handle ties an ECS entity to one scene entity. It is written once when
// the scene is bound.
type Handle struct {
	Index int    `inspect:"label"`
	ID    string `inspect:"label"`
}

// Screen is the per-frame placement of a handle. Only this component is
// mutated between scene rebinds.
type Screen struct {
	X, Y    float64 `inspect:"skip"`
	Depth   float64 `inspect:"bar,min:-1,max:1"`
	Opacity float64 `inspect:"bar"`
	Scale   float64 `inspect:"label,fmt:%.2f"`
	Radius  float64 `inspect:"skip"`
	Visible bool    `inspect:"bool"`
}

// Label is the pill drawn under a marker. Width is measured once at the
// unscaled font size.
type Label struct {
	Text   string  `inspect:"skip"`
	Width  float64 `inspect:"label,fmt:%.0f"`
	Height float64 `inspect:"skip"`
}
