// Package overlay keeps one interactive handle per scene entity, moves the
// handles to their projected screen positions every frame and turns clicks
// on them into selection changes or camera flights.
package overlay

import (
	"cmp"
	"image/color"
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/components"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/worlds"
)

// Options styles the labels and tunes click behavior.
type Options struct {
	LabelOffset   float64 // gap between marker center and label top
	FontSize      float64
	Padding       float64
	HoverScale    float64
	SelectedScale float64
	HitSlop       float64 // extra pixels around markers that still hit
	PillOpacity   float64 // label background alpha when not emphasized

	Ink   color.RGBA
	Paper color.RGBA

	// FlyOnSelect also centres a front-facing entity when it becomes
	// selected.
	FlyOnSelect bool
}

// DefaultOptions returns the stock label style.
func DefaultOptions() Options {
	return Options{
		LabelOffset:   12,
		FontSize:      10,
		Padding:       6,
		HoverScale:    1.15,
		SelectedScale: 1.15,
		HitSlop:       2,
		PillOpacity:   0.7,
		Ink:           color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
		Paper:         color.RGBA{R: 0xf5, G: 0xf0, B: 0xe8, A: 0xff},
	}
}

// Measurer reports the width of text at a font size.
type Measurer interface {
	MeasureText(text string, size float64) float64
}

// Coordinator owns the overlay handles of one view.
type Coordinator struct {
	Options Options

	// OnSelect is called with the newly selected world, or nil when the
	// selection is cleared.
	OnSelect func(*worlds.World)

	world   *ecs.World
	mapper  *ecs.Map3[components.Handle, components.Screen, components.Label]
	screens *ecs.Map[components.Screen]
	labels  *ecs.Map[components.Label]
	filter  *ecs.Filter3[components.Handle, components.Screen, components.Label]

	handles []ecs.Entity
	order   []int

	scene    *scene.Scene
	selected int
	hovered  int
}

// New creates a coordinator with no handles.
func New(opts Options) *Coordinator {
	return &Coordinator{Options: opts, selected: -1, hovered: -1}
}

// Bind creates one handle per entity of sc. Handles from a previous scene
// are discarded with their ECS world. A selection survives when the new
// scene still contains a world with the same ID.
func (c *Coordinator) Bind(sc *scene.Scene, m Measurer) {
	prevID := ""
	if w, _ := c.Selected(); w != nil {
		prevID = w.ID
	}

	c.world = ecs.NewWorld()
	c.mapper = ecs.NewMap3[components.Handle, components.Screen, components.Label](c.world)
	c.screens = ecs.NewMap[components.Screen](c.world)
	c.labels = ecs.NewMap[components.Label](c.world)
	c.filter = ecs.NewFilter3[components.Handle, components.Screen, components.Label](c.world)
	c.scene = sc
	c.hovered = -1

	n := sc.Len()
	c.handles = c.handles[:0]
	c.order = c.order[:0]
	selected := -1
	o := &c.Options
	for i := 0; i < n; i++ {
		w := sc.Entities[i].World
		h := components.Handle{Index: i, ID: w.ID}
		s := components.Screen{}
		l := components.Label{
			Text:   w.Title,
			Width:  m.MeasureText(w.Title, o.FontSize) + 2*o.Padding,
			Height: o.FontSize + o.Padding,
		}
		c.handles = append(c.handles, c.mapper.NewEntity(&h, &s, &l))
		c.order = append(c.order, i)
		if prevID != "" && w.ID == prevID {
			selected = i
		}
	}

	changed := selected != c.selected || (selected < 0 && prevID != "")
	c.selected = selected
	slog.Debug("overlay bound", "handles", n, "selected", selected)
	if changed {
		c.emit()
	}
}

// Len returns the number of handles.
func (c *Coordinator) Len() int {
	return len(c.handles)
}

// Screen returns handle i's current placement.
func (c *Coordinator) Screen(i int) (components.Screen, bool) {
	if i < 0 || i >= len(c.handles) {
		return components.Screen{}, false
	}
	return *c.screens.Get(c.handles[i]), true
}

// Entity returns the ECS entity backing handle i.
func (c *Coordinator) Entity(i int) (ecs.Entity, bool) {
	if i < 0 || i >= len(c.handles) {
		return ecs.Entity{}, false
	}
	return c.handles[i], true
}

// Components returns the components of handle i for inspection.
func (c *Coordinator) Components(i int) (components.Handle, components.Screen, components.Label, bool) {
	if i < 0 || i >= len(c.handles) || !c.world.Alive(c.handles[i]) {
		return components.Handle{}, components.Screen{}, components.Label{}, false
	}
	h, s, l := c.mapper.Get(c.handles[i])
	return *h, *s, *l, true
}

// Sync copies this frame's placements onto the handles and re-sorts the
// draw order. It only mutates existing components.
func (c *Coordinator) Sync(pls []renderer.Placement) {
	query := c.filter.Query()
	for query.Next() {
		h, s, _ := query.Get()
		if h.Index >= len(pls) {
			s.Visible = false
			continue
		}
		pl := &pls[h.Index]
		s.X, s.Y = pl.Screen.X, pl.Screen.Y
		s.Depth = pl.Depth
		s.Opacity = pl.Opacity
		s.Scale = pl.Scale
		s.Radius = pl.Radius
		s.Visible = pl.Visible
	}
	c.sortOrder()
}

// sortOrder orders handles back to front with the selected handle last.
func (c *Coordinator) sortOrder() {
	slices.SortStableFunc(c.order, func(a, b int) int {
		if (a == c.selected) != (b == c.selected) {
			if b == c.selected {
				return -1
			}
			return 1
		}
		return cmp.Compare(c.screens.Get(c.handles[a]).Depth, c.screens.Get(c.handles[b]).Depth)
	})
}

// scale returns the label scale of handle i including emphasis.
func (c *Coordinator) scale(i int, s *components.Screen) float64 {
	k := s.Scale
	if i == c.selected {
		k *= c.Options.SelectedScale
	}
	if i == c.hovered {
		k *= c.Options.HoverScale
	}
	return k
}

// LabelRect returns the on-screen rectangle of handle i's label pill.
func (c *Coordinator) LabelRect(i int) geom.Rect {
	s := c.screens.Get(c.handles[i])
	l := c.labels.Get(c.handles[i])
	k := c.scale(i, s)
	w, h := l.Width*k, l.Height*k
	return geom.Rect{X: s.X - w/2, Y: s.Y + c.Options.LabelOffset, W: w, H: h}
}

// HitTest returns the frontmost visible handle under p, or -1.
func (c *Coordinator) HitTest(p geom.Vec2) int {
	for k := len(c.order) - 1; k >= 0; k-- {
		i := c.order[k]
		s := c.screens.Get(c.handles[i])
		if !s.Visible {
			continue
		}
		if c.LabelRect(i).Contains(p) {
			return i
		}
		r := s.Radius + c.Options.HitSlop
		if p.Sub(geom.Vec2{X: s.X, Y: s.Y}).Len2() <= r*r {
			return i
		}
	}
	return -1
}

// Click handles a click on handle i. A front-facing entity toggles the
// selection; a back-facing one is flown to the front and the selection is
// left alone.
func (c *Coordinator) Click(i int, cam *camera.Camera) {
	if i < 0 || i >= len(c.handles) {
		return
	}
	s := c.screens.Get(c.handles[i])
	if !s.Visible {
		return
	}
	if s.Depth <= 0 {
		c.flyTo(i, cam)
		return
	}
	if c.selected == i {
		c.Deselect()
		return
	}
	c.Select(i)
	if c.Options.FlyOnSelect {
		c.flyTo(i, cam)
	}
}

// FlyToNext selects the entity after the current selection and flies to
// it. Degenerate entities are skipped.
func (c *Coordinator) FlyToNext(cam *camera.Camera) {
	n := len(c.handles)
	for step := 1; step <= n; step++ {
		i := (c.selected + step) % n
		if i < 0 {
			i += n
		}
		if _, ok := c.scene.Position(i, cam.Time); !ok {
			continue
		}
		c.Select(i)
		c.flyTo(i, cam)
		return
	}
}

func (c *Coordinator) flyTo(i int, cam *camera.Camera) {
	p, ok := c.scene.Position(i, cam.Time)
	if !ok {
		return
	}
	if rot, ok := camera.CenteringTarget(p, cam.Params.FlyLift, c.scene.Reach(i)); ok {
		cam.FlyTo(rot)
	}
}

// Select makes handle i the selection.
func (c *Coordinator) Select(i int) {
	if i < 0 || i >= len(c.handles) || i == c.selected {
		return
	}
	c.selected = i
	c.emit()
}

// Deselect clears the selection.
func (c *Coordinator) Deselect() {
	if c.selected < 0 {
		return
	}
	c.selected = -1
	c.emit()
}

func (c *Coordinator) emit() {
	w, _ := c.Selected()
	if w != nil {
		slog.Info("world selected", "id", w.ID, "title", w.Title)
	} else {
		slog.Info("selection cleared")
	}
	if c.OnSelect != nil {
		c.OnSelect(w)
	}
}

// Selected returns the selected world and its index, or nil and -1.
func (c *Coordinator) Selected() (*worlds.World, int) {
	if c.scene == nil || c.selected < 0 || c.selected >= c.scene.Len() {
		return nil, -1
	}
	return c.scene.Entities[c.selected].World, c.selected
}

// SetHover marks handle i (or -1) as hovered and reports a change.
func (c *Coordinator) SetHover(i int) bool {
	if i >= len(c.handles) {
		i = -1
	}
	if i == c.hovered {
		return false
	}
	c.hovered = i
	return true
}

// Hovered returns the hovered handle or -1.
func (c *Coordinator) Hovered() int {
	return c.hovered
}

// Draw paints the label pills back to front.
func (c *Coordinator) Draw(s renderer.Surface) {
	o := &c.Options
	for _, i := range c.order {
		sc := c.screens.Get(c.handles[i])
		if !sc.Visible {
			continue
		}
		l := c.labels.Get(c.handles[i])
		emphasized := i == c.selected || i == c.hovered
		alpha, fill := sc.Opacity, o.PillOpacity
		if emphasized {
			alpha, fill = 1, 1
		}
		r := c.LabelRect(i)
		k := r.H / l.Height
		s.FillPill(r, renderer.WithAlpha(o.Ink, fill*alpha))
		size := o.FontSize * k
		s.DrawText(l.Text, geom.Vec2{X: r.X + o.Padding*k, Y: r.Y + (r.H-size)/2}, size,
			renderer.WithAlpha(o.Paper, alpha))
	}
}
