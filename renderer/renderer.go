package renderer

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/scene"
)

// Style holds the drawing parameters of one placement mode.
type Style struct {
	Ink   color.RGBA
	Paper color.RGBA

	LineWidth float64

	// Orbit paths
	PathSegments     int
	PathOpacityMin   float64
	PathOpacityRange float64

	// Sphere wireframe, angles in degrees
	GridStep         float64
	SegmentStep      float64
	LineOpacityMin   float64
	LineOpacityRange float64

	// Markers
	MarkerOpacityMin float64
	ScaleMin         float64
	ScaleRange       float64
	MarkerRadius     float64
	SelectedRadius   float64

	Scale camera.ScaleRule
}

// OrbitStyle returns the stock look of the independent-orbits view.
func OrbitStyle() Style {
	return Style{
		Ink:              color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
		Paper:            color.RGBA{R: 0xf5, G: 0xf0, B: 0xe8, A: 0xff},
		LineWidth:        1.5,
		PathSegments:     48,
		PathOpacityMin:   0.1,
		PathOpacityRange: 0.25,
		MarkerOpacityMin: 0.3,
		ScaleMin:         0.8,
		ScaleRange:       0.4,
		MarkerRadius:     5,
		SelectedRadius:   8,
		Scale:            camera.OrbitScale(),
	}
}

// SphereStyle returns the stock look of the wireframe globe.
func SphereStyle() Style {
	s := OrbitStyle()
	s.GridStep = 10
	s.SegmentStep = 3
	s.LineOpacityMin = 0.08
	s.LineOpacityRange = 0.35
	s.MarkerOpacityMin = 0.2
	s.ScaleMin = 0.7
	s.ScaleRange = 0.5
	s.Scale = camera.SphereScale()
	return s
}

// Placement is where one entity landed on screen this frame.
type Placement struct {
	Index    int
	Screen   geom.Vec2
	Depth    float64 // rotated z; positive faces the viewer
	Fraction float64 // depth mapped to [0, 1]
	Opacity  float64
	Scale    float64
	Radius   float64
	Visible  bool
	Selected bool
}

// Front reports whether the entity faces the viewer.
func (p Placement) Front() bool {
	return p.Depth > 0
}

// Renderer paints scenes. Buffers are reused across frames, so the
// placements returned by Render are only valid until the next call.
type Renderer struct {
	Orbit  Style
	Sphere Style
	Globe  *TextGlobe

	placements []Placement
	order      []int
	path       []geom.Vec2

	grid     []gridSegment
	gridStep [2]float64

	busy bool
}

type gridSegment struct {
	a, b r3.Vec
}

// New creates a renderer.
func New(orbit, sphere Style, globe *TextGlobe) *Renderer {
	if globe == nil {
		globe = NewTextGlobe(DefaultGlobeStyle())
	}
	return &Renderer{Orbit: orbit, Sphere: sphere, Globe: globe}
}

// StyleFor returns the style used for mode m.
func (r *Renderer) StyleFor(m scene.Mode) *Style {
	if m == scene.ModeOrbit {
		return &r.Orbit
	}
	return &r.Sphere
}

// Render paints one frame and returns a placement for every entity in
// scene order. A nested call while a frame is in progress draws nothing
// and returns nil.
func (r *Renderer) Render(s Surface, cam *camera.Camera, sc *scene.Scene, vp camera.Viewport, selected int) []Placement {
	if r.busy {
		return nil
	}
	r.busy = true
	defer func() { r.busy = false }()

	st := r.StyleFor(sc.Mode)
	s.Clear(st.Paper)

	r.placements = r.placements[:0]
	if vp.Empty() {
		return r.placements
	}

	if sc.Mode == scene.ModeText {
		r.Globe.Draw(s, vp, cam.Rotation.Yaw, cam.Zoom, st.Ink)
		return r.placements
	}

	center := vp.Center()
	scale := vp.BaseScale(st.Scale, cam.Zoom)

	if sc.Mode == scene.ModeSphere {
		r.drawWireframe(s, st, cam.Rotation, center, scale)
	} else {
		r.drawOrbits(s, st, sc, cam.Rotation, center, scale)
	}

	r.place(st, sc, cam, center, scale, selected)
	r.drawMarkers(s, st)
	return r.placements
}

func (r *Renderer) drawOrbits(s Surface, st *Style, sc *scene.Scene, rot geom.Rotation, center geom.Vec2, scale float64) {
	n := st.PathSegments
	if n < 3 {
		n = 3
	}
	motion := sc.Motion()
	for _, o := range sc.Orbits() {
		r.path = r.path[:0]
		depth := 0.0
		for k := 0; k <= n; k++ {
			phase := 2 * math.Pi * float64(k) / float64(n)
			p := geom.Rotate(geom.OrbitPosition(phase, o, motion, 0), rot)
			r.path = append(r.path, geom.Project(p, center, scale))
			if k < n {
				depth += geom.DepthFraction(p.Z)
			}
		}
		alpha := st.PathOpacityMin + depth/float64(n)*st.PathOpacityRange
		s.StrokePolyline(r.path, st.LineWidth, WithAlpha(st.Ink, alpha))
	}
}

// buildGrid caches the unit-sphere wireframe segments for the current
// grid steps. Pole rings collapse to points and are left out.
func (r *Renderer) buildGrid(st *Style) {
	key := [2]float64{st.GridStep, st.SegmentStep}
	if r.grid != nil && key == r.gridStep {
		return
	}
	r.gridStep = key
	r.grid = r.grid[:0]
	grid, seg := st.GridStep, st.SegmentStep
	if grid <= 0 || seg <= 0 {
		return
	}
	for lat := grid; lat < 180; lat += grid {
		phi := geom.Deg(lat)
		for lon := 0.0; lon < 360; lon += seg {
			r.grid = append(r.grid, gridSegment{
				a: geom.Spherical(geom.Deg(lon), phi, 1),
				b: geom.Spherical(geom.Deg(math.Min(lon+seg, 360)), phi, 1),
			})
		}
	}
	for lon := 0.0; lon < 360; lon += grid {
		theta := geom.Deg(lon)
		for lat := 0.0; lat < 180; lat += seg {
			r.grid = append(r.grid, gridSegment{
				a: geom.Spherical(theta, geom.Deg(lat), 1),
				b: geom.Spherical(theta, geom.Deg(math.Min(lat+seg, 180)), 1),
			})
		}
	}
}

func (r *Renderer) drawWireframe(s Surface, st *Style, rot geom.Rotation, center geom.Vec2, scale float64) {
	r.buildGrid(st)
	for i := range r.grid {
		a := geom.Rotate(r.grid[i].a, rot)
		b := geom.Rotate(r.grid[i].b, rot)
		d := geom.DepthFraction((a.Z + b.Z) / 2)
		s.StrokeLine(geom.Project(a, center, scale), geom.Project(b, center, scale),
			st.LineWidth, WithAlpha(st.Ink, st.LineOpacityMin+d*st.LineOpacityRange))
	}
}

func (r *Renderer) place(st *Style, sc *scene.Scene, cam *camera.Camera, center geom.Vec2, scale float64, selected int) {
	for i := 0; i < sc.Len(); i++ {
		pl := Placement{Index: i, Selected: i == selected}
		if p, ok := sc.Position(i, cam.Time); ok {
			p = geom.Rotate(p, cam.Rotation)
			d := geom.DepthFraction(p.Z)
			pl.Screen = geom.Project(p, center, scale)
			pl.Depth = p.Z
			pl.Fraction = d
			pl.Opacity = st.MarkerOpacityMin + d*(1-st.MarkerOpacityMin)
			pl.Scale = st.ScaleMin + d*st.ScaleRange
			pl.Radius = st.MarkerRadius
			pl.Visible = true
			if pl.Selected {
				pl.Opacity = 1
				pl.Radius = st.SelectedRadius
			}
		}
		r.placements = append(r.placements, pl)
	}
}

func (r *Renderer) drawMarkers(s Surface, st *Style) {
	r.order = r.order[:0]
	for i := range r.placements {
		if r.placements[i].Visible {
			r.order = append(r.order, i)
		}
	}
	SortBackToFront(r.order, r.placements)
	for _, i := range r.order {
		pl := &r.placements[i]
		s.FillCircle(pl.Screen, pl.Radius, WithAlpha(st.Ink, pl.Opacity))
	}
}

// SortBackToFront orders indices into pls by ascending depth; the selected
// entity always sorts last.
func SortBackToFront(order []int, pls []Placement) {
	slices.SortStableFunc(order, func(a, b int) int {
		pa, pb := &pls[a], &pls[b]
		if pa.Selected != pb.Selected {
			if pb.Selected {
				return -1
			}
			return 1
		}
		return cmp.Compare(pa.Depth, pb.Depth)
	})
}
