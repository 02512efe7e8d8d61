package overlay

import (
	"fmt"
	"math"
	"testing"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/worlds"
)

func makeScene(n int) *scene.Scene {
	ws := make([]worlds.World, n)
	for i := range ws {
		ws[i] = worlds.World{ID: fmt.Sprintf("w%d", i), Title: fmt.Sprintf("World %d", i)}
	}
	return scene.Build(ws, scene.ModeOrbit, scene.DefaultOptions())
}

// spread places n visible markers 100px apart along x with the given depths.
func spread(depths ...float64) []renderer.Placement {
	pls := make([]renderer.Placement, len(depths))
	for i, d := range depths {
		pls[i] = renderer.Placement{
			Index:   i,
			Screen:  geom.Vec2{X: 100 + float64(i)*100, Y: 100},
			Depth:   d,
			Opacity: 0.5,
			Scale:   1,
			Radius:  5,
			Visible: true,
		}
	}
	return pls
}

type recorder struct {
	events []*worlds.World
}

func (r *recorder) on(w *worlds.World) {
	r.events = append(r.events, w)
}

func newBound(n int) (*Coordinator, *recorder, *renderer.Recorder) {
	c := New(DefaultOptions())
	rec := &recorder{}
	c.OnSelect = rec.on
	surf := renderer.NewRecorder(800, 600)
	c.Bind(makeScene(n), surf)
	return c, rec, surf
}

func TestBindCreatesHandles(t *testing.T) {
	c, _, _ := newBound(3)
	if c.Len() != 3 {
		t.Fatalf("expected 3 handles, got %d", c.Len())
	}
	h, _, l, ok := c.Components(2)
	if !ok {
		t.Fatal("expected components for handle 2")
	}
	if h.Index != 2 || h.ID != "w2" || l.Text != "World 2" {
		t.Errorf("handle = %+v, label = %+v", h, l)
	}
	// 7 runes at 10px with 0.6 advance plus padding on both sides
	if math.Abs(l.Width-(7*10*0.6+12)) > 1e-9 {
		t.Errorf("label width = %f", l.Width)
	}
	if _, _, _, ok := c.Components(3); ok {
		t.Error("out of range handle should not resolve")
	}
}

func TestSyncMutatesInPlace(t *testing.T) {
	c, _, _ := newBound(3)
	before, _ := c.Entity(1)

	for frame := 0; frame < 5; frame++ {
		c.Sync(spread(0.1, 0.2*float64(frame), -0.3))
	}
	after, _ := c.Entity(1)
	if before != after || c.Len() != 3 {
		t.Error("sync should reuse handles")
	}
	s, _ := c.Screen(1)
	if s.X != 200 || s.Depth != 0.8 || !s.Visible {
		t.Errorf("screen = %+v", s)
	}
}

func TestToggleLaw(t *testing.T) {
	c, rec, _ := newBound(3)
	cam := camera.New(camera.OrbitParams(), 0.3, 1, 1)
	c.Sync(spread(0.4, 0.3, 0.2))

	c.Click(0, cam)
	if w, i := c.Selected(); i != 0 || w.ID != "w0" {
		t.Fatalf("expected w0 selected, got %d", i)
	}
	c.Click(0, cam)
	if _, i := c.Selected(); i != -1 {
		t.Fatalf("second click should deselect, got %d", i)
	}

	c.Click(1, cam)
	c.Click(2, cam)
	if w, i := c.Selected(); i != 2 || w.ID != "w2" {
		t.Errorf("expected direct switch to w2, got %d", i)
	}

	want := []string{"w0", "", "w1", "w2"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %d, want %d", len(rec.events), len(want))
	}
	for i, id := range want {
		got := ""
		if rec.events[i] != nil {
			got = rec.events[i].ID
		}
		if got != id {
			t.Errorf("event %d = %q, want %q", i, got, id)
		}
	}
	if cam.Flying() {
		t.Error("front clicks should not fly by default")
	}
}

func TestBackFacingClickFlies(t *testing.T) {
	c, rec, _ := newBound(3)
	cam := camera.New(camera.OrbitParams(), 0.3, 1, 1)
	c.Sync(spread(0.4, -0.3, 0.2))
	c.Click(0, cam)

	c.Click(1, cam)
	if _, i := c.Selected(); i != 0 {
		t.Errorf("back click changed selection to %d", i)
	}
	if !cam.Flying() {
		t.Error("back click should start a fly-to")
	}
	if len(rec.events) != 1 {
		t.Errorf("expected one selection event, got %d", len(rec.events))
	}
}

func TestFlyBringsEntityToFront(t *testing.T) {
	sc := makeScene(12)
	c := New(DefaultOptions())
	surf := renderer.NewRecorder(1200, 800)
	c.Bind(sc, surf)

	cam := camera.New(camera.OrbitParams(), 0.3, 1, 1)
	cam.SetHovering(true)
	vp := camera.NewViewport(1200, 800, 1)
	r := renderer.New(renderer.OrbitStyle(), renderer.SphereStyle(), nil)

	// Find a back-facing entity and click it.
	c.Sync(r.Render(surf, cam, sc, vp, -1))
	back := -1
	for i := 0; i < c.Len(); i++ {
		if s, _ := c.Screen(i); s.Visible && s.Depth < -0.05 {
			back = i
			break
		}
	}
	if back < 0 {
		t.Fatal("no back-facing entity in the stock layout")
	}
	c.Click(back, cam)
	for frames := 0; cam.Flying() && frames < 300; frames++ {
		cam.Update()
	}
	c.Sync(r.Render(surf, cam, sc, vp, -1))
	s, _ := c.Screen(back)
	if s.Depth <= 0 {
		t.Errorf("entity %d still behind after fly-to: depth %f", back, s.Depth)
	}
	if math.Abs(s.X-600) > 1 {
		t.Errorf("entity %d not centred horizontally: x %f", back, s.X)
	}
}

func TestHitTest(t *testing.T) {
	c, _, _ := newBound(3)
	pls := spread(0.1, 0.5, 0.3)
	pls[2].Screen = pls[1].Screen
	pls[0].Visible = false
	c.Sync(pls)

	if got := c.HitTest(geom.Vec2{X: 200, Y: 100}); got != 1 {
		t.Errorf("overlap should hit the front handle, got %d", got)
	}
	if got := c.HitTest(geom.Vec2{X: 100, Y: 100}); got != -1 {
		t.Errorf("hidden handle was hit: %d", got)
	}
	if got := c.HitTest(geom.Vec2{X: 500, Y: 500}); got != -1 {
		t.Errorf("empty space hit %d", got)
	}
	r := c.LabelRect(1)
	if got := c.HitTest(geom.Vec2{X: r.X + 1, Y: r.Y + r.H/2}); got != 1 {
		t.Errorf("label pill should hit, got %d", got)
	}
}

func TestHoverAndSelectionEnlargeLabel(t *testing.T) {
	c, _, _ := newBound(2)
	c.Sync(spread(0.1, 0.1))

	plain := c.LabelRect(0)
	if !c.SetHover(0) || c.SetHover(0) {
		t.Error("SetHover should report only changes")
	}
	hovered := c.LabelRect(0)
	if math.Abs(hovered.W-plain.W*1.15) > 1e-9 {
		t.Errorf("hovered width %f, plain %f", hovered.W, plain.W)
	}
	c.Select(0)
	both := c.LabelRect(0)
	if math.Abs(both.W-plain.W*1.15*1.15) > 1e-9 {
		t.Errorf("selected and hovered width %f", both.W)
	}
	if c.SetHover(9); c.Hovered() != -1 {
		t.Error("out of range hover should clear")
	}
}

func TestDrawOrder(t *testing.T) {
	c, _, surf := newBound(3)
	c.Select(0)
	c.Sync(spread(-0.2, 0.6, 0.1))

	surf.Reset()
	c.Draw(surf)
	if surf.Count(renderer.OpPill) != 3 || surf.Count(renderer.OpText) != 3 {
		t.Fatalf("drew %d pills, %d texts", surf.Count(renderer.OpPill), surf.Count(renderer.OpText))
	}
	var texts []string
	for _, op := range surf.Ops {
		if op.Kind == renderer.OpText {
			texts = append(texts, op.Text)
		}
	}
	want := []string{"World 2", "World 1", "World 0"}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("draw order = %v, want %v", texts, want)
		}
	}
	last := surf.Ops[len(surf.Ops)-1]
	if last.Color.A != 0xff {
		t.Errorf("selected label should be opaque, alpha %d", last.Color.A)
	}
}

func TestRebindKeepsSelectionByID(t *testing.T) {
	c, rec, surf := newBound(3)
	c.Select(2)

	c.Bind(makeScene(5), surf)
	if w, i := c.Selected(); i != 2 || w.ID != "w2" {
		t.Errorf("selection lost across rebind: %d", i)
	}
	if len(rec.events) != 1 {
		t.Errorf("unchanged selection re-emitted: %d events", len(rec.events))
	}

	c.Bind(makeScene(2), surf)
	if _, i := c.Selected(); i != -1 {
		t.Errorf("missing world still selected: %d", i)
	}
	if len(rec.events) != 2 || rec.events[1] != nil {
		t.Errorf("expected a cleared event, got %v", rec.events)
	}
}

func TestFlyToNext(t *testing.T) {
	c, _, _ := newBound(3)
	cam := camera.New(camera.OrbitParams(), 0.3, 1, 1)
	c.Sync(spread(0.1, 0.1, 0.1))

	c.FlyToNext(cam)
	if _, i := c.Selected(); i != 0 {
		t.Errorf("first Tab should select 0, got %d", i)
	}
	c.Select(2)
	c.FlyToNext(cam)
	if _, i := c.Selected(); i != 0 {
		t.Errorf("Tab should wrap to 0, got %d", i)
	}
	if !cam.Flying() {
		t.Error("FlyToNext should start a fly-to")
	}
}
