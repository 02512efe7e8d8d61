// Package viewer assembles one interactive view: it owns the camera state,
// the scene built from the current world list, the renderer, the overlay
// handles and the pointer controller, and runs update → render → overlays
// once per scheduled frame.
package viewer

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/frame"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/input"
	"github.com/pthm-cable/orbits/inspector"
	"github.com/pthm-cable/orbits/overlay"
	"github.com/pthm-cable/orbits/renderer"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/telemetry"
	"github.com/pthm-cable/orbits/worlds"
)

// View is one mounted visualization. All methods must be called from the
// goroutine that runs the scheduler.
type View struct {
	opts Options

	Camera   *camera.Camera
	Viewport camera.Viewport

	surface  renderer.Surface
	scene    *scene.Scene
	worlds   []worlds.World
	renderer *renderer.Renderer
	overlay  *overlay.Coordinator
	input    *input.Controller
	panel    *inspector.Panel
	loop     *frame.Loop

	placements []renderer.Placement
	mounted    bool
	frames     uint64

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	// OnSelect receives the selected world, or nil when cleared.
	OnSelect func(*worlds.World)
	// AfterFrame runs at the end of every frame, after overlays, so a shell
	// can draw its own panels on top.
	AfterFrame func()
}

// New creates an unmounted view drawing onto s and ticking on sched. The
// viewport starts at the surface size.
func New(opts Options, s renderer.Surface, sched frame.Scheduler) *View {
	w, h := s.Size()
	v := &View{
		opts:      opts,
		Camera:    camera.New(opts.CameraParams(opts.Mode), opts.InitialPitch, opts.Zoom, opts.Speed),
		Viewport:  camera.NewViewport(w, h, 1),
		surface:   s,
		renderer:  renderer.New(opts.Orbit, opts.Sphere, renderer.NewTextGlobe(opts.Globe)),
		overlay:   overlay.New(opts.Overlay),
		panel:     inspector.NewPanel(opts.Overlay.Ink, opts.Overlay.Paper),
		perf:      telemetry.NewPerfCollector(max(opts.PerfWindow, 1)),
		collector: telemetry.NewCollector(opts.PerfWindow),
	}
	v.overlay.OnSelect = v.selectionChanged
	v.input = input.New(v.Camera, target{v}, opts.DeadZone)
	v.input.Detach()
	v.loop = frame.NewLoop(sched, v.Step)
	v.SetWorlds(nil)
	return v
}

// SetWorlds rebuilds the scene from a new snapshot of the world list. The
// camera keeps its rotation; the selection survives if its world does.
func (v *View) SetWorlds(ws []worlds.World) {
	v.worlds = append(v.worlds[:0], ws...)
	v.rebuild()
	slog.Info("scene built", "mode", v.scene.Mode.String(), "worlds", len(ws), "entities", v.scene.Len())
}

func (v *View) rebuild() {
	v.scene = scene.Build(v.worlds, v.opts.Mode, v.opts.Scene)
	v.overlay.Bind(v.scene, v.surface)
	v.renderer.Globe.SetTexts(v.scene.Texts())
	v.placements = v.placements[:0]
}

// SetMode switches placement mode, swapping the camera feel and rebuilding
// the scene. Rotation and zoom are kept.
func (v *View) SetMode(m scene.Mode) {
	if m == v.opts.Mode {
		return
	}
	v.opts.Mode = m
	zoom, speed := v.Camera.Zoom, v.Camera.Speed
	v.Camera.Params = v.opts.CameraParams(m)
	v.Camera.CancelFlyTo()
	v.Camera.Velocity = geom.Rotation{}
	v.Camera.SetZoom(zoom)
	v.Camera.SetSpeed(speed)
	v.rebuild()
	slog.Info("mode changed", "mode", m.String())
}

// Mode returns the placement mode.
func (v *View) Mode() scene.Mode {
	return v.opts.Mode
}

// Scene returns the current scene.
func (v *View) Scene() *scene.Scene {
	return v.scene
}

// Mount starts the frame loop and input handling.
func (v *View) Mount() {
	if v.mounted {
		return
	}
	v.mounted = true
	v.input.Attach()
	v.loop.Start()
}

// Unmount stops the frame loop and detaches input. Later events and ticks
// have no effect.
func (v *View) Unmount() {
	if !v.mounted {
		return
	}
	v.mounted = false
	v.loop.Stop()
	v.input.Detach()
	slog.Info("view unmounted", "frames", v.frames)
}

// Mounted reports whether the view is running.
func (v *View) Mounted() bool {
	return v.mounted
}

// Resize records a new surface size. It only writes viewport state; the
// next frame picks it up.
func (v *View) Resize(w, h, dpr float64) {
	if v.Viewport.Resize(w, h, dpr) {
		slog.Debug("viewport resized", "width", w, "height", h, "dpr", dpr)
	}
}

// Input returns the pointer controller shells feed events into.
func (v *View) Input() *input.Controller {
	return v.input
}

// Overlay returns the overlay coordinator.
func (v *View) Overlay() *overlay.Coordinator {
	return v.overlay
}

// Inspector returns the debug panel.
func (v *View) Inspector() *inspector.Panel {
	return v.panel
}

// Placements returns the placements of the last frame.
func (v *View) Placements() []renderer.Placement {
	return v.placements
}

// Frames returns how many frames have run.
func (v *View) Frames() uint64 {
	return v.frames
}

// SetZoom sets the zoom level.
func (v *View) SetZoom(z float64) { v.Camera.SetZoom(z) }

// SetSpeed sets the rotation and orbit speed multiplier.
func (v *View) SetSpeed(s float64) { v.Camera.SetSpeed(s) }

// Selected returns the selected world or nil.
func (v *View) Selected() *worlds.World {
	w, _ := v.overlay.Selected()
	return w
}

// Deselect clears the selection, e.g. when a detail panel is closed.
func (v *View) Deselect() {
	v.overlay.Deselect()
}

// FlyToNext selects the next world and brings it to the front.
func (v *View) FlyToNext() {
	if !v.mounted {
		return
	}
	v.overlay.FlyToNext(v.Camera)
	v.recordFlight()
}

// SetOutput routes telemetry windows and selection events to om.
func (v *View) SetOutput(om *telemetry.OutputManager) {
	v.output = om
}

// Step runs one frame. It is the frame loop's callback; shells and tests
// may also call it directly.
func (v *View) Step() {
	v.perf.StartTick()

	v.perf.StartPhase(telemetry.PhaseUpdate)
	before := v.Camera.Rotation
	phase := v.Camera.Update()
	if v.opts.Mode == scene.ModeText {
		v.renderer.Globe.Advance(v.Camera.Hovering, v.Camera.Speed)
	}

	v.perf.StartPhase(telemetry.PhaseRender)
	_, sel := v.overlay.Selected()
	v.placements = v.renderer.Render(v.surface, v.Camera, v.scene, v.Viewport, sel)

	v.perf.StartPhase(telemetry.PhaseOverlays)
	v.overlay.Sync(v.placements)
	v.overlay.Draw(v.surface)

	v.perf.StartPhase(telemetry.PhaseUI)
	v.drawInspector()
	if v.AfterFrame != nil {
		v.AfterFrame()
	}
	v.perf.EndTick()
	v.perf.RecordFrame()
	v.frames++

	d := v.Camera.Rotation.Sub(before)
	v.collector.RecordFrame(phase, math.Hypot(d.Pitch, d.Yaw))
	v.flushTelemetry()
}

// flushTelemetry closes an activity window when due and logs perf.
func (v *View) flushTelemetry() {
	n := v.frames
	if v.opts.LogEvery > 0 && n%v.opts.LogEvery == 0 {
		v.perf.Stats().LogStats()
	}
	if !v.collector.ShouldFlush(n) {
		return
	}
	stats := v.collector.Flush(n, v.Camera.Time)
	if v.output == nil {
		return
	}
	if err := v.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := v.output.WritePerf(v.perf.Stats(), n); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

func (v *View) selectionChanged(w *worlds.World) {
	var e telemetry.Event
	if w != nil {
		e = telemetry.NewSelectEvent(v.frame(), v.Camera.Time, w.ID, w.Title)
	} else {
		e = telemetry.NewDeselectEvent(v.frame(), v.Camera.Time)
	}
	v.record(e)
	if v.OnSelect != nil {
		v.OnSelect(w)
	}
}

// recordFlight logs a flight if the camera is heading somewhere.
func (v *View) recordFlight() {
	if !v.Camera.Flying() {
		return
	}
	e := telemetry.NewFlyToEvent(v.frame(), v.Camera.Time, "", "")
	if w, _ := v.overlay.Selected(); w != nil {
		e.WorldID, e.Title = w.ID, w.Title
	}
	v.record(e)
}

func (v *View) record(e telemetry.Event) {
	v.collector.Record(e)
	if err := v.output.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

func (v *View) frame() uint64 {
	return v.frames
}

// target adapts the overlay to the input controller and notes flights
// started by clicks.
type target struct{ v *View }

func (t target) HitTest(p geom.Vec2) int { return t.v.overlay.HitTest(p) }
func (t target) SetHover(i int) bool     { return t.v.overlay.SetHover(i) }

func (t target) Click(i int, cam *camera.Camera) {
	prev, wasFlying := cam.Target()
	t.v.overlay.Click(i, cam)
	if next, flying := cam.Target(); flying && (!wasFlying || next != prev) {
		e := telemetry.NewFlyToEvent(t.v.frame(), cam.Time, "", "")
		if i < t.v.scene.Len() {
			w := t.v.scene.Entities[i].World
			e.WorldID, e.Title = w.ID, w.Title
		}
		t.v.record(e)
	}
}

// Perf returns frame timing over the current perf window.
func (v *View) Perf() telemetry.PerfStats {
	return v.perf.Stats()
}
