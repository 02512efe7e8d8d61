// Package app runs a view in a raylib window with the detail, controls,
// status and performance panels around it.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/config"
	"github.com/pthm-cable/orbits/frame"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/input"
	"github.com/pthm-cable/orbits/media"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/telemetry"
	"github.com/pthm-cable/orbits/ui"
	"github.com/pthm-cable/orbits/viewer"
	"github.com/pthm-cable/orbits/worlds"
)

const keyLegend = "drag rotate  [Tab] next  [Esc] close  [M] mode  [S] snapshot"

var phases = []string{telemetry.PhaseUpdate, telemetry.PhaseRender, telemetry.PhaseOverlays, telemetry.PhaseUI}

// Options configures a windowed run.
type Options struct {
	Worlds      []worlds.World
	Output      *telemetry.OutputManager
	SnapshotDir string
	MaxFrames   uint64 // 0 = unlimited
}

// App owns the window-side state of one view.
type App struct {
	cfg  *config.Config
	opts Options

	sched   *frame.Manual
	surface *Surface
	view    *viewer.View

	panels   *ui.PanelRegistry
	detail   *ui.DetailPanel
	controls *ui.ControlsPanel
	hud      *ui.HUD
	perf     *ui.PerfPanel

	width, height int32
	lastMouse     rl.Vector2
	onScreen      bool
	pressed       bool
}

// New creates the app. The raylib window must already be open.
func New(cfg *config.Config, opts Options) *App {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	theme := ui.DefaultTheme(cfg.Derived.Ink, cfg.Derived.Paper, cfg.Derived.Accent)

	a := &App{
		cfg:      cfg,
		opts:     opts,
		sched:    &frame.Manual{},
		surface:  NewSurface(w, h),
		panels:   ui.NewPanelRegistry(),
		detail:   ui.NewDetailPanel(theme, media.NewThumbnails(cfg.Media.ImageDir, cfg.Media.ThumbWidth, cfg.Media.ThumbHeight)),
		controls: ui.NewControlsPanel(theme, cfg.View.MinZoom, cfg.View.MaxZoom, cfg.View.MinSpeed, cfg.View.MaxSpeed),
		hud:      ui.NewHUD(theme),
		perf:     ui.NewPerfPanel(theme, 16, 100),
		width:    w,
		height:   h,
	}

	a.view = viewer.New(viewer.FromConfig(cfg), a.surface, a.sched)
	a.view.SetOutput(opts.Output)
	a.view.SetWorlds(opts.Worlds)
	a.view.OnSelect = a.detail.Show
	a.view.AfterFrame = a.drawPanels
	a.view.Inspector().Visible = a.panels.IsEnabled(ui.PanelInspector)
	a.view.Resize(float64(w), float64(h), dpr())
	return a
}

func dpr() float64 {
	s := rl.GetWindowScaleDPI()
	if s.X <= 0 {
		return 1
	}
	return float64(s.X)
}

// Run mounts the view and drives it until the window closes.
func (a *App) Run() {
	a.view.Mount()
	defer a.view.Unmount()

	for !rl.WindowShouldClose() {
		a.handleResize()
		a.handleKeys()
		a.handlePointer()

		rl.BeginDrawing()
		a.sched.Step()
		rl.EndDrawing()

		a.updateCursor()

		if a.opts.MaxFrames > 0 && a.view.Frames() >= a.opts.MaxFrames {
			slog.Info("max frames reached", "frame", a.view.Frames())
			return
		}
	}
}

// Unload releases GPU resources.
func (a *App) Unload() {
	a.detail.Unload()
	a.surface.Unload()
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == a.width && h == a.height {
		return
	}
	a.width, a.height = w, h
	a.surface.Resize(w, h)
	a.view.Resize(float64(w), float64(h), dpr())
}

func (a *App) handleKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		switch key {
		case rl.KeyTab:
			a.view.FlyToNext()
		case rl.KeyEscape:
			a.view.Deselect()
		case rl.KeyM:
			a.view.SetMode(scene.Mode((int(a.view.Mode()) + 1) % 3))
		case rl.KeyS:
			a.snapshot()
		case rl.KeyF11:
			rl.ToggleFullscreen()
		default:
			id, on, ok := a.panels.HandleKeyPress(key)
			if !ok {
				continue
			}
			switch id {
			case ui.PanelInspector:
				a.view.Inspector().Visible = on
			case ui.PanelControls:
				a.controls.SetVisible(on)
			}
		}
	}
}

// overPanel reports whether p is over a panel that takes pointer input
// away from the scene.
func (a *App) overPanel(p rl.Vector2) bool {
	return a.detail.Contains(p, a.width, a.height) ||
		(!a.detail.Open() && a.controls.Contains(p, a.height))
}

func (a *App) handlePointer() {
	in := a.view.Input()
	m := rl.GetMousePosition()
	p := geom.Vec2{X: float64(m.X), Y: float64(m.Y)}

	// Leaving the scene ends any gesture, including a drag in progress.
	onScreen := rl.IsCursorOnScreen() && !a.overPanel(m)
	if onScreen != a.onScreen {
		a.onScreen = onScreen
		if onScreen {
			in.Enter(input.Mouse)
		} else {
			a.pressed = false
			in.Leave()
		}
	}

	if m != a.lastMouse {
		a.lastMouse = m
		if onScreen {
			in.Move(p, input.Mouse, 0)
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && onScreen {
		a.pressed = true
		in.Down(p, input.Mouse, 0)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && a.pressed {
		a.pressed = false
		in.Up(p, 0)
	}
}

func (a *App) updateCursor() {
	if !a.onScreen {
		return
	}
	switch a.view.Input().Cursor() {
	case input.CursorPointer:
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	case input.CursorGrab, input.CursorGrabbing:
		rl.SetMouseCursor(rl.MouseCursorResizeAll)
	default:
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}

// drawPanels runs inside the view's frame, after the overlays.
func (a *App) drawPanels() {
	if a.detail.Draw(a.width, a.height) {
		a.view.Deselect()
	}

	if !a.detail.Open() {
		cam := a.view.Camera
		zoom, speed := a.controls.Draw(a.height, cam.Zoom, cam.Speed)
		if zoom != cam.Zoom {
			a.view.SetZoom(zoom)
		}
		if speed != cam.Speed {
			a.view.SetSpeed(speed)
		}
	}

	if a.panels.IsEnabled(ui.PanelHUD) {
		data := ui.HUDData{
			Title:  a.cfg.Screen.Title,
			Mode:   a.view.Mode().String(),
			Worlds: len(a.opts.Worlds),
			Frame:  a.view.Frames(),
			FPS:    rl.GetFPS(),
			Zoom:   a.view.Camera.Zoom,
			Speed:  a.view.Camera.Speed,
		}
		if w := a.view.Selected(); w != nil {
			data.Selected = w.Title
		}
		a.hud.Draw(data)
	}
	if a.panels.IsEnabled(ui.PanelPerf) {
		a.perf.Draw(a.view.Perf(), phases)
	}
	if a.panels.IsEnabled(ui.PanelLegend) && !a.detail.Open() {
		a.hud.DrawControls(a.width, a.height, a.panels.Legend(keyLegend))
	}
}

func (a *App) snapshot() {
	dir := a.opts.SnapshotDir
	if dir == "" {
		dir = "."
	}
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)

	path := filepath.Join(dir, fmt.Sprintf("orbits-%s.webp", time.Now().Format("20060102-150405")))
	if err := media.SaveSnapshot(path, img.ToImage()); err != nil {
		slog.Error("snapshot failed", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", a.view.Frames())
}
