// Orbit tuning tool - interactive orbit view with sliders for the motion
// and camera feel.
//
// Usage: go run ./cmd/orbitpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/app"
	"github.com/pthm-cable/orbits/config"
	"github.com/pthm-cable/orbits/frame"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/input"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/viewer"
	"github.com/pthm-cable/orbits/worlds"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	previewWidth = 800
	panelWidth   = windowWidth - previewWidth - 30
)

// OrbitParams holds the tunable values.
type OrbitParams struct {
	Ellipse     float32
	BaseSpeed   float32
	RadiusGain  float32
	WideScale   float32
	AutoYaw     float32
	Sensitivity float32
	Decay       float32
}

func fromConfig(cfg *config.Config) OrbitParams {
	return OrbitParams{
		Ellipse:     float32(cfg.Orbit.Ellipse),
		BaseSpeed:   float32(cfg.Orbit.BaseSpeed),
		RadiusGain:  float32(cfg.Orbit.RadiusGain),
		WideScale:   float32(cfg.Orbit.WideScale),
		AutoYaw:     float32(cfg.Orbit.Motion.AutoYaw),
		Sensitivity: float32(cfg.Orbit.Motion.Sensitivity),
		Decay:       float32(cfg.Orbit.Motion.Decay),
	}
}

func (p OrbitParams) apply(o *viewer.Options) {
	o.Mode = scene.ModeOrbit
	o.Scene.Motion = geom.OrbitMotion{
		Ellipse:    float64(p.Ellipse),
		BaseSpeed:  float64(p.BaseSpeed),
		RadiusGain: float64(p.RadiusGain),
	}
	o.Orbit.Scale.WideScale = float64(p.WideScale)
	o.OrbitCamera.AutoYaw = float64(p.AutoYaw)
	o.OrbitCamera.Sensitivity = float64(p.Sensitivity)
	o.OrbitCamera.Decay = float64(p.Decay)
}

func (p OrbitParams) yaml() string {
	return fmt.Sprintf(`orbit:
  ellipse: %.2f
  base_speed: %.5f
  radius_gain: %.2f
  wide_scale: %.2f
  motion:
    auto_yaw: %.5f
    sensitivity: %.4f
    decay: %.3f`,
		p.Ellipse, p.BaseSpeed, p.RadiusGain, p.WideScale, p.AutoYaw, p.Sensitivity, p.Decay)
}

// preview is the view being tuned plus its scheduler.
type preview struct {
	sched   *frame.Manual
	surface *app.Surface
	view    *viewer.View
}

func newPreview(cfg *config.Config, ws []worlds.World, params OrbitParams, prev *viewer.View) *preview {
	opts := viewer.FromConfig(cfg)
	params.apply(&opts)

	p := &preview{sched: &frame.Manual{}, surface: app.NewSurface(previewWidth, windowHeight)}
	p.view = viewer.New(opts, p.surface, p.sched)
	p.view.SetWorlds(ws)
	if prev != nil {
		prev.Unmount()
		p.view.Camera.Rotation = prev.Camera.Rotation
		p.view.Camera.Time = prev.Camera.Time
	}
	p.view.Mount()
	return p
}

// slider draws one labelled slider and returns the new value.
func slider(x, y *float32, label, loText, hiText string, value, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(*x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: *x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		loText, hiText, value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(*x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	ws := worlds.LoadOrDefault(cfg.Worlds.Source)

	rl.InitWindow(windowWidth, windowHeight, "Orbit Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := fromConfig(cfg)
	pv := newPreview(cfg, ws, params, nil)
	defer func() { pv.surface.Unload() }()

	pressed := false

	for !rl.WindowShouldClose() {
		// Pointer input into the preview area
		in := pv.view.Input()
		m := rl.GetMousePosition()
		p := geom.Vec2{X: float64(m.X), Y: float64(m.Y)}
		inPreview := m.X < previewWidth
		if inPreview {
			in.Move(p, input.Mouse, 0)
		} else if pressed {
			// leaving the preview ends the drag
			pressed = false
			in.Leave()
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && inPreview {
			pressed = true
			in.Down(p, input.Mouse, 0)
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) && pressed {
			pressed = false
			in.Up(p, 0)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		pv.sched.Step()
		rl.EndScissorMode()
		rl.DrawLine(previewWidth, 0, previewWidth, windowHeight, rl.LightGray)

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)
		next := params

		rl.DrawText("Orbit Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		next.Ellipse = slider(&panelX, &panelY, "Ellipse (z flattening)", "0.3", "1.0", params.Ellipse, 0.3, 1.0, "%.2f")
		next.BaseSpeed = slider(&panelX, &panelY, "Base speed (rad per frame)", "0", "0.002", params.BaseSpeed, 0, 0.002, "%.5f")
		next.RadiusGain = slider(&panelX, &panelY, "Radius gain (outer orbits faster)", "0", "2", params.RadiusGain, 0, 2, "%.2f")
		next.WideScale = slider(&panelX, &panelY, "Wide scale (fraction of width)", "0.4", "1.2", params.WideScale, 0.4, 1.2, "%.2f")

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15
		rl.DrawText("Camera", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		next.AutoYaw = slider(&panelX, &panelY, "Auto yaw", "0", "0.005", params.AutoYaw, 0, 0.005, "%.5f")
		next.Sensitivity = slider(&panelX, &panelY, "Drag sensitivity", "0.001", "0.02", params.Sensitivity, 0.001, 0.02, "%.4f")
		next.Decay = slider(&panelX, &panelY, "Momentum decay", "0.8", "0.99", params.Decay, 0.8, 0.99, "%.3f")

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next World") {
			pv.view.FlyToNext()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			next = fromConfig(config.Default())
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := params.yaml()
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()

		if next != params {
			params = next
			pv.surface.Unload()
			pv = newPreview(cfg, ws, params, pv.view)
		}
	}
}
