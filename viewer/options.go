package viewer

import (
	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/config"
	"github.com/pthm-cable/orbits/overlay"
	"github.com/pthm-cable/orbits/renderer"
	"github.com/pthm-cable/orbits/scene"
)

// Options configures a View.
type Options struct {
	Mode scene.Mode

	OrbitCamera  camera.Params
	SphereCamera camera.Params
	InitialPitch float64
	Zoom         float64
	Speed        float64

	Scene   scene.Options
	Orbit   renderer.Style
	Sphere  renderer.Style
	Globe   renderer.GlobeStyle
	Overlay overlay.Options

	DeadZone float64

	// Telemetry
	PerfWindow int    // frames per perf/activity window
	LogEvery   uint64 // frames between perf log lines, 0 disables
}

// DefaultOptions returns the stock view.
func DefaultOptions() Options {
	return Options{
		Mode:         scene.ModeOrbit,
		OrbitCamera:  camera.OrbitParams(),
		SphereCamera: camera.SphereParams(),
		InitialPitch: 0.3,
		Zoom:         1,
		Speed:        1,
		Scene:        scene.DefaultOptions(),
		Orbit:        renderer.OrbitStyle(),
		Sphere:       renderer.SphereStyle(),
		Globe:        renderer.DefaultGlobeStyle(),
		Overlay:      overlay.DefaultOptions(),
		DeadZone:     4,
		PerfWindow:   120,
	}
}

// CameraParams returns the camera feel for mode.
func (o *Options) CameraParams(m scene.Mode) camera.Params {
	switch m {
	case scene.ModeOrbit:
		return o.OrbitCamera
	case scene.ModeText:
		return camera.TextParams(o.SphereCamera)
	}
	return o.SphereCamera
}

func cameraParams(v config.ViewConfig, m config.MotionConfig) camera.Params {
	return camera.Params{
		AutoYaw:       m.AutoYaw,
		AutoPitch:     m.AutoPitch,
		Decay:         m.Decay,
		Sensitivity:   m.Sensitivity,
		VelocityGain:  m.VelocityGain,
		VelocityBlend: m.VelocityBlend,
		FlyEase:       v.FlyEase,
		FlyEpsilon:    v.FlyEpsilon,
		FlyLift:       m.FlyLift,
		MomentumRest:  v.MomentumRest,
		MinZoom:       v.MinZoom,
		MaxZoom:       v.MaxZoom,
		MinSpeed:      v.MinSpeed,
		MaxSpeed:      v.MaxSpeed,
	}
}

// FromConfig builds view options from a loaded configuration. The mode
// comes from view.mode; an invalid one was already rejected by config.Load.
func FromConfig(cfg *config.Config) Options {
	o := DefaultOptions()
	d := &cfg.Derived

	o.Mode, _ = scene.ParseMode(cfg.View.Mode)
	o.OrbitCamera = cameraParams(cfg.View, cfg.Orbit.Motion)
	o.SphereCamera = cameraParams(cfg.View, cfg.Sphere.Motion)
	o.InitialPitch = cfg.View.InitialPitch
	o.Zoom = cfg.View.Zoom
	o.Speed = cfg.View.Speed

	o.Scene = scene.Options{
		Placements:  d.Placements,
		Motion:      d.Motion,
		PoleEpsilon: cfg.Sphere.PoleEpsilon,
	}
	if !cfg.TextGlobe.UseWorldTitles {
		o.Scene.Words = cfg.TextGlobe.Words
	}

	oc, sc, ov := &cfg.Orbit, &cfg.Sphere, &cfg.Overlay
	o.Orbit.Ink, o.Orbit.Paper = d.Ink, d.Paper
	o.Orbit.PathSegments = oc.PathSegments
	o.Orbit.PathOpacityMin = oc.PathOpacityMin
	o.Orbit.PathOpacityRange = oc.PathOpacityRange
	o.Orbit.MarkerOpacityMin = oc.MarkerOpacityMin
	o.Orbit.ScaleMin = oc.ScaleMin
	o.Orbit.ScaleRange = oc.ScaleRange
	o.Orbit.MarkerRadius = ov.MarkerRadius
	o.Orbit.SelectedRadius = ov.SelectedRadius
	o.Orbit.Scale = camera.ScaleRule{WideAspect: oc.WideAspect, WideScale: oc.WideScale, TallScale: oc.TallScale}

	o.Sphere.Ink, o.Sphere.Paper = d.Ink, d.Paper
	o.Sphere.GridStep = sc.GridStep
	o.Sphere.SegmentStep = sc.SegmentStep
	o.Sphere.LineOpacityMin = sc.LineOpacityMin
	o.Sphere.LineOpacityRange = sc.LineOpacityRange
	o.Sphere.MarkerOpacityMin = sc.MarkerOpacityMin
	o.Sphere.ScaleMin = sc.ScaleMin
	o.Sphere.ScaleRange = sc.ScaleRange
	o.Sphere.MarkerRadius = ov.MarkerRadius
	o.Sphere.SelectedRadius = ov.SelectedRadius
	o.Sphere.Scale = camera.ScaleRule{Uniform: sc.RadiusFraction}

	tg := &cfg.TextGlobe
	o.Globe = renderer.GlobeStyle{
		Lines:        tg.Lines,
		Spread:       tg.Spread,
		FontSize:     tg.FontSize,
		Speed:        tg.Speed,
		HoverFactor:  tg.HoverFactor,
		Easing:       tg.Easing,
		ScrollFactor: tg.ScrollFactor,
		MinSlice:     tg.MinSlice,
		OpacityExp:   tg.OpacityExp,
		MinOpacity:   tg.MinOpacity,
		Separator:    tg.Separator,
		Scale:        camera.ScaleRule{Uniform: sc.RadiusFraction},
	}

	o.Overlay.LabelOffset = ov.LabelOffset
	o.Overlay.FontSize = ov.LabelFontSize
	o.Overlay.Padding = ov.LabelPadding
	o.Overlay.HoverScale = ov.HoverScale
	o.Overlay.SelectedScale = ov.SelectedScale
	o.Overlay.FlyOnSelect = ov.FlyOnSelect
	o.Overlay.Ink, o.Overlay.Paper = d.Ink, d.Paper

	o.DeadZone = cfg.Input.DeadZone
	o.PerfWindow = cfg.Telemetry.PerfWindow
	if cfg.Telemetry.LogInterval > 0 && cfg.Screen.TargetFPS > 0 {
		o.LogEvery = uint64(cfg.Telemetry.LogInterval * float64(cfg.Screen.TargetFPS))
	}
	return o
}
