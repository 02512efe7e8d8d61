// Package config provides configuration loading and access for the viewer.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/orbits/geom"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all viewer configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	View      ViewConfig      `yaml:"view"`
	Orbit     OrbitConfig     `yaml:"orbit"`
	Sphere    SphereConfig    `yaml:"sphere"`
	TextGlobe TextGlobeConfig `yaml:"text_globe"`
	Palette   PaletteConfig   `yaml:"palette"`
	Input     InputConfig     `yaml:"input"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Worlds    WorldsConfig    `yaml:"worlds"`
	Media     MediaConfig     `yaml:"media"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ViewConfig holds camera defaults shared by every placement mode.
type ViewConfig struct {
	Mode         string  `yaml:"mode"`
	InitialPitch float64 `yaml:"initial_pitch"`
	Zoom         float64 `yaml:"zoom"`
	Speed        float64 `yaml:"speed"`
	MinZoom      float64 `yaml:"min_zoom"`
	MaxZoom      float64 `yaml:"max_zoom"`
	MinSpeed     float64 `yaml:"min_speed"`
	MaxSpeed     float64 `yaml:"max_speed"`
	FlyEase      float64 `yaml:"fly_ease"`
	FlyEpsilon   float64 `yaml:"fly_epsilon"`
	MomentumRest float64 `yaml:"momentum_rest"`
}

// MotionConfig holds the per-mode rotation feel.
type MotionConfig struct {
	AutoYaw       float64 `yaml:"auto_yaw"`
	AutoPitch     float64 `yaml:"auto_pitch"`
	Decay         float64 `yaml:"decay"`
	Sensitivity   float64 `yaml:"sensitivity"`
	VelocityGain  float64 `yaml:"velocity_gain"`
	VelocityBlend float64 `yaml:"velocity_blend"`
	FlyLift       float64 `yaml:"fly_lift"`
}

// PlacementConfig is one orbit descriptor with angles in degrees.
type PlacementConfig struct {
	Radius   float64 `yaml:"radius"`
	Tilt     float64 `yaml:"tilt"`
	Rotation float64 `yaml:"rotation"`
}

// OrbitConfig holds independent-orbit mode parameters.
type OrbitConfig struct {
	Motion           MotionConfig      `yaml:"motion"`
	Ellipse          float64           `yaml:"ellipse"`
	BaseSpeed        float64           `yaml:"base_speed"`
	RadiusGain       float64           `yaml:"radius_gain"`
	PathSegments     int               `yaml:"path_segments"`
	PathOpacityMin   float64           `yaml:"path_opacity_min"`
	PathOpacityRange float64           `yaml:"path_opacity_range"`
	MarkerOpacityMin float64           `yaml:"marker_opacity_min"`
	ScaleMin         float64           `yaml:"scale_min"`
	ScaleRange       float64           `yaml:"scale_range"`
	WideAspect       float64           `yaml:"wide_aspect"` // above this, scale from width
	WideScale        float64           `yaml:"wide_scale"`
	TallScale        float64           `yaml:"tall_scale"`
	Placements       []PlacementConfig `yaml:"placements"`
}

// SphereConfig holds golden-spiral globe parameters.
type SphereConfig struct {
	Motion           MotionConfig `yaml:"motion"`
	PoleEpsilon      float64      `yaml:"pole_epsilon"`
	RadiusFraction   float64      `yaml:"radius_fraction"`
	GridStep         float64      `yaml:"grid_step"`
	SegmentStep      float64      `yaml:"segment_step"`
	LineOpacityMin   float64      `yaml:"line_opacity_min"`
	LineOpacityRange float64      `yaml:"line_opacity_range"`
	MarkerOpacityMin float64      `yaml:"marker_opacity_min"`
	ScaleMin         float64      `yaml:"scale_min"`
	ScaleRange       float64      `yaml:"scale_range"`
}

// TextGlobeConfig holds the scrolling text-strip globe parameters.
type TextGlobeConfig struct {
	Words          []string `yaml:"words"`
	UseWorldTitles bool     `yaml:"use_world_titles"`
	Lines          int      `yaml:"lines"`
	Spread         float64  `yaml:"spread"`
	FontSize       float64  `yaml:"font_size"`
	Speed          float64  `yaml:"speed"`
	HoverFactor    float64  `yaml:"hover_factor"`
	Easing         float64  `yaml:"easing"`
	ScrollFactor   float64  `yaml:"scroll_factor"`
	MinSlice       float64  `yaml:"min_slice"`
	OpacityExp     float64  `yaml:"opacity_exponent"`
	MinOpacity     float64  `yaml:"min_opacity"`
	Separator      string   `yaml:"separator"`
}

// PaletteConfig holds hex colors.
type PaletteConfig struct {
	Ink    string `yaml:"ink"`
	Paper  string `yaml:"paper"`
	Accent string `yaml:"accent"`
}

// InputConfig holds pointer handling parameters.
type InputConfig struct {
	DeadZone float64 `yaml:"dead_zone"`
}

// OverlayConfig holds marker and label styling.
type OverlayConfig struct {
	MarkerRadius   float64 `yaml:"marker_radius"`
	SelectedRadius float64 `yaml:"selected_radius"`
	LabelOffset    float64 `yaml:"label_offset"`
	LabelFontSize  float64 `yaml:"label_font_size"`
	HoverScale     float64 `yaml:"hover_scale"`
	SelectedScale  float64 `yaml:"selected_scale"`
	LabelPadding   float64 `yaml:"label_padding"`
	FlyOnSelect    bool    `yaml:"fly_on_select"`
}

// WorldsConfig holds the world list source.
type WorldsConfig struct {
	Source string `yaml:"source"`
}

// MediaConfig holds world image and snapshot settings.
type MediaConfig struct {
	ImageDir    string `yaml:"image_dir"` // base for relative image references
	ThumbWidth  int    `yaml:"thumb_width"`
	ThumbHeight int    `yaml:"thumb_height"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`
	LogInterval float64 `yaml:"log_interval"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Placements []geom.Orbit     // Orbit.Placements in radians
	Motion     geom.OrbitMotion // Orbit.Ellipse/BaseSpeed/RadiusGain
	Ink        color.RGBA
	Paper      color.RGBA
	Accent     color.RGBA
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) computeDerived() error {
	switch c.View.Mode {
	case "orbit", "sphere", "text":
	default:
		return fmt.Errorf("view.mode: unknown mode %q", c.View.Mode)
	}
	if len(c.Orbit.Placements) == 0 {
		return fmt.Errorf("orbit.placements: at least one placement required")
	}
	if c.View.MinZoom > c.View.MaxZoom || c.View.MinSpeed > c.View.MaxSpeed {
		return fmt.Errorf("view: inverted zoom or speed range")
	}

	c.Derived.Placements = make([]geom.Orbit, len(c.Orbit.Placements))
	for i, p := range c.Orbit.Placements {
		c.Derived.Placements[i] = geom.Orbit{
			Radius:   p.Radius,
			Tilt:     geom.Deg(p.Tilt),
			Rotation: geom.Deg(p.Rotation),
		}
	}
	c.Derived.Motion = geom.OrbitMotion{
		Ellipse:    c.Orbit.Ellipse,
		BaseSpeed:  c.Orbit.BaseSpeed,
		RadiusGain: c.Orbit.RadiusGain,
	}

	var err error
	if c.Derived.Ink, err = ParseHex(c.Palette.Ink); err != nil {
		return fmt.Errorf("palette.ink: %w", err)
	}
	if c.Derived.Paper, err = ParseHex(c.Palette.Paper); err != nil {
		return fmt.Errorf("palette.paper: %w", err)
	}
	if c.Derived.Accent, err = ParseHex(c.Palette.Accent); err != nil {
		return fmt.Errorf("palette.accent: %w", err)
	}
	return nil
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
