package config

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.Mode != "orbit" {
		t.Errorf("default mode = %q", cfg.View.Mode)
	}
	if len(cfg.Derived.Placements) != 12 {
		t.Fatalf("expected 12 placements, got %d", len(cfg.Derived.Placements))
	}
	p := cfg.Derived.Placements[1]
	if p.Radius != 0.38 || math.Abs(p.Tilt-(-6*math.Pi/180)) > 1e-12 || math.Abs(p.Rotation-math.Pi/6) > 1e-12 {
		t.Errorf("placement 1 = %+v", p)
	}
	if cfg.Derived.Motion.Ellipse != 0.85 || cfg.Derived.Motion.BaseSpeed != 0.0003 {
		t.Errorf("motion = %+v", cfg.Derived.Motion)
	}
	if cfg.Derived.Ink != (color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}) {
		t.Errorf("ink = %+v", cfg.Derived.Ink)
	}
	if cfg.Orbit.PathSegments != 48 || cfg.Sphere.Motion.Decay != 0.95 {
		t.Errorf("unexpected defaults: segments %d, sphere decay %f", cfg.Orbit.PathSegments, cfg.Sphere.Motion.Decay)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("view:\n  mode: sphere\n  zoom: 0.5\npalette:\n  ink: \"#ff000080\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.Mode != "sphere" || cfg.View.Zoom != 0.5 {
		t.Errorf("overlay not applied: %+v", cfg.View)
	}
	if cfg.View.MaxZoom != 1.2 {
		t.Errorf("untouched default lost: max_zoom = %f", cfg.View.MaxZoom)
	}
	if cfg.Derived.Ink != (color.RGBA{R: 0xff, A: 0x80}) {
		t.Errorf("ink = %+v", cfg.Derived.Ink)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"mode":    "view:\n  mode: cube\n",
		"color":   "palette:\n  paper: \"#12\"\n",
		"range":   "view:\n  min_zoom: 2\n",
		"missing": "",
	}
	dir := t.TempDir()
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			if name != "missing" {
				if err := os.WriteFile(path, []byte(body), 0644); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.View.Speed = 1.75
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.View.Speed != 1.75 {
		t.Errorf("speed = %f", back.View.Speed)
	}
}

func TestInitAndCfg(t *testing.T) {
	defer func() { global = nil }()
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Screen.Width != 1280 {
		t.Errorf("width = %d", Cfg().Screen.Width)
	}
}
