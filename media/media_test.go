package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
	"github.com/pthm-cable/orbits/scene"
	"github.com/pthm-cable/orbits/worlds"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: 255})
		}
	}
	return img
}

func TestDecodeFormats(t *testing.T) {
	src := testImage(16, 8)

	encoders := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{"tga", func(b *bytes.Buffer) error { return tga.Encode(b, src) }},
		{"webp", func(b *bytes.Buffer) error { return EncodeWebP(b, src) }},
	}
	for _, e := range encoders {
		t.Run(e.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := e.encode(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			img, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if format != e.format {
				t.Errorf("format = %q, want %q", format, e.format)
			}
			if img.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", img.Bounds(), src.Bounds())
			}
			if got, want := img.NRGBAAt(5, 3), src.NRGBAAt(5, 3); got != want {
				t.Errorf("pixel = %v, want %v", got, want)
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected an error")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{400, 200, 100, 100, 100, 50},
		{200, 400, 100, 100, 50, 100},
		{80, 60, 100, 100, 80, 60},
		{1000, 10, 100, 100, 100, 1},
	}
	for _, tt := range tests {
		got := Fit(testImage(tt.w, tt.h), tt.maxW, tt.maxH).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("Fit(%dx%d in %dx%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve("https://example.org/a.png", "/img"); !errors.Is(err, ErrRemote) {
		t.Errorf("remote err = %v", err)
	}
	if got, _ := Resolve("a.png", "/img"); got != filepath.Join("/img", "a.png") {
		t.Errorf("relative = %q", got)
	}
	if got, _ := Resolve("file:///x/b.webp", "/img"); got != "/x/b.webp" {
		t.Errorf("file url = %q", got)
	}
	if _, err := Resolve("  ", "/img"); err == nil {
		t.Error("empty ref should fail")
	}
}

func TestThumbnailsCacheFailures(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "ok.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage(300, 150)); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	th := NewThumbnails(dir, 120, 120)
	img := th.Get("ok.png")
	if img == nil || img.Bounds().Dx() != 120 || img.Bounds().Dy() != 60 {
		t.Fatalf("thumbnail = %v", img)
	}
	if th.Get("ok.png") != img {
		t.Error("second lookup should hit the cache")
	}
	if th.Get("bad.png") != nil || th.Get("missing.png") != nil {
		t.Error("broken images should yield nil")
	}
	if th.Get("") != nil {
		t.Error("empty ref should yield nil")
	}
	if th.Len() != 3 {
		t.Errorf("cached %d refs, want 3", th.Len())
	}
}

func TestSaveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "frame.webp")
	if err := SaveSnapshot(path, testImage(32, 32)); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestCanvasShapes(t *testing.T) {
	c, err := NewCanvas(100, 60)
	if err != nil {
		t.Fatal(err)
	}
	paper := color.RGBA{R: 245, G: 240, B: 232, A: 255}
	ink := color.RGBA{R: 26, G: 26, B: 26, A: 255}

	c.Clear(paper)
	if got := c.Image().RGBAAt(50, 30); got != paper {
		t.Fatalf("clear = %v", got)
	}

	c.FillCircle(geom.Vec2{X: 20, Y: 20}, 6, ink)
	if got := c.Image().RGBAAt(20, 20); got != ink {
		t.Errorf("circle center = %v", got)
	}
	if got := c.Image().RGBAAt(40, 20); got != paper {
		t.Errorf("outside circle = %v", got)
	}

	c.StrokeLine(geom.Vec2{X: 0, Y: 50.5}, geom.Vec2{X: 100, Y: 50.5}, 3, ink)
	if got := c.Image().RGBAAt(70, 50); got != ink {
		t.Errorf("line = %v", got)
	}

	c.FillPill(geom.Rect{X: 60, Y: 5, W: 30, H: 12}, ink)
	if got := c.Image().RGBAAt(75, 11); got != ink {
		t.Errorf("pill = %v", got)
	}
	if got := c.Image().RGBAAt(60, 5); got == ink {
		t.Error("pill corner should be rounded")
	}
}

func TestCanvasText(t *testing.T) {
	c, err := NewCanvas(200, 40)
	if err != nil {
		t.Fatal(err)
	}
	short, long := c.MeasureText("TASH", 12), c.MeasureText("TASH55", 12)
	if short <= 0 || long <= short {
		t.Errorf("measure = %v, %v", short, long)
	}
	if big := c.MeasureText("TASH", 24); big <= short*1.8 {
		t.Errorf("measure does not scale with size: %v vs %v", big, short)
	}

	c.Clear(color.RGBA{A: 255})
	c.DrawText("WWWW", geom.Vec2{X: 4, Y: 4}, 16, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if lit := countBright(c.Image(), image.Rect(0, 0, 60, 30)); lit == 0 {
		t.Error("text drew no pixels")
	}
}

func countBright(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).R > 128 {
				n++
			}
		}
	}
	return n
}

func TestCanvasRendersScene(t *testing.T) {
	for _, mode := range []scene.Mode{scene.ModeOrbit, scene.ModeSphere, scene.ModeText} {
		t.Run(mode.String(), func(t *testing.T) {
			c, err := NewCanvas(320, 200)
			if err != nil {
				t.Fatal(err)
			}
			sc := scene.Build(worlds.Default(), mode, scene.DefaultOptions())
			cam := camera.New(camera.OrbitParams(), 0.3, 1, 1)
			vp := camera.NewViewport(320, 200, 1)
			r := renderer.New(renderer.OrbitStyle(), renderer.SphereStyle(), nil)
			r.Globe.SetTexts([]string{"TOPIA", "WORLD", "BUILDERS"})

			r.Render(c, cam, sc, vp, -1)

			paper := c.Image().RGBAAt(0, 0)
			changed := 0
			b := c.Image().Bounds()
			for y := 0; y < b.Dy(); y++ {
				for x := 0; x < b.Dx(); x++ {
					if c.Image().RGBAAt(x, y) != paper {
						changed++
					}
				}
			}
			if changed < 100 {
				t.Errorf("only %d pixels differ from the background", changed)
			}
		})
	}
}
