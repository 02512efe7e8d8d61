package media

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
)

var _ renderer.Surface = (*Canvas)(nil)

// Canvas is a software Surface backed by an RGBA image. It serves headless
// runs and snapshot export. Shapes are antialiased with x/image/vector and
// text is set in Go Mono.
type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer

	font    *opentype.Font
	faces   map[int]font.Face // keyed by half-pixel size
	scratch *image.NRGBA
}

// NewCanvas creates a w×h canvas.
func NewCanvas(w, h int) (*Canvas, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, err
	}
	c := &Canvas{font: f, faces: make(map[int]font.Face)}
	c.Resize(w, h)
	return c, nil
}

// Resize reallocates the backing image. Contents are dropped.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.z = vector.NewRasterizer(w, h)
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Size() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func uniform(col color.RGBA) *image.Uniform {
	return image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A})
}

func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), uniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) begin() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *Canvas) fill(col color.RGBA) {
	if col.A == 0 {
		return
	}
	c.z.Draw(c.img, c.img.Bounds(), uniform(col), image.Point{})
}

// segment adds a closed quad covering a→b at the given width. All quads
// share one winding so overlaps merge.
func (c *Canvas) segment(a, b geom.Vec2, width float64) {
	d := b.Sub(a)
	l := math.Sqrt(d.Len2())
	if l == 0 {
		return
	}
	hw := math.Max(width, 1) / 2
	nx, ny := -d.Y/l*hw, d.X/l*hw
	c.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	c.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	c.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	c.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	c.z.ClosePath()
}

func (c *Canvas) StrokeLine(a, b geom.Vec2, width float64, col color.RGBA) {
	c.begin()
	c.segment(a, b, width)
	c.fill(col)
}

func (c *Canvas) StrokePolyline(pts []geom.Vec2, width float64, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	c.begin()
	for i := 1; i < len(pts); i++ {
		c.segment(pts[i-1], pts[i], width)
	}
	c.fill(col)
}

// arc appends an arc around center from angle a0 to a1 to the open path.
func (c *Canvas) arc(center geom.Vec2, r, a0, a1 float64, steps int) {
	for k := 0; k <= steps; k++ {
		a := a0 + (a1-a0)*float64(k)/float64(steps)
		c.z.LineTo(float32(center.X+r*math.Cos(a)), float32(center.Y+r*math.Sin(a)))
	}
}

func (c *Canvas) FillCircle(center geom.Vec2, radius float64, col color.RGBA) {
	if radius <= 0 {
		return
	}
	steps := int(geom.Clamp(radius*1.5, 12, 64))
	c.begin()
	c.z.MoveTo(float32(center.X+radius), float32(center.Y))
	c.arc(center, radius, 0, 2*math.Pi, steps)
	c.z.ClosePath()
	c.fill(col)
}

func (c *Canvas) FillPill(r geom.Rect, col color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	rr := math.Min(r.W, r.H) / 2
	c.begin()
	c.z.MoveTo(float32(r.X+rr), float32(r.Y))
	c.arc(geom.Vec2{X: r.X + r.W - rr, Y: r.Y + rr}, rr, -math.Pi/2, 0, 6)
	c.arc(geom.Vec2{X: r.X + r.W - rr, Y: r.Y + r.H - rr}, rr, 0, math.Pi/2, 6)
	c.arc(geom.Vec2{X: r.X + rr, Y: r.Y + r.H - rr}, rr, math.Pi/2, math.Pi, 6)
	c.arc(geom.Vec2{X: r.X + rr, Y: r.Y + rr}, rr, math.Pi, 3*math.Pi/2, 6)
	c.z.ClosePath()
	c.fill(col)
}

// face returns Go Mono at size, rounded to half pixels.
func (c *Canvas) face(size float64) font.Face {
	key := int(math.Round(math.Max(size, 1) * 2))
	if f, ok := c.faces[key]; ok {
		return f
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    float64(key) / 2,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	c.faces[key] = f
	return f
}

func (c *Canvas) MeasureText(text string, size float64) float64 {
	f := c.face(size)
	if f == nil {
		return 0
	}
	return fix(font.MeasureString(f, text))
}

func (c *Canvas) DrawText(text string, topLeft geom.Vec2, size float64, col color.RGBA) {
	f := c.face(size)
	if f == nil || col.A == 0 {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  uniform(col),
		Face: f,
		Dot:  fixed.Point26_6{X: toFix(topLeft.X), Y: toFix(topLeft.Y) + f.Metrics().Ascent},
	}
	d.DrawString(text)
}

// DrawStripSlice sets the glyphs covering the source span into a scratch
// image at the strip's font size and scales that span into dst.
func (c *Canvas) DrawStripSlice(s *renderer.Strip, srcX, srcW float64, dst geom.Rect, col color.RGBA) {
	f := c.face(s.FontSize)
	if f == nil || srcW <= 0 || dst.W <= 0 || col.A == 0 {
		return
	}
	adv, ok := f.GlyphAdvance('0')
	if !ok || adv <= 0 {
		return
	}
	runes := []rune(s.Text)
	if len(runes) == 0 {
		return
	}

	step := fix(adv)
	first := int(math.Floor(srcX / step))
	count := int(math.Ceil(srcW/step)) + 2
	span := make([]rune, count)
	for k := range span {
		span[k] = runes[((first+k)%len(runes)+len(runes))%len(runes)]
	}

	sw, sh := int(math.Ceil(srcW)), int(math.Ceil(dst.H))
	if sw <= 0 || sh <= 0 {
		return
	}
	sr := image.Rect(0, 0, sw, sh)
	c.ensureScratch(sw, sh)
	draw.Draw(c.scratch, sr, image.Transparent, image.Point{}, draw.Src)

	m := f.Metrics()
	pad := (dst.H - fix(m.Ascent+m.Descent)) / 2
	d := font.Drawer{
		Dst:  c.scratch,
		Src:  uniform(col),
		Face: f,
		Dot:  fixed.Point26_6{X: toFix(float64(first)*step - srcX), Y: toFix(pad) + m.Ascent},
	}
	d.DrawString(string(span))

	dr := image.Rect(
		int(math.Floor(dst.X)), int(math.Floor(dst.Y)),
		int(math.Ceil(dst.X+dst.W)), int(math.Ceil(dst.Y+dst.H)),
	)
	xdraw.ApproxBiLinear.Scale(c.img, dr, c.scratch, sr, xdraw.Over, nil)
}

func (c *Canvas) ensureScratch(w, h int) {
	if c.scratch != nil {
		b := c.scratch.Bounds()
		if b.Dx() >= w && b.Dy() >= h {
			return
		}
		w, h = max(w, b.Dx()), max(h, b.Dy())
	}
	c.scratch = image.NewNRGBA(image.Rect(0, 0, w, h))
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func toFix(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
