// Package renderer draws a scene onto a backend-neutral Surface and reports
// where every entity landed on screen.
package renderer

import (
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/pthm-cable/orbits/geom"
)

// Surface is a 2D drawing target in logical pixels. Colors carry straight
// (non-premultiplied) alpha.
type Surface interface {
	Size() (w, h float64)
	Clear(c color.RGBA)
	StrokeLine(a, b geom.Vec2, width float64, c color.RGBA)
	StrokePolyline(pts []geom.Vec2, width float64, c color.RGBA)
	FillCircle(center geom.Vec2, radius float64, c color.RGBA)
	FillPill(r geom.Rect, c color.RGBA)
	MeasureText(text string, size float64) float64
	DrawText(text string, topLeft geom.Vec2, size float64, c color.RGBA)
	// DrawStripSlice copies the horizontal span [srcX, srcX+srcW) of the
	// strip's repeated text, as laid out at the strip's font size, into dst.
	DrawStripSlice(s *Strip, srcX, srcW float64, dst geom.Rect, c color.RGBA)
}

// WithAlpha returns c with its alpha scaled by a in [0, 1].
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	a = geom.Clamp(a, 0, 1)
	c.A = uint8(math.Round(float64(c.A) * a))
	return c
}

// OpKind tags a recorded drawing call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpLine
	OpPolyline
	OpCircle
	OpPill
	OpText
	OpStrip
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	Points int
	Pos    geom.Vec2
	Radius float64
	Rect   geom.Rect
	Text   string
	Color  color.RGBA
}

// Recorder is a Surface that keeps a log of drawing calls. It backs
// headless runs and tests. Text is measured as a fixed-advance font.
type Recorder struct {
	W, H    float64
	Advance float64 // glyph advance as a fraction of font size
	Ops     []Op
}

// NewRecorder creates a recorder of the given logical size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h, Advance: 0.6}
}

// Reset drops recorded calls but keeps capacity.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns how many calls of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for i := range r.Ops {
		if r.Ops[i].Kind == k {
			n++
		}
	}
	return n
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) Clear(c color.RGBA) {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear, Color: c})
}

func (r *Recorder) StrokeLine(a, b geom.Vec2, width float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: 2, Pos: a, Color: c})
}

func (r *Recorder) StrokePolyline(pts []geom.Vec2, width float64, c color.RGBA) {
	op := Op{Kind: OpPolyline, Points: len(pts), Color: c}
	if len(pts) > 0 {
		op.Pos = pts[0]
	}
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) FillCircle(center geom.Vec2, radius float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Pos: center, Radius: radius, Color: c})
}

func (r *Recorder) FillPill(rect geom.Rect, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpPill, Rect: rect, Color: c})
}

func (r *Recorder) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * r.Advance
}

func (r *Recorder) DrawText(text string, topLeft geom.Vec2, size float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Pos: topLeft, Radius: size, Text: text, Color: c})
}

func (r *Recorder) DrawStripSlice(s *Strip, srcX, srcW float64, dst geom.Rect, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrip, Pos: geom.Vec2{X: srcX, Y: srcW}, Rect: dst, Text: s.Text, Color: c})
}
