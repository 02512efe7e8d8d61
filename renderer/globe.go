package renderer

import (
	"image/color"
	"math"
	"strings"

	"github.com/pthm-cable/orbits/camera"
	"github.com/pthm-cable/orbits/geom"
)

// GlobeStyle tunes the text-strip globe.
type GlobeStyle struct {
	Lines        int
	Spread       float64 // outermost line height as a fraction of the radius
	FontSize     float64
	Speed        float64 // rotation per frame at speed 1
	HoverFactor  float64 // fraction of Speed while hovered
	Easing       float64 // fraction of the speed difference closed per frame
	ScrollFactor float64
	MinSlice     float64
	OpacityExp   float64
	MinOpacity   float64
	Separator    string
	Scale        camera.ScaleRule
}

// DefaultGlobeStyle returns the stock text globe.
func DefaultGlobeStyle() GlobeStyle {
	return GlobeStyle{
		Lines:        38,
		Spread:       0.96,
		FontSize:     18,
		Speed:        0.0008,
		HoverFactor:  0.3,
		Easing:       0.08,
		ScrollFactor: 700,
		MinSlice:     0.02,
		OpacityExp:   0.6,
		MinOpacity:   0.03,
		Separator:    "   ",
		Scale:        camera.SphereScale(),
	}
}

// Strip is one line of repeated text wrapped around the globe. Widths are
// in logical pixels at FontSize.
type Strip struct {
	Unit     string // one word plus separator
	Text     string // Unit repeated Repeats times
	FontSize float64
	Single   float64
	Total    float64
	Repeats  int
	Y        float64 // height on the unit sphere
	Radius   float64 // slice radius at Y
}

// TextGlobe draws scrolling text strips whose horizontal slices are
// squeezed toward the limb so the text appears wrapped over a sphere.
type TextGlobe struct {
	Style GlobeStyle

	texts  []string
	strips []Strip
	live   []bool

	layoutW, layoutH float64
	dirty            bool

	rotation float64
	speed    float64
}

// NewTextGlobe creates a globe with no texts, already turning at the
// configured speed.
func NewTextGlobe(st GlobeStyle) *TextGlobe {
	return &TextGlobe{Style: st, dirty: true, speed: st.Speed}
}

// SetTexts replaces the strip texts. Lines cycle through them.
func (g *TextGlobe) SetTexts(texts []string) {
	g.texts = append(g.texts[:0], texts...)
	g.dirty = true
}

// Rotation returns the accumulated strip rotation.
func (g *TextGlobe) Rotation() float64 {
	return g.rotation
}

// Strips returns the current layout. Lines too close to a pole are not live.
func (g *TextGlobe) Strips() ([]Strip, []bool) {
	return g.strips, g.live
}

// Advance eases the rotation speed toward its target and steps the
// rotation once. mult scales the configured speed.
func (g *TextGlobe) Advance(hovering bool, mult float64) {
	target := g.Style.Speed * mult
	if hovering {
		target *= g.Style.HoverFactor
	}
	g.speed += (target - g.speed) * g.Style.Easing
	g.rotation += g.speed
}

// ResponsiveScale shrinks type on small viewports.
func ResponsiveScale(size float64) float64 {
	switch {
	case size < 500:
		return 0.75
	case size < 700:
		return 0.85
	default:
		return 1
	}
}

func (g *TextGlobe) layout(s Surface, vp camera.Viewport) {
	if !g.dirty && vp.Width == g.layoutW && vp.Height == g.layoutH {
		return
	}
	g.dirty = false
	g.layoutW, g.layoutH = vp.Width, vp.Height
	g.strips = g.strips[:0]
	g.live = g.live[:0]
	st := &g.Style
	if len(g.texts) == 0 || st.Lines < 2 {
		return
	}

	base := st.FontSize * ResponsiveScale(math.Min(vp.Width, vp.Height))
	for i := 0; i < st.Lines; i++ {
		y := (float64(i)/float64(st.Lines-1)*2 - 1) * st.Spread
		r := math.Sqrt(math.Max(0, 1-y*y))
		if r < st.MinSlice {
			g.strips = append(g.strips, Strip{})
			g.live = append(g.live, false)
			continue
		}
		size := base * (0.35 + 0.65*r)
		unit := g.texts[i%len(g.texts)] + st.Separator
		single := s.MeasureText(unit, size)
		if single <= 0 {
			g.strips = append(g.strips, Strip{})
			g.live = append(g.live, false)
			continue
		}
		repeats := int(math.Ceil(vp.Width*3/single)) + 2
		g.strips = append(g.strips, Strip{
			Unit:     unit,
			Text:     strings.Repeat(unit, repeats),
			FontSize: size,
			Single:   single,
			Total:    single * float64(repeats),
			Repeats:  repeats,
			Y:        y,
			Radius:   r,
		})
		g.live = append(g.live, true)
	}
}

// Draw paints every strip. yaw is added to the strip rotation so dragging
// scrolls the text; the text-mode camera has no ambient yaw, so only drags
// move it.
func (g *TextGlobe) Draw(s Surface, vp camera.Viewport, yaw, zoom float64, ink color.RGBA) {
	if vp.Empty() {
		return
	}
	g.layout(s, vp)
	st := &g.Style
	center := vp.Center()
	radius := vp.BaseScale(st.Scale, zoom)
	// Dragging moves the text like a point on the surface: yaw*radius px.
	scroll := g.rotation*st.ScrollFactor + yaw*radius

	for i := range g.strips {
		if !g.live[i] {
			continue
		}
		strip := &g.strips[i]
		y := center.Y + strip.Y*radius
		sliceWidth := strip.Radius * radius
		offset := math.Mod(scroll*strip.Radius, strip.Single)
		if offset < 0 {
			offset += strip.Single
		}
		slices := int(math.Ceil(sliceWidth * 2 / 3))
		if slices <= 0 {
			continue
		}
		dstW := sliceWidth*2/float64(slices) + 1

		for k := 0; k < slices; k++ {
			screenX := center.X - sliceWidth + float64(k)/float64(slices)*sliceWidth*2
			x := (screenX - center.X) / sliceWidth
			if math.Abs(x) >= 1 {
				continue
			}
			z := math.Sqrt(1 - x*x)
			alpha := math.Pow(z, st.OpacityExp)
			if alpha < st.MinOpacity {
				continue
			}
			srcX := math.Mod((math.Asin(x)/math.Pi+0.5)*strip.Single*2+offset, strip.Total)
			dst := geom.Rect{X: screenX, Y: y - strip.FontSize*0.6, W: dstW, H: strip.FontSize * 1.2}
			s.DrawStripSlice(strip, srcX, dstW/z, dst, WithAlpha(ink, alpha))
		}
	}
}
