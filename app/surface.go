package app

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
)

// maxStripWidth caps strip textures below common GPU texture limits.
const maxStripWidth = 8192

// Surface draws onto the raylib window with the default font.
type Surface struct {
	w, h   float64
	font   rl.Font
	strips map[stripKey]rl.RenderTexture2D
	pts    []rl.Vector2
}

type stripKey struct {
	text string
	size int32
}

var _ renderer.Surface = (*Surface)(nil)

// NewSurface creates a surface for a window of the given size. The window
// must already be open.
func NewSurface(w, h int32) *Surface {
	return &Surface{
		w:      float64(w),
		h:      float64(h),
		font:   rl.GetFontDefault(),
		strips: make(map[stripKey]rl.RenderTexture2D),
	}
}

// Resize updates the logical size.
func (s *Surface) Resize(w, h int32) {
	s.w, s.h = float64(w), float64(h)
}

// Unload releases cached strip textures.
func (s *Surface) Unload() {
	for k, rt := range s.strips {
		rl.UnloadRenderTexture(rt)
		delete(s.strips, k)
	}
}

func col(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func vec(p geom.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}

func (s *Surface) Size() (float64, float64) { return s.w, s.h }

func (s *Surface) Clear(c color.RGBA) {
	rl.ClearBackground(col(c))
}

func (s *Surface) StrokeLine(a, b geom.Vec2, width float64, c color.RGBA) {
	rl.DrawLineEx(vec(a), vec(b), float32(width), col(c))
}

func (s *Surface) StrokePolyline(pts []geom.Vec2, width float64, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	rc := col(c)
	if width <= 1 {
		s.pts = s.pts[:0]
		for _, p := range pts {
			s.pts = append(s.pts, vec(p))
		}
		rl.DrawLineStrip(s.pts, rc)
		return
	}
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), float32(width), rc)
	}
}

func (s *Surface) FillCircle(center geom.Vec2, radius float64, c color.RGBA) {
	rl.DrawCircleV(vec(center), float32(radius), col(c))
}

func (s *Surface) FillPill(r geom.Rect, c color.RGBA) {
	rec := rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)}
	rl.DrawRectangleRounded(rec, 1, 8, col(c))
}

// spacing matches raylib's DrawText for the default font.
func spacing(size float64) float32 {
	return float32(math.Max(1, size/10))
}

func (s *Surface) MeasureText(text string, size float64) float64 {
	return float64(rl.MeasureTextEx(s.font, text, float32(size), spacing(size)).X)
}

func (s *Surface) DrawText(text string, topLeft geom.Vec2, size float64, c color.RGBA) {
	rl.DrawTextEx(s.font, text, vec(topLeft), float32(size), spacing(size), col(c))
}

// strip returns the white text of st rendered once into a texture.
func (s *Surface) strip(st *renderer.Strip) (rl.RenderTexture2D, bool) {
	key := stripKey{st.Text, int32(math.Round(st.FontSize))}
	if rt, ok := s.strips[key]; ok {
		return rt, true
	}
	w := int32(math.Ceil(st.Total))
	h := int32(math.Ceil(st.FontSize * 1.25))
	if w <= 0 || h <= 0 || w > maxStripWidth {
		return rl.RenderTexture2D{}, false
	}
	rt := rl.LoadRenderTexture(w, h)
	rl.BeginTextureMode(rt)
	rl.ClearBackground(rl.Blank)
	rl.DrawTextEx(s.font, st.Text, rl.Vector2{}, float32(st.FontSize), spacing(st.FontSize), rl.White)
	rl.EndTextureMode()
	s.strips[key] = rt
	return rt, true
}

func (s *Surface) DrawStripSlice(st *renderer.Strip, srcX, srcW float64, dst geom.Rect, c color.RGBA) {
	rt, ok := s.strip(st)
	if !ok {
		return
	}
	h := float32(rt.Texture.Height)
	// render textures are stored upside down
	src := rl.Rectangle{X: float32(srcX), Y: 0, Width: float32(srcW), Height: -h}
	to := rl.Rectangle{X: float32(dst.X), Y: float32(dst.Y), Width: float32(dst.W), Height: float32(dst.H)}
	rl.DrawTexturePro(rt.Texture, src, to, rl.Vector2{}, 0, col(c))
}
