package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
)

// Logical pixels per terminal cell. Cells are roughly twice as tall as
// they are wide.
const (
	CellW = 8.0
	CellH = 16.0
)

// minAlpha is the weakest ink that still marks a cell.
const minAlpha = 20

// maxStyles bounds the style cache; depth fading yields many colors.
const maxStyles = 4096

type cell struct {
	r      rune
	fg     color.RGBA
	weight uint8
	bg     color.RGBA
	hasBg  bool
}

// Grid is a Surface over a terminal character grid. Every cell covers
// CellW×CellH logical pixels; text is one cell per rune at any size.
type Grid struct {
	cols, rows int
	cells      []cell
	paper      color.RGBA
	styles     map[[2]color.RGBA]lipgloss.Style
}

var _ renderer.Surface = (*Grid)(nil)

// NewGrid creates a grid of cols×rows cells.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{styles: make(map[[2]color.RGBA]lipgloss.Style)}
	g.Resize(cols, rows)
	return g
}

// Resize changes the cell dimensions and clears the grid.
func (g *Grid) Resize(cols, rows int) {
	g.cols, g.rows = max(cols, 0), max(rows, 0)
	g.cells = make([]cell, g.cols*g.rows)
	g.Clear(g.paper)
}

// Cells returns the grid dimensions.
func (g *Grid) Cells() (cols, rows int) {
	return g.cols, g.rows
}

// CellCenter maps a cell to the logical pixel at its center.
func CellCenter(col, row int) geom.Vec2 {
	return geom.Vec2{X: (float64(col) + 0.5) * CellW, Y: (float64(row) + 0.5) * CellH}
}

func (g *Grid) at(x, y float64) *cell {
	c, r := int(math.Floor(x/CellW)), int(math.Floor(y/CellH))
	if c < 0 || r < 0 || c >= g.cols || r >= g.rows {
		return nil
	}
	return &g.cells[r*g.cols+c]
}

// put marks the cell under (x, y) unless a stronger mark is already there.
func (g *Grid) put(x, y float64, r rune, c color.RGBA) {
	if c.A < minAlpha {
		return
	}
	cl := g.at(x, y)
	if cl == nil || c.A < cl.weight {
		return
	}
	cl.r, cl.fg, cl.weight = r, c, c.A
}

// Rune returns the glyph at a cell, or 0 outside the grid.
func (g *Grid) Rune(col, row int) rune {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0
	}
	return g.cells[row*g.cols+col].r
}

// Row returns the glyphs of one row.
func (g *Grid) Row(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	var b strings.Builder
	for _, cl := range g.cells[row*g.cols : (row+1)*g.cols] {
		b.WriteRune(cl.r)
	}
	return b.String()
}

func (g *Grid) Size() (float64, float64) {
	return float64(g.cols) * CellW, float64(g.rows) * CellH
}

func (g *Grid) Clear(c color.RGBA) {
	g.paper = c
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
}

// slope picks the glyph that best follows a segment in cell space.
func slope(d geom.Vec2) rune {
	dx, dy := d.X/CellW, d.Y/CellH
	switch {
	case math.Abs(dx) > 2*math.Abs(dy):
		return '-'
	case math.Abs(dy) > 2*math.Abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func (g *Grid) StrokeLine(a, b geom.Vec2, width float64, c color.RGBA) {
	d := b.Sub(a)
	steps := int(math.Ceil(math.Max(math.Abs(d.X)/CellW, math.Abs(d.Y)/CellH) * 2))
	if steps < 1 {
		g.put(a.X, a.Y, '.', c)
		return
	}
	r := slope(d)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		g.put(a.X+d.X*t, a.Y+d.Y*t, r, c)
	}
}

func (g *Grid) StrokePolyline(pts []geom.Vec2, width float64, c color.RGBA) {
	for i := 1; i < len(pts); i++ {
		g.StrokeLine(pts[i-1], pts[i], width, c)
	}
}

func (g *Grid) FillCircle(center geom.Vec2, radius float64, c color.RGBA) {
	if radius <= CellW {
		g.put(center.X, center.Y, '●', c)
		return
	}
	for y := center.Y - radius; y <= center.Y+radius; y += CellH {
		for x := center.X - radius; x <= center.X+radius; x += CellW {
			if (geom.Vec2{X: x, Y: y}).Sub(center).Len2() <= radius*radius {
				g.put(x, y, '█', c)
			}
		}
	}
}

func (g *Grid) FillPill(r geom.Rect, c color.RGBA) {
	if c.A < minAlpha {
		return
	}
	for y := r.Y + CellH/2; y < r.Y+r.H+CellH/2; y += CellH {
		for x := r.X; x < r.X+r.W; x += CellW {
			if cl := g.at(x, y); cl != nil {
				cl.bg, cl.hasBg = c, true
				cl.r, cl.weight = ' ', 0
			}
		}
	}
}

func (g *Grid) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * CellW
}

func (g *Grid) DrawText(text string, topLeft geom.Vec2, size float64, c color.RGBA) {
	x, y := topLeft.X+CellW/2, topLeft.Y+size/2
	for _, r := range text {
		g.put(x, y, r, c)
		x += CellW
	}
}

func (g *Grid) DrawStripSlice(s *renderer.Strip, srcX, srcW float64, dst geom.Rect, c color.RGBA) {
	runes := []rune(s.Text)
	if len(runes) == 0 {
		return
	}
	cols := int(math.Round(dst.W / CellW))
	if cols < 1 {
		return
	}
	y := dst.Y + dst.H/2
	for j := 0; j < cols; j++ {
		src := srcX + (float64(j)+0.5)/float64(cols)*srcW
		i := int(math.Floor(src/CellW)) % len(runes)
		if i < 0 {
			i += len(runes)
		}
		g.put(dst.X+(float64(j)+0.5)*CellW, y, runes[i], c)
	}
}

// blend mixes c over the paper by its alpha.
func (g *Grid) blend(c color.RGBA) color.RGBA {
	a := float64(c.A) / 255
	mix := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + (float64(q)-float64(p))*a))
	}
	return color.RGBA{R: mix(g.paper.R, c.R), G: mix(g.paper.G, c.G), B: mix(g.paper.B, c.B), A: 255}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (g *Grid) style(fg, bg color.RGBA) lipgloss.Style {
	key := [2]color.RGBA{fg, bg}
	if st, ok := g.styles[key]; ok {
		return st
	}
	if len(g.styles) >= maxStyles {
		clear(g.styles)
	}
	st := lipgloss.NewStyle().Foreground(hex(fg)).Background(hex(bg))
	g.styles[key] = st
	return st
}

// String renders the grid with colors, one line per row. Runs of cells
// sharing a style are rendered together.
func (g *Grid) String() string {
	var b, run strings.Builder
	for row := 0; row < g.rows; row++ {
		var cur lipgloss.Style
		var curKey [2]color.RGBA
		started := false
		for _, cl := range g.cells[row*g.cols : (row+1)*g.cols] {
			fg := g.blend(cl.fg)
			bg := g.blend(color.RGBA{})
			if cl.hasBg {
				bg = g.blend(cl.bg)
			}
			key := [2]color.RGBA{fg, bg}
			if !started || key != curKey {
				if started {
					b.WriteString(cur.Render(run.String()))
					run.Reset()
				}
				cur, curKey, started = g.style(fg, bg), key, true
			}
			run.WriteRune(cl.r)
		}
		if started {
			b.WriteString(cur.Render(run.String()))
			run.Reset()
		}
		if row < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
