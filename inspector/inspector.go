// Package inspector draws a debug panel listing component fields. Fields
// are read by reflection and rendered according to their inspect tags.
package inspector

import (
	"image/color"

	"github.com/pthm-cable/orbits/geom"
	"github.com/pthm-cable/orbits/renderer"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 26
	PanelMargin  = 10
	sectionGap   = 6
)

// Section is one titled group of fields, usually one component.
type Section struct {
	Title  string
	Fields []Field
}

// Inspect builds a section from a component's tagged fields.
func Inspect(title string, component any) Section {
	return Section{Title: title, Fields: ExtractFields(component)}
}

// Panel renders sections in the top-right corner of a surface.
type Panel struct {
	FontSize float64
	Ink      color.RGBA
	Paper    color.RGBA
	Visible  bool
}

// NewPanel creates a hidden panel in the given palette.
func NewPanel(ink, paper color.RGBA) *Panel {
	return &Panel{FontSize: 12, Ink: ink, Paper: paper}
}

// Toggle flips panel visibility.
func (p *Panel) Toggle() {
	p.Visible = !p.Visible
}

// Height returns the panel height needed for sections.
func Height(sections []Section) float64 {
	h := float64(HeaderHeight + PanelPadding)
	for _, sec := range sections {
		h += rowHeight + sectionGap
		for _, f := range sec.Fields {
			h += fieldHeight(f)
		}
	}
	return h + PanelPadding
}

// Bounds returns where the panel lands on a surface of width sw.
func (p *Panel) Bounds(sw float64, sections []Section) geom.Rect {
	return geom.Rect{
		X: sw - PanelWidth - PanelMargin,
		Y: PanelMargin,
		W: PanelWidth,
		H: Height(sections),
	}
}

// Draw renders the panel and returns its bounds. A hidden panel draws
// nothing and returns an empty rect.
func (p *Panel) Draw(s renderer.Surface, title string, sections ...Section) geom.Rect {
	if !p.Visible {
		return geom.Rect{}
	}
	sw, _ := s.Size()
	b := p.Bounds(sw, sections)

	s.FillPill(b, renderer.WithAlpha(p.Paper, 0.94))
	s.DrawText(title, geom.Vec2{X: b.X + PanelPadding, Y: b.Y + (HeaderHeight-p.FontSize)/2}, p.FontSize+2, p.Ink)
	s.StrokeLine(
		geom.Vec2{X: b.X + PanelPadding, Y: b.Y + HeaderHeight},
		geom.Vec2{X: b.X + b.W - PanelPadding, Y: b.Y + HeaderHeight},
		1, renderer.WithAlpha(p.Ink, 0.3),
	)

	at := geom.Vec2{X: b.X + PanelPadding, Y: b.Y + HeaderHeight + PanelPadding}
	for _, sec := range sections {
		s.DrawText(sec.Title, at, p.FontSize, renderer.WithAlpha(p.Ink, 0.45))
		at.Y += rowHeight + sectionGap
		for _, f := range sec.Fields {
			at.Y += p.drawField(s, at, f)
		}
	}
	return b
}
