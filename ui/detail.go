package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orbits/media"
	"github.com/pthm-cable/orbits/worlds"
)

// Detail panel geometry
const (
	DetailWidth  = 340
	imageHeight  = 170
	closeWidth   = 70
	closeHeight  = 24
	sectionSpace = 10
)

// DetailPanel shows the selected world on the right edge of the window.
type DetailPanel struct {
	r      *Renderer
	thumbs *media.Thumbnails

	world  *worlds.World
	tex    rl.Texture2D
	hasTex bool
}

// NewDetailPanel creates a closed panel. thumbs may be nil.
func NewDetailPanel(t Theme, thumbs *media.Thumbnails) *DetailPanel {
	return &DetailPanel{r: NewRenderer(t), thumbs: thumbs}
}

// Open reports whether a world is shown.
func (d *DetailPanel) Open() bool {
	return d.world != nil
}

// Show replaces the shown world; nil closes the panel.
func (d *DetailPanel) Show(w *worlds.World) {
	d.unloadTexture()
	d.world = w
	if w == nil || d.thumbs == nil || !w.HasImage() {
		return
	}
	img := d.thumbs.Get(w.ImageRef)
	if img == nil {
		return
	}
	rlImg := rl.NewImageFromImage(img)
	d.tex = rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	d.hasTex = true
}

// Bounds returns the panel rectangle for a screen size.
func (d *DetailPanel) Bounds(sw, sh int32) rl.Rectangle {
	w := min(int32(DetailWidth), sw)
	return rl.Rectangle{X: float32(sw - w), Y: 0, Width: float32(w), Height: float32(sh)}
}

// Contains reports whether p is over the open panel.
func (d *DetailPanel) Contains(p rl.Vector2, sw, sh int32) bool {
	return d.Open() && rl.CheckCollisionPointRec(p, d.Bounds(sw, sh))
}

// Draw renders the panel and reports whether CLOSE was pressed.
func (d *DetailPanel) Draw(sw, sh int32) (closed bool) {
	if d.world == nil {
		return false
	}
	w := d.world
	t := &d.r.Theme
	b := d.Bounds(sw, sh)
	d.r.DrawPanel(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))

	x := int32(b.X) + t.Padding
	y := int32(b.Y) + t.Padding
	inner := int32(b.Width) - 2*t.Padding

	if gui.Button(rl.Rectangle{X: b.X + b.Width - float32(t.Padding+closeWidth), Y: float32(y), Width: closeWidth, Height: closeHeight}, "CLOSE") {
		closed = true
	}
	y += closeHeight + sectionSpace

	y = d.drawImage(x, y, inner)

	y = d.r.DrawWrapped(x, y, inner, w.Title, t.TitleFontSize, t.ValueColor)
	if meta := joinNonEmpty(" / ", w.Category, w.Country); meta != "" {
		rl.DrawText(strings.ToUpper(meta), x, y, t.FontSize-2, t.Accent)
		y += t.LineHeight
	}
	y += sectionSpace / 2
	if w.Description != "" {
		y = d.r.DrawWrapped(x, y, inner, w.Description, t.FontSize, t.ValueColor)
		y += sectionSpace
	}

	y = d.drawSection(x, y, inner, "BUILT BY", w.Attribution)
	y = d.drawSection(x, y, inner, "TOOLS IN USE", strings.Join(w.Tools, ", "))
	d.drawSection(x, y, inner, "COLLABORATORS", strings.Join(w.Collaborators, ", "))
	return closed
}

func (d *DetailPanel) drawImage(x, y, width int32) int32 {
	slot := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: imageHeight}
	if !d.hasTex {
		rl.DrawRectangleRec(slot, d.r.Theme.PanelBorder)
		return y + imageHeight + sectionSpace
	}
	tw, th := float32(d.tex.Width), float32(d.tex.Height)
	k := min(slot.Width/tw, slot.Height/th)
	dst := rl.Rectangle{
		X:      slot.X + (slot.Width-tw*k)/2,
		Y:      slot.Y + (slot.Height-th*k)/2,
		Width:  tw * k,
		Height: th * k,
	}
	rl.DrawTexturePro(d.tex, rl.Rectangle{Width: tw, Height: th}, dst, rl.Vector2{}, 0, rl.White)
	return y + imageHeight + sectionSpace
}

func (d *DetailPanel) drawSection(x, y, width int32, heading, body string) int32 {
	if body == "" {
		return y
	}
	y = d.r.DrawSectionHeader(x, y, heading)
	y = d.r.DrawWrapped(x, y, width, body, d.r.Theme.FontSize, d.r.Theme.ValueColor)
	return y + sectionSpace
}

func (d *DetailPanel) unloadTexture() {
	if d.hasTex {
		rl.UnloadTexture(d.tex)
		d.hasTex = false
	}
}

// Unload releases GPU resources.
func (d *DetailPanel) Unload() {
	d.unloadTexture()
	d.world = nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
