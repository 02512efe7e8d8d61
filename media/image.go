// Package media loads world images for the detail panel, rasterizes
// frames without a window, and exports snapshots as WebP.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrRemote is returned for image references that need a network fetch.
var ErrRemote = errors.New("media: remote image references are not fetched")

// Decode reads any registered format (jpeg, png, webp, tga) into NRGBA.
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("media: decode: %w", err)
	}
	return toNRGBA(img), format, nil
}

// Load reads and decodes an image file.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", path, err)
	}
	img, _, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("media: %s: %w", path, err)
	}
	return img, nil
}

// toNRGBA converts any image to NRGBA with its origin at zero.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Fit scales src to fit inside maxW×maxH, keeping its aspect ratio.
// Images already inside the box are returned unscaled.
func Fit(src *image.NRGBA, maxW, maxH int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || maxW <= 0 || maxH <= 0 {
		return src
	}
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	k := min(float64(maxW)/float64(b.Dx()), float64(maxH)/float64(b.Dy()))
	w := max(1, int(float64(b.Dx())*k+0.5))
	h := max(1, int(float64(b.Dy())*k+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Resolve maps a world's image reference to a local file. Relative
// references are taken relative to dir.
func Resolve(ref, dir string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("media: empty image reference")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return "", ErrRemote
	}
	ref = strings.TrimPrefix(ref, "file://")
	if filepath.IsAbs(ref) || dir == "" {
		return ref, nil
	}
	return filepath.Join(dir, ref), nil
}

// Thumbnails caches fitted world images by reference. Failed loads are
// remembered so a broken file is logged once and then left empty.
type Thumbnails struct {
	Dir        string
	MaxW, MaxH int

	entries map[string]*image.NRGBA
}

// NewThumbnails creates a cache resolving relative references against dir.
func NewThumbnails(dir string, maxW, maxH int) *Thumbnails {
	return &Thumbnails{Dir: dir, MaxW: maxW, MaxH: maxH, entries: make(map[string]*image.NRGBA)}
}

// Get returns the thumbnail for ref, or nil when none can be produced.
func (t *Thumbnails) Get(ref string) *image.NRGBA {
	if ref == "" {
		return nil
	}
	if img, ok := t.entries[ref]; ok {
		return img
	}
	img, err := t.load(ref)
	if err != nil {
		slog.Warn("thumbnail unavailable", "ref", ref, "error", err)
	}
	t.entries[ref] = img
	return img
}

func (t *Thumbnails) load(ref string) (*image.NRGBA, error) {
	path, err := Resolve(ref, t.Dir)
	if err != nil {
		return nil, err
	}
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Fit(img, t.MaxW, t.MaxH), nil
}

// Len returns how many references have been looked up.
func (t *Thumbnails) Len() int {
	return len(t.entries)
}
