// Package worlds defines the world record consumed by the visualization and
// the loaders that turn CSV exports and content API payloads into it.
package worlds

import (
	"regexp"
	"strings"
)

// World is one visualized item. Records are immutable once loaded.
type World struct {
	ID            string
	Title         string
	Slug          string
	Description   string
	Attribution   string
	Tools         []string
	Collaborators []string
	ImageRef      string
	Category      string
	Country       string
}

// HasImage reports whether the record references an image.
func (w *World) HasImage() bool {
	return w.ImageRef != ""
}

// Row is the flat, loosely typed shape shared by CSV exports and the
// content API. List fields are comma-joined strings.
type Row struct {
	ID            string `csv:"id"`
	Title         string `csv:"title"`
	Slug          string `csv:"slug"`
	Description   string `csv:"description"`
	BuiltBy       string `csv:"built_by"`
	Tools         string `csv:"tools"`
	Collaborators string `csv:"collaborators"`
	ImageURL      string `csv:"image_url"`
	Category      string `csv:"category"`
	Country       string `csv:"country"`
}

// Record converts a row into a strict World. The bool is false for rows
// without a title.
func (r Row) Record() (World, bool) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return World{}, false
	}
	slug := strings.TrimSpace(r.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = slug
	}
	return World{
		ID:            id,
		Title:         title,
		Slug:          slug,
		Description:   strings.TrimSpace(r.Description),
		Attribution:   strings.TrimSpace(r.BuiltBy),
		Tools:         ParseList(r.Tools),
		Collaborators: ParseList(r.Collaborators),
		ImageRef:      strings.TrimSpace(r.ImageURL),
		Category:      strings.TrimSpace(r.Category),
		Country:       strings.TrimSpace(r.Country),
	}, true
}

// ParseList splits a comma-joined list, trimming entries and dropping
// empty ones. It returns nil for an empty list.
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses runs of other characters to '-' and
// trims leading and trailing dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// fromRows converts rows and drops untitled rows and repeated IDs, keeping
// the first occurrence so list positions stay stable.
func fromRows(rows []Row) (out []World, dropped int) {
	seen := make(map[string]bool, len(rows))
	out = make([]World, 0, len(rows))
	for _, r := range rows {
		w, ok := r.Record()
		if !ok || seen[w.ID] {
			dropped++
			continue
		}
		seen[w.ID] = true
		out = append(out, w)
	}
	return out, dropped
}
