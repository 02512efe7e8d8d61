package worlds

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

//go:embed catalog.csv
var catalogCSV []byte

// Default returns the built-in catalog of launch worlds.
func Default() []World {
	ws, err := LoadCSV(bytes.NewReader(catalogCSV))
	if err != nil {
		panic(fmt.Sprintf("worlds: embedded catalog: %v", err))
	}
	return ws
}

// LoadCSV reads a headed CSV export. Unknown columns are ignored.
func LoadCSV(r io.Reader) ([]World, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("worlds: parsing csv: %w", err)
	}
	ws, dropped := fromRows(rows)
	if dropped > 0 {
		slog.Warn("worlds: dropped rows", "dropped", dropped, "kept", len(ws))
	}
	return ws, nil
}

// apiWorld mirrors one element of the content API's worlds payload.
type apiWorld struct {
	ID            any    `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	CreatorName   string `json:"creatorName"`
	Tools         string `json:"tools"`
	Collaborators string `json:"collaborators"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category"`
	Country       string `json:"country"`
}

func (a apiWorld) row() Row {
	var id string
	switch v := a.ID.(type) {
	case nil:
	case json.Number:
		id = v.String()
	default:
		id = fmt.Sprint(v)
	}
	return Row{
		ID:            id,
		Title:         a.Title,
		Slug:          a.Slug,
		Description:   a.Description,
		BuiltBy:       a.CreatorName,
		Tools:         a.Tools,
		Collaborators: a.Collaborators,
		ImageURL:      a.ImageURL,
		Category:      a.Category,
		Country:       a.Country,
	}
}

// decodeJSON keeps numbers as json.Number so large ids survive intact.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// LoadJSON reads either a bare array of worlds or the API envelope
// {"worlds": [...]}.
func LoadJSON(r io.Reader) ([]World, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("worlds: reading json: %w", err)
	}

	var items []apiWorld
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := decodeJSON(trimmed, &items); err != nil {
			return nil, fmt.Errorf("worlds: parsing json: %w", err)
		}
	} else {
		var env struct {
			Worlds []apiWorld `json:"worlds"`
		}
		if err := decodeJSON(trimmed, &env); err != nil {
			return nil, fmt.Errorf("worlds: parsing json: %w", err)
		}
		items = env.Worlds
	}

	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = it.row()
	}
	ws, dropped := fromRows(rows)
	if dropped > 0 {
		slog.Warn("worlds: dropped records", "dropped", dropped, "kept", len(ws))
	}
	return ws, nil
}

// LoadFile picks a loader from the file extension. An empty path returns
// the built-in catalog.
func LoadFile(path string) ([]World, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("worlds: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("worlds: unsupported file type %q", filepath.Ext(path))
	}
}

// LoadOrDefault loads path and falls back to the built-in catalog on any
// error, logging the failure.
func LoadOrDefault(path string) []World {
	ws, err := LoadFile(path)
	if err != nil {
		slog.Error("loading worlds, using built-in catalog", "path", path, "error", err)
		return Default()
	}
	return ws
}
