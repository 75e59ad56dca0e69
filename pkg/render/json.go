package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/shelf"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	books map[string]catalog.Book
	seed  uint64
	style string
}

// WithJSONBooks attaches catalog records so exported items carry title and
// author metadata alongside their geometry.
func WithJSONBooks(books []catalog.Book) JSONOption {
	return func(r *jsonRenderer) {
		r.books = make(map[string]catalog.Book, len(books))
		for _, b := range books {
			r.books[b.ID] = b
		}
	}
}

// WithJSONSeed records the jitter seed in the output, enabling reproducible
// re-rendering.
func WithJSONSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed = seed }
}

// WithJSONStyle records the render style name in the output.
func WithJSONStyle(s string) JSONOption {
	return func(r *jsonRenderer) { r.style = s }
}

type jsonOutput struct {
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Style    string         `json:"style,omitempty"`
	Seed     uint64         `json:"seed,omitempty"`
	Rows     []jsonRow      `json:"rows"`
	Items    []jsonItem     `json:"items"`
	Excluded []jsonExcluded `json:"excluded,omitempty"`
}

type jsonRow struct {
	Y         float64  `json:"y"`
	Height    float64  `json:"height"`
	Justified bool     `json:"justified"`
	Items     []string `json:"items"`
}

type jsonItem struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Spine  float64 `json:"spine"`
	Z      int     `json:"z"`
	Tilt   float64 `json:"tilt"`
	Title  string  `json:"title,omitempty"`
	Author string  `json:"author,omitempty"`
}

type jsonExcluded struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// RenderJSON exports the layout as a pretty-printed JSON document: per-item
// geometry in final presentation coordinates, row structure for
// reconstruction, and the items excluded during normalization with their
// reasons. It returns an error only if marshaling fails.
func RenderJSON(res shelf.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  res.Width,
		Height: res.Height,
		Style:  r.style,
		Seed:   r.seed,
		Rows:   buildJSONRows(res.Rows),
		Items:  buildJSONItems(res.Items, r.books),
	}
	for _, ex := range res.Excluded {
		out.Excluded = append(out.Excluded, jsonExcluded{ID: ex.ID, Reason: ex.Reason})
	}

	return json.MarshalIndent(out, "", "  ")
}

// Document is a layout export parsed back from the JSON produced by
// [RenderJSON]. It carries everything needed to re-render without
// recomputing the layout.
type Document struct {
	Result shelf.Result
	Books  []catalog.Book
	Seed   uint64
	Style  string
}

// ParseLayout decodes a layout export produced by [RenderJSON].
func ParseLayout(data []byte) (Document, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Document{}, fmt.Errorf("parse layout: %w", err)
	}

	doc := Document{Seed: out.Seed, Style: out.Style}
	doc.Result.Width = out.Width
	doc.Result.Height = out.Height

	doc.Result.Items = make([]shelf.LayoutItem, len(out.Items))
	for i, it := range out.Items {
		doc.Result.Items[i] = shelf.LayoutItem{
			ID: it.ID,
			X:  it.X,
			Y:  it.Y,
			W:  it.Width,
			H:  it.Height,
			D:  it.Spine,
			Z:  it.Z,
			RY: it.Tilt,
		}
		if it.Title != "" || it.Author != "" {
			doc.Books = append(doc.Books, catalog.Book{
				ID:     it.ID,
				Title:  it.Title,
				Author: it.Author,
			})
		}
	}

	doc.Result.Rows = make([]shelf.Row, len(out.Rows))
	for i, row := range out.Rows {
		items := make([]shelf.RowItem, len(row.Items))
		for j, id := range row.Items {
			items[j] = shelf.RowItem{ID: id}
		}
		doc.Result.Rows[i] = shelf.Row{
			Y:         row.Y,
			Height:    row.Height,
			Justified: row.Justified,
			Items:     items,
		}
	}

	for _, ex := range out.Excluded {
		doc.Result.Excluded = append(doc.Result.Excluded, shelf.Excluded{ID: ex.ID, Reason: ex.Reason})
	}

	return doc, nil
}

// ReadLayoutFile loads and parses a layout export from disk.
func ReadLayoutFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseLayout(data)
}

func buildJSONRows(rows []shelf.Row) []jsonRow {
	result := make([]jsonRow, len(rows))
	for i, row := range rows {
		ids := make([]string, len(row.Items))
		for j, it := range row.Items {
			ids[j] = it.ID
		}
		result[i] = jsonRow{
			Y:         row.Y,
			Height:    row.Height,
			Justified: row.Justified,
			Items:     ids,
		}
	}
	return result
}

func buildJSONItems(items []shelf.LayoutItem, books map[string]catalog.Book) []jsonItem {
	result := make([]jsonItem, len(items))
	for i, it := range items {
		ji := jsonItem{
			ID:     it.ID,
			X:      it.X,
			Y:      it.Y,
			Width:  it.W,
			Height: it.H,
			Spine:  it.D,
			Z:      it.Z,
			Tilt:   it.RY,
		}
		if b, ok := books[it.ID]; ok {
			ji.Title = b.Title
			ji.Author = b.Author
		}
		result[i] = ji
	}
	return result
}
