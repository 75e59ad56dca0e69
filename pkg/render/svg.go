package render

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"slices"

	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/shelf"
)

const (
	svgMargin      = 24.0
	boardThickness = 8.0
	boardOverhang  = 12.0
	boardColor     = "#8b5e3c"
	backgroundDef  = "#f6f1e7"

	labelCharWidth = 0.55
	labelSizeMin   = 7.0
	labelSizeMax   = 14.0
)

// palette holds spine colors assigned deterministically per book ID, so a
// book keeps its color across re-layouts.
var palette = []string{
	"#b5543b", "#3b6ea5", "#4f7a4a", "#a5823b",
	"#6b4a7a", "#3b8a8a", "#9c4a5e", "#5a6b3b",
}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	books      map[string]catalog.Book
	labels     bool
	background string
}

// WithBooks attaches catalog records for label text. Without this, labels
// fall back to item IDs.
func WithBooks(books []catalog.Book) SVGOption {
	return func(r *svgRenderer) {
		r.books = make(map[string]catalog.Book, len(books))
		for _, b := range books {
			r.books[b.ID] = b
		}
	}
}

// WithLabels enables spine labels on each book.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithBackground overrides the background color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws the layout as a self-contained SVG document. Books are
// painted in stacking order so overlaps from jitter and tilt resolve the
// same way on every render.
func RenderSVG(res shelf.Result, opts ...SVGOption) []byte {
	r := svgRenderer{background: backgroundDef}
	for _, opt := range opts {
		opt(&r)
	}

	items := slices.Clone(res.Items)
	slices.SortFunc(items, func(a, b shelf.LayoutItem) int {
		return cmp.Compare(a.Z, b.Z)
	})

	totalW := res.Width + 2*svgMargin
	totalH := res.Height + 2*svgMargin + boardThickness

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		totalW, totalH, r.background)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)">`+"\n", svgMargin, svgMargin)

	for _, row := range res.Rows {
		renderBoard(&buf, row, res.Width)
	}
	for _, it := range items {
		r.renderBook(&buf, it)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderBoard(buf *bytes.Buffer, row shelf.Row, width float64) {
	fmt.Fprintf(buf, `    <rect class="board" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s"/>`+"\n",
		-boardOverhang, row.Y+row.Height, width+2*boardOverhang, boardThickness, boardColor)
}

func (r *svgRenderer) renderBook(buf *bytes.Buffer, it shelf.LayoutItem) {
	fill := palette[colorIndex(it.ID)]

	// Tilt pivots on the bottom center so books stay planted on the board.
	fmt.Fprintf(buf, `    <g id="book-%s" transform="rotate(%.2f %.1f %.1f)">`+"\n",
		escapeXML(it.ID), it.RY, it.CenterX(), it.Bottom())
	fmt.Fprintf(buf, `      <rect class="book" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="1.5" fill="%s" stroke="#2d2a26" stroke-width="1"/>`+"\n",
		it.X, it.Y, it.W, it.H, fill)

	if r.labels {
		r.renderLabel(buf, it)
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, it shelf.LayoutItem) {
	label := it.ID
	if b, ok := r.books[it.ID]; ok && b.Title != "" {
		label = b.Title
	}

	// Long labels read like spine text: rotate when the book is taller
	// than it is wide.
	rotated := it.H > it.W
	avail := it.W
	if rotated {
		avail = it.H
	}
	size, label := fitLabel(label, avail)

	if rotated {
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="#fff" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
			it.CenterX(), it.Y+it.H/2, size, it.CenterX(), it.Y+it.H/2, escapeXML(label))
		return
	}
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="#fff">%s</text>`+"\n",
		it.CenterX(), it.Y+it.H/2, size, escapeXML(label))
}

// fitLabel picks a font size for the available run length and truncates the
// label when even the minimum size cannot fit it.
func fitLabel(label string, avail float64) (float64, string) {
	n := max(1, len(label))
	size := avail * 0.85 / (float64(n) * labelCharWidth)
	size = max(labelSizeMin, min(labelSizeMax, size))

	maxChars := int(avail * 0.85 / (size * labelCharWidth))
	if maxChars < 3 {
		maxChars = 3
	}
	if len(label) > maxChars {
		label = label[:maxChars-2] + ".."
	}
	return size, label
}

func colorIndex(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % uint32(len(palette)))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
