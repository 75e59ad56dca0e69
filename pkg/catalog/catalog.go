// Package catalog defines the book catalog model and its storage backends.
//
// A [Book] carries bibliographic metadata plus the physical dimensions the
// shelf layout engine consumes. Dimensions are stored in millimetres; not
// every metadata source knows them, so conversion to layout input falls
// back to typical paperback proportions rather than excluding the book.
//
// Storage is behind the [Store] interface with two implementations:
// [MemoryStore] for tests and single-shot CLI runs, and [MongoStore] for
// the server deployment.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/shelfline/shelfline/pkg/shelf"
)

// Fallback physical dimensions in millimetres, used when a metadata source
// reports no measurements. They match a common trade paperback.
const (
	DefaultWidthMM  = 129.0
	DefaultHeightMM = 198.0
	DefaultSpineMM  = 18.0
)

// Book is one catalog entry. The struct serializes to JSON for the API and
// catalog files, and to BSON for MongoDB storage.
type Book struct {
	ID       string    `json:"id" bson:"_id"`
	ISBN     string    `json:"isbn,omitempty" bson:"isbn,omitempty"`
	Title    string    `json:"title" bson:"title"`
	Author   string    `json:"author,omitempty" bson:"author,omitempty"`
	WidthMM  float64   `json:"width_mm,omitempty" bson:"width_mm,omitempty"`
	HeightMM float64   `json:"height_mm,omitempty" bson:"height_mm,omitempty"`
	SpineMM  float64   `json:"spine_mm,omitempty" bson:"spine_mm,omitempty"`
	Pages    int       `json:"pages,omitempty" bson:"pages,omitempty"`
	CoverURL string    `json:"cover_url,omitempty" bson:"cover_url,omitempty"`
	AddedAt  time.Time `json:"added_at" bson:"added_at"`
}

// NewID returns a fresh book identifier.
func NewID() string {
	return uuid.NewString()
}

// Dimensions returns the book's physical dimensions, falling back to
// typical paperback measurements for anything missing or non-positive.
// The layout engine rejects non-positive dimensions, and a book with
// unknown thickness should still appear on the shelf.
func (b Book) Dimensions() (width, height, spine float64) {
	width, height, spine = b.WidthMM, b.HeightMM, b.SpineMM
	if width <= 0 {
		width = DefaultWidthMM
	}
	if height <= 0 {
		height = DefaultHeightMM
	}
	if spine <= 0 {
		spine = DefaultSpineMM
	}
	return width, height, spine
}

// PhysicalItem converts the book to layout engine input.
func (b Book) PhysicalItem() shelf.PhysicalItem {
	w, h, s := b.Dimensions()
	return shelf.PhysicalItem{ID: b.ID, Width: w, Height: h, Spine: s}
}

// PhysicalItems converts a book list to layout engine input, preserving
// order. Order matters: the packer fills rows in input order.
func PhysicalItems(books []Book) []shelf.PhysicalItem {
	items := make([]shelf.PhysicalItem, len(books))
	for i, b := range books {
		items[i] = b.PhysicalItem()
	}
	return items
}
