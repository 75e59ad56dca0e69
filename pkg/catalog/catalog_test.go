package catalog

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shelfline/shelfline/pkg/errors"
)

func TestDimensionsFallBackToPaperback(t *testing.T) {
	tests := []struct {
		name    string
		book    Book
		w, h, s float64
	}{
		{
			name: "complete dimensions",
			book: Book{WidthMM: 156, HeightMM: 234, SpineMM: 35},
			w:    156, h: 234, s: 35,
		},
		{
			name: "missing spine",
			book: Book{WidthMM: 156, HeightMM: 234},
			w:    156, h: 234, s: DefaultSpineMM,
		},
		{
			name: "no dimensions at all",
			book: Book{},
			w:    DefaultWidthMM, h: DefaultHeightMM, s: DefaultSpineMM,
		},
		{
			name: "negative treated as missing",
			book: Book{WidthMM: -1, HeightMM: 234, SpineMM: 35},
			w:    DefaultWidthMM, h: 234, s: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, s := tt.book.Dimensions()
			if w != tt.w || h != tt.h || s != tt.s {
				t.Errorf("Dimensions() = %v, %v, %v, want %v, %v, %v", w, h, s, tt.w, tt.h, tt.s)
			}
		})
	}
}

func TestPhysicalItemsPreservesOrder(t *testing.T) {
	books := []Book{
		{ID: "first", WidthMM: 100, HeightMM: 200, SpineMM: 10},
		{ID: "second", WidthMM: 110, HeightMM: 210, SpineMM: 20},
	}
	items := PhysicalItems(books)
	if len(items) != 2 || items[0].ID != "first" || items[1].ID != "second" {
		t.Errorf("PhysicalItems() = %+v, want input order preserved", items)
	}
	if items[1].Width != 110 || items[1].Height != 210 || items[1].Spine != 20 {
		t.Errorf("item dimensions not carried: %+v", items[1])
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b := Book{ID: NewID(), ISBN: "9780134190440", Title: "The Go Programming Language", AddedAt: time.Now()}
	if err := s.Put(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != b.Title {
		t.Errorf("Get() title = %q, want %q", got.Title, b.Title)
	}

	byISBN, err := s.FindByISBN(ctx, "9780134190440")
	if err != nil {
		t.Fatal(err)
	}
	if byISBN.ID != b.ID {
		t.Errorf("FindByISBN() id = %s, want %s", byISBN.ID, b.ID)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, b.ID); !errors.Is(err, errors.ErrCodeBookNotFound) {
		t.Errorf("Get after delete = %v, want BOOK_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, b.ID); !errors.Is(err, errors.ErrCodeBookNotFound) {
		t.Errorf("double delete = %v, want BOOK_NOT_FOUND", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStoreWith([]Book{
		{ID: "b", AddedAt: base.Add(time.Hour)},
		{ID: "c", AddedAt: base},
		{ID: "a", AddedAt: base},
	})

	books, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(books))
	for i, b := range books {
		got[i] = b.ID
	}
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List order = %v, want %v", got, want)
		}
	}
}

func TestCatalogFileRoundTrip(t *testing.T) {
	books := []Book{
		{ID: "1", ISBN: "9780134190440", Title: "The Go Programming Language", WidthMM: 188, HeightMM: 232, SpineMM: 25, AddedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Unknown Dimensions"},
	}

	var buf bytes.Buffer
	if err := WriteJSON(books, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d books, want 2", len(got))
	}
	if got[0].Title != books[0].Title || got[0].SpineMM != 25 {
		t.Errorf("round trip lost data: %+v", got[0])
	}
	if !got[0].AddedAt.Equal(books[0].AddedAt) {
		t.Errorf("AddedAt = %v, want %v", got[0].AddedAt, books[0].AddedAt)
	}
}
