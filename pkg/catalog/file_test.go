package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	ctx := context.Background()

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	book := Book{
		ID:      "hobbit",
		ISBN:    "9780547928227",
		Title:   "The Hobbit",
		WidthMM: 129, HeightMM: 198, SpineMM: 22,
		AddedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, book); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A fresh store sees the persisted book.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, "hobbit")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Title != book.Title || !got.AddedAt.Equal(book.AddedAt) {
		t.Errorf("got %+v, want %+v", got, book)
	}

	if _, err := reopened.FindByISBN(ctx, "9780547928227"); err != nil {
		t.Errorf("FindByISBN: %v", err)
	}

	if err := reopened.Delete(ctx, "hobbit"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	final, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if books, _ := final.List(ctx); len(books) != 0 {
		t.Errorf("deleted book still on disk: %+v", books)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	books, err := store.List(context.Background())
	if err != nil || len(books) != 0 {
		t.Errorf("empty store List = %v, %v", books, err)
	}
	if err := store.Delete(context.Background(), "nope"); err == nil {
		t.Error("deleting from empty store should fail")
	}
}

func TestFileStoreListOrder(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, b := range []Book{
		{ID: "z", Title: "Z", AddedAt: base},
		{ID: "a", Title: "A", AddedAt: base.Add(time.Hour)},
		{ID: "m", Title: "M", AddedAt: base},
	} {
		if err := store.Put(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	books, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"m", "z", "a"}
	for i, b := range books {
		if b.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(books), want)
		}
	}
}

func ids(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestFileStorePutRollbackOnPersistFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(filepath.Join(dir, "catalog.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	original := Book{ID: "dune", Title: "Dune", AddedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.Put(ctx, original); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Point the store at a directory so the rename inside persist fails.
	store.path = filepath.Join(dir, "blocked")
	if err := os.MkdirAll(store.path, 0o755); err != nil {
		t.Fatal(err)
	}

	replacement := original
	replacement.Title = "Dune Messiah"
	if err := store.Put(ctx, replacement); err == nil {
		t.Fatal("expected Put to fail when persist cannot write")
	}

	// A failed replacement must restore the previous record, not drop it.
	got, err := store.Get(ctx, "dune")
	if err != nil {
		t.Fatalf("Get after failed replacement: %v", err)
	}
	if got.Title != "Dune" {
		t.Errorf("Title = %q, want the pre-replacement %q", got.Title, "Dune")
	}

	// A failed insert must leave no record behind.
	if err := store.Put(ctx, Book{ID: "messiah", Title: "Dune Messiah"}); err == nil {
		t.Fatal("expected Put to fail when persist cannot write")
	}
	if _, err := store.Get(ctx, "messiah"); err == nil {
		t.Error("failed insert left a record in memory")
	}
}
