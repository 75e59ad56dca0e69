package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shelfline/shelfline/internal/config"
	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/metadata"
	"github.com/shelfline/shelfline/pkg/pipeline"
)

func newTestServer(t *testing.T, books []catalog.Book, meta *metadata.Client) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := catalog.NewMemoryStoreWith(books)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	return NewServer(store, runner, meta, config.Default(), logger)
}

func seedBooks() []catalog.Book {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return []catalog.Book{
		{ID: "hobbit", Title: "The Hobbit", WidthMM: 129, HeightMM: 198, SpineMM: 22, AddedAt: base},
		{ID: "dune", Title: "Dune", WidthMM: 110, HeightMM: 178, SpineMM: 31, AddedAt: base.Add(time.Hour)},
	}
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListBooks(t *testing.T) {
	s := newTestServer(t, seedBooks(), nil)
	rec := doRequest(t, s, http.MethodGet, "/api/books", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var books []catalog.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 || books[0].ID != "hobbit" {
		t.Errorf("books = %+v", books)
	}

	empty := newTestServer(t, nil, nil)
	rec = doRequest(t, empty, http.MethodGet, "/api/books", nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty catalog = %q, want []", body)
	}
}

func TestAddBookFullRecord(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := doRequest(t, s, http.MethodPost, "/api/books", addBookRequest{
		Title:    "Gormenghast",
		Author:   "Mervyn Peake",
		WidthMM:  130,
		HeightMM: 200,
		SpineMM:  35,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var book catalog.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatal(err)
	}
	if book.ID == "" || book.Title != "Gormenghast" {
		t.Errorf("book = %+v", book)
	}
	if book.AddedAt.IsZero() {
		t.Error("AddedAt not set")
	}
}

func TestAddBookValidation(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/books", addBookRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty request status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/books", addBookRequest{ISBN: "12345"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad isbn status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "INVALID_ISBN" {
		t.Errorf("error code = %q, want INVALID_ISBN", resp.Code)
	}
}

func TestAddBookByISBN(t *testing.T) {
	const isbn = "9780134190440"
	mux := http.NewServeMux()
	mux.HandleFunc("/isbn/"+isbn+".json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "The Go Programming Language", "number_of_pages": 380,
			"physical_dimensions": "9.1 x 7.2 x 1 inches"}`))
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	meta := metadata.NewClient(cache.NewNullCache(), metadata.WithBaseURL(upstream.URL))
	s := newTestServer(t, nil, meta)

	rec := doRequest(t, s, http.MethodPost, "/api/books", addBookRequest{ISBN: "978-0-13-419044-0"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var book catalog.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatal(err)
	}
	if book.Title != "The Go Programming Language" || book.ISBN != isbn {
		t.Errorf("book = %+v", book)
	}
	if book.WidthMM == 0 || book.HeightMM == 0 || book.SpineMM == 0 {
		t.Error("dimensions not filled from metadata")
	}

	// Same ISBN again conflicts.
	rec = doRequest(t, s, http.MethodPost, "/api/books", addBookRequest{ISBN: isbn})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestGetAndDeleteBook(t *testing.T) {
	s := newTestServer(t, seedBooks(), nil)

	rec := doRequest(t, s, http.MethodGet, "/api/books/dune", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/books/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing get status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "BOOK_NOT_FOUND" {
		t.Errorf("error code = %q", resp.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/books/dune", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/books/dune", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s := newTestServer(t, seedBooks(), nil)

	rec := doRequest(t, s, http.MethodGet, "/api/layout?width=1000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Layout-Cache"); got != "miss" {
		t.Errorf("cache header = %q, want miss", got)
	}

	var out struct {
		Width float64 `json:"width"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	// 1000 snaps to the 900 breakpoint.
	if out.Width != 900 {
		t.Errorf("layout width = %v, want snapped 900", out.Width)
	}
	if len(out.Items) != 2 {
		t.Errorf("items = %d, want 2", len(out.Items))
	}

	rec = doRequest(t, s, http.MethodGet, "/api/layout?width=nope", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad width status = %d, want 400", rec.Code)
	}
}

func TestLayoutSVGEndpoint(t *testing.T) {
	s := newTestServer(t, seedBooks(), nil)

	rec := doRequest(t, s, http.MethodGet, "/api/layout/svg?labels=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "The Hobbit") {
		t.Error("SVG body missing expected content")
	}
}

func TestApplyMetadataFiltersCoverURL(t *testing.T) {
	unsafe := catalog.Book{ISBN: "9780134190440"}
	applyMetadata(&unsafe, metadata.Metadata{Title: "The Go Programming Language", CoverURL: "javascript:alert(1)"})
	if unsafe.CoverURL != "" {
		t.Errorf("CoverURL = %q, want non-http scheme rejected", unsafe.CoverURL)
	}
	if unsafe.Title != "The Go Programming Language" {
		t.Errorf("Title = %q, other fields must still apply", unsafe.Title)
	}

	safe := catalog.Book{ISBN: "9780134190440"}
	cover := "https://covers.openlibrary.org/b/id/1234-M.jpg"
	applyMetadata(&safe, metadata.Metadata{Title: "The Go Programming Language", CoverURL: cover})
	if safe.CoverURL != cover {
		t.Errorf("CoverURL = %q, want %q", safe.CoverURL, cover)
	}
}
