package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/metadata"
	"github.com/shelfline/shelfline/pkg/pipeline"
)

// errorResponse is the JSON body for every error status.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

// statusFor maps structured error codes onto HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidItem, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidISBN, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeBookNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if books == nil {
		books = []catalog.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// addBookRequest accepts either a full book record or a bare ISBN. With a
// bare ISBN the missing fields are filled from metadata lookup.
type addBookRequest struct {
	ISBN     string  `json:"isbn,omitempty"`
	Title    string  `json:"title,omitempty"`
	Author   string  `json:"author,omitempty"`
	WidthMM  float64 `json:"width_mm,omitempty"`
	HeightMM float64 `json:"height_mm,omitempty"`
	SpineMM  float64 `json:"spine_mm,omitempty"`
	Pages    int     `json:"pages,omitempty"`
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Title == "" && req.ISBN == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "title or isbn is required"))
		return
	}

	book := catalog.Book{
		ID:       catalog.NewID(),
		ISBN:     req.ISBN,
		Title:    req.Title,
		Author:   req.Author,
		WidthMM:  req.WidthMM,
		HeightMM: req.HeightMM,
		SpineMM:  req.SpineMM,
		Pages:    req.Pages,
		AddedAt:  time.Now().UTC(),
	}

	if req.ISBN != "" {
		book.ISBN = errors.NormalizeISBN(req.ISBN)
		if err := errors.ValidateISBN(book.ISBN); err != nil {
			writeError(w, err)
			return
		}
		if existing, err := s.store.FindByISBN(r.Context(), book.ISBN); err == nil {
			writeJSON(w, http.StatusConflict, errorResponse{
				Code:    string(errors.ErrCodeInvalidInput),
				Message: "book already in catalog: " + existing.ID,
			})
			return
		}
	}

	// Fill gaps from metadata when the record is incomplete.
	if book.ISBN != "" && s.meta != nil && needsMetadata(book) {
		if m, err := s.meta.Lookup(r.Context(), book.ISBN, false); err == nil {
			applyMetadata(&book, m)
		} else if book.Title == "" {
			// Nothing to fall back to without a title.
			writeError(w, err)
			return
		}
	}
	if book.Title == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "title is required when metadata lookup is unavailable"))
		return
	}

	if err := s.store.Put(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func needsMetadata(b catalog.Book) bool {
	return b.Title == "" || b.WidthMM == 0 || b.HeightMM == 0 || b.SpineMM == 0
}

func applyMetadata(b *catalog.Book, m metadata.Metadata) {
	if b.Title == "" {
		b.Title = m.Title
	}
	if b.Author == "" {
		b.Author = strings.Join(m.Authors, ", ")
	}
	if b.WidthMM == 0 {
		b.WidthMM = m.WidthMM
	}
	if b.HeightMM == 0 {
		b.HeightMM = m.HeightMM
	}
	if b.SpineMM == 0 {
		b.SpineMM = m.SpineMM
	}
	if b.Pages == 0 {
		b.Pages = m.Pages
	}
	if b.CoverURL == "" && errors.ValidateURL(m.CoverURL) == nil {
		// Cover URLs are echoed back to browsing clients; only http(s)
		// schemes may enter the catalog.
		b.CoverURL = m.CoverURL
	}
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutOptions builds pipeline options from query parameters, snapping the
// requested width to the configured breakpoints.
func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		ContainerWidth: s.cfg.Layout.ContainerWidth,
		Layout:         s.cfg.ShelfConfig(),
		Logger:         s.logger,
	}

	if raw := r.URL.Query().Get("width"); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "width must be a positive number, got %q", raw)
		}
		opts.ContainerWidth = s.cfg.SnapWidth(w)
	}
	if r.URL.Query().Get("refresh") == "true" {
		opts.Refresh = true
	}
	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), s.store, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Layout-Cache", cacheHeader(result.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Labels = r.URL.Query().Get("labels") == "true"

	result, err := s.runner.Execute(r.Context(), s.store, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Layout-Cache", cacheHeader(result.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatSVG])
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
