// Package api exposes the catalog and layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz            liveness probe
//	GET    /api/books          list the catalog
//	POST   /api/books          add a book (metadata lookup when only an ISBN is given)
//	GET    /api/books/{id}     fetch one book
//	DELETE /api/books/{id}     remove a book
//	GET    /api/layout         computed layout JSON (?width=, ?refresh=)
//	GET    /api/layout/svg     rendered SVG (?width=, ?labels=)
//
// Errors are returned as JSON objects carrying the structured error code,
// so clients can branch without parsing messages.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shelfline/shelfline/internal/config"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/metadata"
	"github.com/shelfline/shelfline/pkg/pipeline"
)

// Server hosts the HTTP API.
type Server struct {
	store  catalog.Store
	runner *pipeline.Runner
	meta   *metadata.Client
	cfg    config.Config
	logger *log.Logger
	router chi.Router
}

// NewServer assembles the router. meta may be nil, in which case adding a
// book by bare ISBN is rejected.
func NewServer(store catalog.Store, runner *pipeline.Runner, meta *metadata.Client, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:  store,
		runner: runner,
		meta:   meta,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.handleListBooks)
		r.Post("/books", s.handleAddBook)
		r.Get("/books/{id}", s.handleGetBook)
		r.Delete("/books/{id}", s.handleDeleteBook)
		r.Get("/layout", s.handleLayout)
		r.Get("/layout/svg", s.handleLayoutSVG)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
