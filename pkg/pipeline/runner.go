package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/render"
	"github.com/shelfline/shelfline/pkg/shelf"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, store catalog.Store, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	books, err := store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load catalog")
	}
	result.Books = books
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.BookCount = len(books)

	items := catalog.PhysicalItems(books)
	result.ItemsHash = cache.HashJSON(items)

	r.Logger.Info("loaded catalog",
		"books", len(books),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RowCount = len(layout.Rows)
	result.Stats.ExcludedCount = len(layout.Excluded)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"rows", len(layout.Rows),
		"excluded", len(layout.Excluded),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, books, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, items []shelf.PhysicalItem, opts Options) (shelf.Result, bool, error) {
	opts.SetLayoutDefaults()

	itemsHash := cache.HashJSON(items)
	cacheKey := r.Keyer.LayoutKey(itemsHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached shelf.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
			// Corrupt entry; fall through to recompute.
		}
	}

	layout, err := shelf.Layout(items, opts.ContainerWidth, opts.Layout)
	if err != nil {
		return shelf.Result{}, false, err
	}

	if data, err := json.Marshal(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return layout, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, items []shelf.PhysicalItem, opts Options) (shelf.Result, error) {
	layout, _, err := r.ComputeLayoutWithCacheInfo(ctx, items, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout shelf.Result, books []catalog.Book, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutHash := cache.HashJSON(layout)

	// Try to get all formats from cache first.
	allCached := true
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := renderFormats(layout, books, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout shelf.Result, books []catalog.Book, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, books, opts)
	return artifacts, err
}

func renderFormats(layout shelf.Result, books []catalog.Book, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			svgOpts := []render.SVGOption{render.WithBooks(books)}
			if opts.Labels {
				svgOpts = append(svgOpts, render.WithLabels())
			}
			if opts.Background != "" {
				svgOpts = append(svgOpts, render.WithBackground(opts.Background))
			}
			artifacts[format] = render.RenderSVG(layout, svgOpts...)
		case FormatJSON:
			data, err := render.RenderJSON(layout,
				render.WithJSONBooks(books),
				render.WithJSONSeed(opts.Layout.Seed))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
