// Package pipeline provides the core layout pipeline for Shelfline.
//
// This package implements the complete load → layout → render pipeline used
// by both the CLI and the HTTP API. Centralizing it keeps behavior identical
// across entry points and puts the caching logic in one place.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read books from a catalog store and turn them into physical items
//  2. Layout: run the shelf engine to compute row and item geometry
//  3. Render: generate output in various formats (SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ContainerWidth: 900,
//	    Formats:        []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, store, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/shelf"
)

// DefaultContainerWidth is the frame width in pixels when none is given.
const DefaultContainerWidth = 900.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	ContainerWidth float64      `json:"container_width,omitempty"`
	Layout         shelf.Config `json:"layout,omitzero"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh bypasses the cache for every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Books are the catalog records the layout was computed from.
	Books []catalog.Book

	// ItemsHash is the content hash of the physical items in input order.
	ItemsHash string

	// Layout is the computed shelf geometry.
	Layout shelf.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BookCount     int
	RowCount      int
	ExcludedCount int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.ContainerWidth == 0 {
		o.ContainerWidth = DefaultContainerWidth
	}
	o.Layout.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ContainerWidth:  o.ContainerWidth,
		TargetRowHeight: o.Layout.TargetRowHeight,
		BaseHeight:      o.Layout.BaseHeight,
		GutterX:         o.Layout.GutterX,
		GutterY:         o.Layout.GutterY,
		JitterX:         o.Layout.JitterX,
		MaxTiltY:        o.Layout.MaxTiltY,
		MaxHeightRatio:  o.Layout.MaxHeightRatio,
		RaggedLastRow:   o.Layout.RaggedLastRow,
		Seed:            o.Layout.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := "plain"
	if o.Labels {
		style = "labeled"
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      style,
		Background: o.Background,
	}
}
