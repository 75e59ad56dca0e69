// Package cache provides caching for pipeline results and HTTP responses.
//
// Stages of the layout pipeline are pure functions of their inputs, which
// makes their outputs ideal cache candidates: the key is a content hash of
// the inputs, and an entry never goes stale as long as the inputs match.
// The engine itself never caches; callers decide where cached results are
// acceptable.
//
// Three backends implement the [Cache] interface:
//   - [FileCache]: directory of JSON files, for CLI usage
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: no-op, for tests and --no-cache runs
package cache

import (
	"context"
	"time"
)

// TTLs per cached value type. Layout and artifact entries are keyed by
// content hash and never go stale; their TTLs only bound disk usage.
// Metadata can change upstream, so it expires sooner.
const (
	TTLMetadata = 7 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different cached value types.
type Keyer interface {
	// HTTPKey generates a key for a cached HTTP response.
	HTTPKey(namespace, key string) string

	// MetadataKey generates a key for book metadata looked up by ISBN.
	MetadataKey(isbn string) string

	// LayoutKey generates a key for a computed shelf layout. itemsHash is
	// the content hash of the physical items in input order.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact derived from a
	// layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that affect computed geometry.
// Every field participates in the key: two calls differing in any field
// must never share a cache entry.
type LayoutKeyOpts struct {
	ContainerWidth  float64
	TargetRowHeight float64
	BaseHeight      float64
	GutterX         float64
	GutterY         float64
	JitterX         float64
	MaxTiltY        float64
	MaxHeightRatio  float64
	RaggedLastRow   bool
	Seed            uint64
}

// ArtifactKeyOpts are the render parameters that affect artifact bytes.
type ArtifactKeyOpts struct {
	Format     string
	Style      string
	Background string
}

// DefaultKeyer generates SHA-256 based keys with type prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return hashKey("http", namespace, key)
}

// MetadataKey generates a key for ISBN metadata caching.
func (k *DefaultKeyer) MetadataKey(isbn string) string {
	return hashKey("meta", isbn)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
