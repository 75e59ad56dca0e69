// Package config loads the Shelfline configuration file.
//
// Configuration is TOML, resolved from --config, $SHELFLINE_CONFIG, or
// ~/.config/shelfline/config.toml in that order. A missing file is not an
// error; every field has a working default so the CLI runs unconfigured.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/shelf"
)

// EnvConfig names the environment variable that overrides the config path.
const EnvConfig = "SHELFLINE_CONFIG"

// Config is the full application configuration.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Layout   LayoutConfig   `toml:"layout"`
	Metadata MetadataConfig `toml:"metadata"`
}

// StoreConfig selects and configures the catalog backend.
type StoreConfig struct {
	// Backend is "file", "mongo", or "memory".
	Backend string `toml:"backend"`

	// Path is the catalog JSON file for the file backend. Empty means the
	// default location under the user config directory.
	Path string `toml:"path"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend. Empty means the
	// default location under the user cache directory.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LayoutConfig carries the default layout parameters and the responsive
// width breakpoints the server recognizes.
type LayoutConfig struct {
	ContainerWidth  float64 `toml:"container_width"`
	TargetRowHeight float64 `toml:"target_row_height"`
	BaseHeight      float64 `toml:"base_height"`
	GutterX         float64 `toml:"gutter_x"`
	GutterY         float64 `toml:"gutter_y"`
	JitterX         float64 `toml:"jitter_x"`
	MaxTiltY        float64 `toml:"max_tilt_y"`
	MaxHeightRatio  float64 `toml:"max_height_ratio"`
	RaggedLastRow   bool    `toml:"ragged_last_row"`
	Seed            uint64  `toml:"seed"`

	// Breakpoints are the container widths the server accepts for the
	// width query parameter; requests snap to the nearest one so layout
	// cache entries stay shared across clients.
	Breakpoints []float64 `toml:"breakpoints"`
}

// MetadataConfig configures the ISBN lookup client.
type MetadataConfig struct {
	BaseURL string `toml:"base_url"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := shelf.DefaultConfig()
	return Config{
		Store: StoreConfig{
			Backend:         "file",
			MongoDatabase:   "shelfline",
			MongoCollection: "books",
		},
		Cache:  CacheConfig{Backend: "file"},
		Server: ServerConfig{Addr: ":8321"},
		Layout: LayoutConfig{
			ContainerWidth:  900,
			TargetRowHeight: cfg.TargetRowHeight,
			BaseHeight:      cfg.BaseHeight,
			GutterX:         cfg.GutterX,
			GutterY:         cfg.GutterY,
			JitterX:         cfg.JitterX,
			MaxTiltY:        cfg.MaxTiltY,
			MaxHeightRatio:  cfg.MaxHeightRatio,
			RaggedLastRow:   cfg.RaggedLastRow,
			Seed:            cfg.Seed,
			Breakpoints:     []float64{480, 768, 900, 1200, 1600},
		},
	}
}

// Load reads the configuration from path. When path is empty it falls back
// to $SHELFLINE_CONFIG, then the default location; a missing file at either
// fallback yields [Default] without error. An explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns ~/.config/shelfline/config.toml (or the platform
// equivalent of the user config directory).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shelfline", "config.toml")
}

// Validate checks backend selections and layout parameters.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "file", "mongo", "memory":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (must be file, mongo, or memory)", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo requires mongo_uri")
	}

	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}

	return c.ShelfConfig().Validate()
}

// ShelfConfig converts the layout section into an engine config.
func (c Config) ShelfConfig() shelf.Config {
	return shelf.Config{
		TargetRowHeight: c.Layout.TargetRowHeight,
		BaseHeight:      c.Layout.BaseHeight,
		GutterX:         c.Layout.GutterX,
		GutterY:         c.Layout.GutterY,
		JitterX:         c.Layout.JitterX,
		MaxTiltY:        c.Layout.MaxTiltY,
		MaxHeightRatio:  c.Layout.MaxHeightRatio,
		RaggedLastRow:   c.Layout.RaggedLastRow,
		Seed:            c.Layout.Seed,
	}
}

// SnapWidth returns the configured breakpoint nearest to w. With no
// breakpoints configured it returns w unchanged.
func (c Config) SnapWidth(w float64) float64 {
	if len(c.Layout.Breakpoints) == 0 {
		return w
	}
	best := c.Layout.Breakpoints[0]
	for _, bp := range c.Layout.Breakpoints[1:] {
		if abs(bp-w) < abs(best-w) {
			best = bp
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
