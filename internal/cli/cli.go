// Package cli implements the shelfline command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/internal/config"
	"github.com/shelfline/shelfline/pkg/buildinfo"
	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/metadata"
	"github.com/shelfline/shelfline/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "shelfline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "shelfline",
		Short:        "Shelfline lays out your book catalog as a virtual shelf",
		Long:         `Shelfline is a personal library catalog that arranges your books into justified shelf rows from their physical dimensions, rendered as SVG or exported as layout JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/shelfline/config.toml)")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		// Redis setup failures are surfaced; a misconfigured shared cache
		// should not silently degrade to per-run recomputation.
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     c.Config.Cache.RedisAddr,
			Password: c.Config.Cache.RedisPassword,
			DB:       c.Config.Cache.RedisDB,
		})
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured catalog backend.
func (c *CLI) newStore() (catalog.Store, error) {
	switch c.Config.Store.Backend {
	case "mongo":
		return catalog.NewMongoStore(context.Background(), catalog.MongoConfig{
			URI:        c.Config.Store.MongoURI,
			Database:   c.Config.Store.MongoDatabase,
			Collection: c.Config.Store.MongoCollection,
		})
	case "memory":
		return catalog.NewMemoryStore(), nil
	default:
		path := c.Config.Store.Path
		if path == "" {
			path = defaultCatalogPath()
		}
		return catalog.NewFileStore(path)
	}
}

// newMetadataClient builds the ISBN lookup client sharing the CLI cache.
func (c *CLI) newMetadataClient() (*metadata.Client, error) {
	store, err := c.newCache(false)
	if err != nil {
		return nil, err
	}
	var opts []metadata.Option
	if c.Config.Metadata.BaseURL != "" {
		opts = append(opts, metadata.WithBaseURL(c.Config.Metadata.BaseURL))
	}
	return metadata.NewClient(store, opts...), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/shelfline/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultCatalogPath returns the catalog file location under the user config
// directory, falling back to the working directory.
func defaultCatalogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "catalog.json"
	}
	return filepath.Join(dir, appName, "catalog.json")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
