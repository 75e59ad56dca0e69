package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		width      float64
		labels     bool
		background string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the shelf layout and write it to disk",
		Long: `Compute the shelf layout and write it to disk.

Reads the whole catalog, normalizes physical dimensions, packs the books
into justified rows, and writes the result as SVG and/or layout JSON.
Layouts are cached locally; identical catalogs and settings render
instantly on subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				ContainerWidth: c.Config.Layout.ContainerWidth,
				Layout:         c.Config.ShelfConfig(),
				Formats:        parseFormats(formatsStr),
				Labels:         labels,
				Background:     background,
				Refresh:        refresh,
				Logger:         c.Logger,
			}
			if width > 0 {
				opts.ContainerWidth = width
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().Float64VarP(&width, "width", "w", 0, "container width in pixels (default from config)")
	cmd.Flags().BoolVar(&labels, "labels", false, "render title labels on book spines")
	cmd.Flags().StringVar(&background, "background", "", "SVG background color (default warm paper)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Arranging the shelf...")
	spinner.Start()
	result, err := runner.Execute(ctx, store, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	printSuccess("Shelf arranged")
	printStats(result.Stats.BookCount, result.Stats.RowCount, result.Stats.ExcludedCount, result.CacheInfo.LayoutHit)
	for _, ex := range result.Layout.Excluded {
		printWarning("Skipped %s: %s", ex.ID, ex.Reason)
	}

	return writeArtifacts(result.Artifacts, opts.Formats, output)
}

// writeArtifacts writes rendered outputs to disk. With one format, output
// names the file directly; with several, it is the base path and each
// format appends its extension. An empty output defaults to "shelf".
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	base := output
	if base == "" {
		base = "shelf"
	}

	for _, format := range formats {
		path := base
		if len(formats) > 1 || filepath.Ext(path) == "" {
			path = strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
		}
		if err := errors.ValidatePath(path); err != nil {
			return err
		}

		data, ok := artifacts[format]
		if !ok {
			return fmt.Errorf("no %s artifact produced", format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
