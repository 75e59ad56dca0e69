package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/pipeline"
	"github.com/shelfline/shelfline/pkg/render"
)

// visualizeCommand creates the visualize command for re-rendering a
// previously exported layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output     string
		labels     bool
		background string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render an SVG from a computed layout",
		Long: `Render an SVG from a computed layout.

The visualize command takes a layout JSON file (produced by 'layout
--format json') and renders it to SVG. The layout already contains all
positioning information, so this step never touches the catalog or
re-packs the shelf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], output, background, labels, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default shelf.svg)")
	cmd.Flags().BoolVar(&labels, "labels", false, "render title labels on book spines")
	cmd.Flags().StringVar(&background, "background", "", "SVG background color (default warm paper)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input, output, background string, labels, noCache bool) error {
	doc, err := render.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Formats:    []string{pipeline.FormatSVG},
		Labels:     labels,
		Background: background,
		Logger:     c.Logger,
	}
	opts.Layout.Seed = doc.Seed

	spinner := newSpinnerWithContext(ctx, "Rendering shelf...")
	spinner.Start()
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc.Result, doc.Books, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	printSuccess("Shelf rendered")
	if cacheHit {
		printInfo("Served from cache")
	}

	return writeArtifacts(artifacts, opts.Formats, output)
}
