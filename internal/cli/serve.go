package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Serves the catalog and layout endpoints until interrupted. The server
shares the CLI cache, so layouts computed here are reused by later
'layout' runs and vice versa.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	meta, err := c.newMetadataClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printInfo("Serving on %s", StyleHighlight.Render(c.Config.Server.Addr))
	printDetail("press ctrl+c to stop")

	server := api.NewServer(store, runner, meta, c.Config, c.Logger)
	return server.ListenAndServe(ctx)
}
