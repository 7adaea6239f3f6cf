package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skein-viz/skein/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Skein HTTP API",
		Long: `Run the Skein HTTP API.

The server exposes the same pipeline the CLI runs: POST a service graph
to /api/layout or /api/render, and manage saved per-viewer node
positions under /api/positions. Cache and position storage backends come
from the config file (~/.config/skein/config.toml).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			srv := server.New(runner, runner.Positions, c.Logger, server.Config{Addr: addr})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
