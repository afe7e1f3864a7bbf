package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/internal/server"
	"github.com/matzehuels/chemlayout/pkg/observability/metrics"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Endpoints:
  GET  /healthz     liveness and build information
  GET  /metrics     Prometheus metrics
  POST /v1/layout   lay out and render one request

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, withMetrics bool) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var opts []server.Option
	if withMetrics {
		collector := metrics.NewCollector()
		collector.Register()
		opts = append(opts, server.WithMetrics(collector.Handler()))
	}

	cfg := c.Config
	fmt.Println(StyleTitle.Render("chemlayout API"))
	printKeyValue("address", cfg.Server.Addr)
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("metrics", fmt.Sprintf("%t", withMetrics))
	printNewline()

	return server.New(runner, cfg, opts...).ListenAndServe(ctx)
}
