package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/observability"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
	"github.com/matzehuels/mindlayout/pkg/server"
)

// metricsNamespace prefixes every exported Prometheus metric.
const metricsNamespace = "mindlayout"

// serveCommand creates the serve command that exposes the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Endpoints:
  POST /api/v1/layout              full layout of a document
  POST /api/v1/layout/incremental  overlap fix after an edit
  POST /api/v1/render              preview of a positioned document
  GET  /health                     liveness probe
  GET  /metrics                    Prometheus metrics

The cache backend and listen address come from the [cache] and [server]
sections of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := []server.Option{server.WithDefaults(pipeline.OptionsFromConfig(cfg.Layout))}
			if !noMetrics {
				hooks := observability.NewPrometheusHooks(metricsNamespace)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(hooks.Handler()))
			}

			c.Logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"cache", cfg.Cache.Backend,
				"metrics", !noMetrics)

			return server.New(runner, cfg.Server, c.Logger, opts...).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
