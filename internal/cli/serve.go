package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/config"
	"github.com/matzehuels/blueprint/pkg/observability"
	"github.com/matzehuels/blueprint/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noPlanner bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and blueprint HTTP API",
		Long: `Serve the layout and blueprint HTTP API.

Routes:
  GET    /health                               backend status
  GET    /metrics                              Prometheus metrics
  POST   /api/layout                           lay out a graph
  POST   /api/render                           lay out and render a graph
  POST   /api/questions                        clarifying questions for an idea
  GET    /api/blueprints                       list saved projects
  POST   /api/blueprints                       generate or store a blueprint
  GET    /api/blueprints/{id}                  one project
  DELETE /api/blueprints/{id}                  delete a project
  GET    /api/blueprints/{id}/diagrams/{kind}  lay out a project diagram

Cache, store and backend come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Server.RequestTimeout.Duration = timeout
			}
			if noMetrics {
				cfg.Server.Metrics = false
			}
			return c.runServe(cmd.Context(), cfg, !noPlanner)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&noPlanner, "no-planner", false, "accept only inline blueprints")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, withPlanner bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithRequestTimeout(cfg.Server.RequestTimeout.Duration),
		server.WithDefaults(configOptions(cfg)),
	}
	if withPlanner {
		client, err := c.newPlanner(cfg)
		if err != nil {
			return err
		}
		if err := client.Health(ctx); err != nil {
			logger.Warn("planning backend not reachable yet", "url", client.BaseURL(), "err", err)
		}
		opts = append(opts, server.WithPlanner(client))
	}
	if cfg.Server.Metrics {
		prom := observability.NewPromHooks(nil)
		prom.Install()
		defer observability.Reset()
		opts = append(opts, server.WithMetrics(prom.Handler()))
	}

	logger.Info("serving",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"planner", withPlanner,
		"metrics", cfg.Server.Metrics)
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))

	return server.New(runner, st, opts...).Run(ctx, cfg.Server.Addr)
}

// displayAddr turns a listen address such as ":8080" into a host:port.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
