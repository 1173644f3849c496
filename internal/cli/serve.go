package cli

import (
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/internal/api"
	"github.com/kintree/kintree/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the JSON API: CRUD for people and relationships, the combined
family-tree read, and the cached layout endpoint.

The store and cache backends come from the config file (--config); without
one, records live in memory and caching is disabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr // flag overrides file
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			pc, err := openCache(ctx, cfg)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(pc, nil, c.Logger)
			defer runner.Close()

			c.Logger.Info("starting server",
				"addr", cfg.Addr,
				"store", cfg.Store.Backend,
				"cache", cfg.Cache.Backend)

			srv := api.NewServer(st, runner, c.Logger)
			return srv.Serve(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config, default :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to kintree.toml")

	return cmd
}
