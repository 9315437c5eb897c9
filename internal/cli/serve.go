package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/internal/server"
	"github.com/matzehuels/albumstack/pkg/session"
)

// serveCommand creates the "serve" command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documents, layouts and previews over HTTP",
		Long: `Serve the configured document store over HTTP.

Every write accepts an If-Match header with the revision the client last
saw and answers 412 when another writer got there first.

  albumstack serve --addr :8080
  curl localhost:8080/v1/documents/album_001/preview.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := c.store(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(session.NewManager(st, c.Logger), runner, c.Logger)
			printInfo("Serving %s on %s", cfg.Store.Backend, StyleHighlight.Render(cfg.Server.Addr))
			return srv.ListenAndServe(ctx, server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
