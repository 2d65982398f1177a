package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvlayout/internal/config"
	"github.com/matzehuels/gvlayout/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var maxConcurrent int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

POST /v1/layout accepts {"graph": {...}, "config": {...}} and returns the
positioned nodes. Requests may choose the algorithm and graph attributes; the
engine binary, engine kind and timeout always come from the server settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, s)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			srv := server.New(server.Config{
				Addr:          s.Addr,
				Runner:        runner,
				Layout:        s.LayoutConfig(),
				Logger:        c.Logger,
				MaxConcurrent: maxConcurrent,
			})
			c.Logger.Info("serving", "addr", s.Addr, "engine", s.Engine, "binary", s.Binary)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", server.DefaultMaxConcurrent, "concurrent layout passes")
	addLayoutFlags(cmd.Flags())
	addCacheFlags(cmd.Flags())

	return cmd
}
