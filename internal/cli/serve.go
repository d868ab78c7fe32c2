package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/logging"
	"github.com/rshade/finboard/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cached dashboard API",
		Long: `Serves the trading API through the TTL cache, plus cache diagnostics under /cache.

Expired entries are removed by a background sweep every cache.sweep_interval
in addition to the sweep that follows each write.`,
		Example: `  # Serve on the configured address
  finboard serve

  # Serve on all interfaces
  finboard serve --addr 0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			if interval := a.cfg.Cache.SweepInterval; interval > 0 {
				go func() {
					if janitorErr := svc.Store().RunJanitor(ctx, interval); janitorErr != nil {
						a.logger.Error().Err(janitorErr).Msg("cache janitor stopped")
					}
				}()
			}

			srv := server.New(svc, logging.ComponentLogger(a.baseLogger, "server"))
			fmt.Fprintf(cmd.OutOrStdout(), "finboard serving on http://%s (upstream %s)\n", addr, a.cfg.Upstream.BaseURL)
			return srv.Run(ctx, addr, a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
