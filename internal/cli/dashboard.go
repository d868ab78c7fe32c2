package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/dashboard"
	"github.com/rshade/finboard/internal/tui"
)

// clearScreen moves the cursor home and clears a terminal.
const clearScreen = "\033[H\033[2J"

// dashboardOutput is the JSON shape of one dashboard tick.
type dashboardOutput struct {
	*dashboard.Snapshot

	Gate cache.GateStats `json:"gate"`
}

func newDashboardCmd(a *app) *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show every dashboard panel",
		Long: `Loads the portfolio overview, autotrader summary, stocks, cryptos and both
position lists concurrently through the cache and prints them with the cache
statistics.

With --watch the dashboard is re-read every interval until interrupted. Reads
within a key's TTL are served from the cache, so the trading API is only
called when entries expire.`,
		Example: `  finboard dashboard
  finboard dashboard --watch 5s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch < 0 {
				return fmt.Errorf("--watch cannot be negative, got %s", watch)
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			if watch == 0 {
				return a.renderDashboard(cmd.Context(), cmd, svc, false)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watchDashboard(ctx, cmd, svc, watch)
		},
	}

	cmd.Flags().DurationVar(&watch, "watch", 0, "re-read the dashboard every interval (e.g. 5s)")
	return cmd
}

// watchDashboard renders the dashboard every interval until ctx is done.
// Tick failures are reported and the loop continues.
func (a *app) watchDashboard(ctx context.Context, cmd *cobra.Command, svc *dashboard.Service, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := a.renderDashboard(ctx, cmd, svc, true); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Warn().Ctx(ctx).Err(err).Msg("dashboard refresh failed")
			cmd.PrintErrf("Warning: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// renderDashboard takes one snapshot and prints it followed by cache stats.
func (a *app) renderDashboard(ctx context.Context, cmd *cobra.Command, svc *dashboard.Service, watching bool) error {
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}

	gate := svc.Gate().Stats()
	out := dashboardOutput{Snapshot: snap, Gate: gate}
	return a.print(cmd, out, func(m tui.Mode) string {
		prefix := ""
		if watching && m == tui.ModeStyled {
			prefix = clearScreen
		}
		return prefix + tui.RenderSnapshot(snap, m) + "\n" + tui.RenderCacheStats(snap.Cache, gate, m)
	})
}
