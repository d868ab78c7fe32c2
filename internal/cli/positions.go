package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/tui"
	"github.com/rshade/finboard/internal/upstream"
)

// positionsOutput is the JSON shape of `finboard positions list`.
type positionsOutput struct {
	Autotrader []upstream.Position `json:"autotrader,omitempty"`
	Manual     []upstream.Position `json:"manual,omitempty"`
}

func newPositionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "positions", Short: "Autotrader and manual positions"}

	var (
		source    string
		assetType string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List open positions",
		Example: `  # Both autotrader and manual positions
  finboard positions list

  # Autotrader crypto positions only
  finboard positions list --source autotrader --type crypto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source = strings.ToLower(source)
			if source != "all" && source != upstream.SourceAutotrader && source != upstream.SourceManual {
				return fmt.Errorf("unsupported source %q (supported: all, autotrader, manual)", source)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var out positionsOutput
			if source != upstream.SourceManual {
				out.Autotrader, err = svc.AutotraderPositions(ctx, assetType)
				if err != nil {
					return fmt.Errorf("listing autotrader positions: %w", err)
				}
			}
			if source != upstream.SourceAutotrader {
				out.Manual, err = svc.ManualPositions(ctx)
				if err != nil {
					return fmt.Errorf("listing manual positions: %w", err)
				}
			}

			return a.print(cmd, out, func(m tui.Mode) string {
				var b strings.Builder
				if source != upstream.SourceManual {
					b.WriteString(tui.RenderPositions("AUTOTRADER POSITIONS", out.Autotrader, m))
				}
				if source == "all" {
					b.WriteByte('\n')
				}
				if source != upstream.SourceAutotrader {
					b.WriteString(tui.RenderPositions("MANUAL POSITIONS", out.Manual, m))
				}
				return b.String()
			})
		},
	}
	list.Flags().StringVar(&source, "source", "all", "which positions to list (all, autotrader, manual)")
	list.Flags().StringVar(&assetType, "type", "", "autotrader asset type filter (stock, crypto)")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Ask the API to revalue open positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RefreshPositions(cmd.Context()); err != nil {
				return fmt.Errorf("refreshing positions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Positions refreshed")
			return nil
		},
	}

	cmd.AddCommand(list, refresh)
	return cmd
}
