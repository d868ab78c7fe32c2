package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/tui"
)

func newAutotraderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "autotrader", Short: "Autotrader control and summary"}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run one autotrader cycle now",
		Long: `Triggers an autotrader cycle. Cached positions and the autotrader summary
are invalidated before the request is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.RunAutotrader(cmd.Context())
			if err != nil {
				return fmt.Errorf("running autotrader: %w", err)
			}
			return a.print(cmd, res, func(m tui.Mode) string { return tui.RenderRunResult(res, m) })
		},
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show the last autotrader cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			sum, err := svc.AutotraderSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("getting autotrader summary: %w", err)
			}
			return a.print(cmd, sum, func(m tui.Mode) string { return tui.RenderAutotraderSummary(sum, m) })
		},
	}

	cmd.AddCommand(run, summary)
	return cmd
}
