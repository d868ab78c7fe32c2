package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/tui"
	"github.com/rshade/finboard/internal/upstream"
)

// sortScore is the only accepted --sort value.
const sortScore = "score"

func newStocksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stocks", Short: "Scored stock quotes"}

	var sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List stocks",
		Example: `  finboard stocks list
  finboard stocks list --sort score -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			byScore, err := parseSort(sortBy)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			stocks, err := svc.Stocks(cmd.Context(), byScore)
			if err != nil {
				return fmt.Errorf("listing stocks: %w", err)
			}
			return a.print(cmd, stocks, func(m tui.Mode) string { return tui.RenderStocks(stocks, m) })
		},
	}
	list.Flags().StringVar(&sortBy, "sort", "", "sort order (score)")

	get := &cobra.Command{
		Use:   "get SYMBOL",
		Short: "Show one stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			stock, err := svc.Stock(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting stock %s: %w", args[0], err)
			}
			return a.print(cmd, stock, func(m tui.Mode) string {
				return tui.RenderStocks([]upstream.Stock{stock}, m)
			})
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Ask the API to refresh stock quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RefreshStocks(cmd.Context()); err != nil {
				return fmt.Errorf("refreshing stocks: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stock quotes refreshed")
			return nil
		},
	}

	cmd.AddCommand(list, get, refresh)
	return cmd
}

func newCryptosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cryptos", Short: "Scored crypto quotes"}

	var sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List cryptos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			byScore, err := parseSort(sortBy)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			cryptos, err := svc.Cryptos(cmd.Context(), byScore)
			if err != nil {
				return fmt.Errorf("listing cryptos: %w", err)
			}
			return a.print(cmd, cryptos, func(m tui.Mode) string { return tui.RenderCryptos(cryptos, m) })
		},
	}
	list.Flags().StringVar(&sortBy, "sort", "", "sort order (score)")

	get := &cobra.Command{
		Use:   "get SYMBOL",
		Short: "Show one crypto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			crypto, err := svc.Crypto(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting crypto %s: %w", args[0], err)
			}
			return a.print(cmd, crypto, func(m tui.Mode) string {
				return tui.RenderCryptos([]upstream.Crypto{crypto}, m)
			})
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Ask the API to refresh crypto quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RefreshCryptos(cmd.Context()); err != nil {
				return fmt.Errorf("refreshing cryptos: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Crypto quotes refreshed")
			return nil
		},
	}

	cmd.AddCommand(list, get, refresh)
	return cmd
}

// parseSort validates --sort.
func parseSort(v string) (bool, error) {
	switch v {
	case "":
		return false, nil
	case sortScore:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported sort order %q (supported: %s)", v, sortScore)
	}
}
