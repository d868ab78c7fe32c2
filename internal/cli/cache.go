package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/server"
	"github.com/rshade/finboard/internal/tui"
)

// countOutput is the JSON shape of commands that remove entries.
type countOutput struct {
	Removed int `json:"removed"`
}

func newCacheCmd(a *app) *cobra.Command {
	var serverAddr string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and invalidate the cache of a running server",
		Long: `Talks to the /cache endpoints of a running "finboard serve". The server
address defaults to server.addr from the configuration.`,
	}
	cmd.PersistentFlags().StringVar(&serverAddr, "server", "", "address of the running server (default server.addr)")

	client := func() (*server.Client, error) {
		addr := serverAddr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		return server.NewClient(addr)
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show entry count, keys and hit/miss counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			s, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, s, func(m tui.Mode) string { return tui.RenderCacheStats(s.Stats, s.Gate, m) })
		},
	}

	info := &cobra.Command{
		Use:   "info KEY",
		Short: "Show age, TTL and time to expiry of one key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			v, err := c.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(cmd, v, func(m tui.Mode) string { return tui.RenderCacheInfo(v, m) })
		},
	}

	invalidate := &cobra.Command{
		Use:   "invalidate PATTERN",
		Short: "Remove every key matching a pattern",
		Long: `Removes every cached key matching PATTERN. By default the pattern is an
unanchored regular expression: "stocks:" also matches
"portfolio:stocks:positions", "^stocks:" does not. The server's cache.matcher
setting switches the syntax to glob or prefix.`,
		Example: `  finboard cache invalidate '^stocks:'
  finboard cache invalidate 'positions:(manual|autotrader)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			n, err := c.Invalidate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printCount(cmd, n, "Invalidated %d entries\n")
		},
	}

	var key string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry, or one with --key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			var n int
			if key != "" {
				n, err = c.Delete(cmd.Context(), key)
			} else {
				n, err = c.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.printCount(cmd, n, "Removed %d entries\n")
		},
	}
	clearCmd.Flags().StringVar(&key, "key", "", "remove only this key")

	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired entries now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			n, err := c.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			return a.printCount(cmd, n, "Swept %d expired entries\n")
		},
	}

	cmd.AddCommand(stats, info, invalidate, clearCmd, sweep)
	return cmd
}

// printCount reports a removal count as JSON or with format.
func (a *app) printCount(cmd *cobra.Command, n int, format string) error {
	return a.print(cmd, countOutput{Removed: n}, func(tui.Mode) string {
		return fmt.Sprintf(format, n)
	})
}
