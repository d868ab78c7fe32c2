package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// annotationConfigOptional marks commands that still run with defaults when
// the configuration files cannot be loaded.
const annotationConfigOptional = "finboard/config-optional"

// NewRootCmd creates the root Cobra command for the finboard CLI.
// It wires up configuration, logging, tracing and every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.Args[1:], os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with explicit args and env
// lookup for testability.
func NewRootCmdWithArgs(
	ver string,
	args []string,
	lookupEnv func(string) (string, bool),
) *cobra.Command {
	a := newApp(lookupEnv)

	cmd := &cobra.Command{
		Use:           "finboard",
		Short:         "Cached data backend for the positions dashboard",
		Long:          "finboard: read stocks, cryptos, positions and the autotrader through a TTL cache",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.cleanup()
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool("debug", false, "enable debug logging")
	pf.StringVar(&a.flags.configPath, "config", "", "global config file (default $FINBOARD_HOME/config.yaml)")
	pf.StringVar(&a.flags.projectDir, "project-dir", ".", "directory holding the .finboard/config.yaml overlay")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "trading API base URL (overrides upstream.base_url)")
	pf.StringVarP(&a.flags.output, "output", "o", outputTable, "output format (table, json)")
	pf.BoolVar(&a.flags.plain, "plain", false, "disable colors and borders")

	cmd.SetArgs(args)
	cmd.AddCommand(
		newServeCmd(a),
		newStatusCmd(a),
		newStocksCmd(a),
		newCryptosCmd(a),
		newPositionsCmd(a),
		newAutotraderCmd(a),
		newDashboardCmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

const rootCmdExample = `  # Serve the cached API on the configured address
  finboard serve

  # Check the trading API and its version
  finboard status

  # List stocks ordered by score
  finboard stocks list --sort score

  # Watch the dashboard, re-reading through the cache every 5 seconds
  finboard dashboard --watch 5s

  # Drop every cached stock entry from a running server
  finboard cache invalidate '^stocks:'

  # Initialize configuration
  finboard config init`
