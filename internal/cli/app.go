package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/config"
	"github.com/rshade/finboard/internal/dashboard"
	"github.com/rshade/finboard/internal/logging"
	"github.com/rshade/finboard/internal/tui"
	"github.com/rshade/finboard/internal/upstream"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// rootFlags holds the persistent flags of the root command.
type rootFlags struct {
	configPath string
	projectDir string
	apiURL     string
	output     string
	plain      bool
}

// app is the state shared by every command of one root command tree.
type app struct {
	lookupEnv func(string) (string, bool)
	flags     rootFlags

	cfg        *config.Config
	baseLogger zerolog.Logger
	logger     zerolog.Logger
	logResult  *logging.Result

	svc *dashboard.Service
}

func newApp(lookupEnv func(string) (string, bool)) *app {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &app{
		lookupEnv:  lookupEnv,
		baseLogger: zerolog.Nop(),
		logger:     zerolog.Nop(),
	}
}

// setup loads configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.flags.output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json)", a.flags.output)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		if cmd.Annotations[annotationConfigOptional] != "true" {
			return err
		}
		cmd.PrintErrf("Warning: ignoring unusable configuration: %v\n", err)
		cfg = config.New()
	}
	if a.flags.apiURL != "" {
		cfg.Upstream.BaseURL = a.flags.apiURL
		if validateErr := cfg.Validate(); validateErr != nil {
			return fmt.Errorf("--api-url: %w", validateErr)
		}
	}
	a.cfg = cfg

	a.setupLogging(cmd)
	return nil
}

// configPaths returns the global and project config file paths.
func (a *app) configPaths() (string, string, error) {
	global := a.flags.configPath
	if global == "" {
		var err error
		global, err = config.DefaultConfigPath()
		if err != nil {
			return "", "", err
		}
	}
	return global, config.ProjectConfigPath(a.flags.projectDir), nil
}

func (a *app) loadConfig() (*config.Config, error) {
	global, project, err := a.configPaths()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithEnv(global, project, a.lookupEnv)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// cleanup closes the log file handle, if any.
func (a *app) cleanup() error {
	if a.logResult != nil {
		return a.logResult.Close()
	}
	return nil
}

// service returns the dashboard service, building the cache store, gate and
// upstream client from configuration on first use.
func (a *app) service() (*dashboard.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	policy, err := a.cfg.StorePolicy()
	if err != nil {
		return nil, fmt.Errorf("building cache policy: %w", err)
	}
	compile, err := cache.MatcherFactory(a.cfg.Cache.Matcher)
	if err != nil {
		return nil, fmt.Errorf("building cache matcher: %w", err)
	}
	storeOpts := []cache.Option{
		cache.WithPolicy(policy),
		cache.WithMatcherFactory(compile),
		cache.WithLogger(logging.ComponentLogger(a.baseLogger, "cache")),
	}
	if !a.cfg.Cache.WriteSweep {
		storeOpts = append(storeOpts, cache.WithoutWriteSweep())
	}
	store := cache.New(storeOpts...)

	gateOpts := []cache.GateOption{cache.WithGateLogger(logging.ComponentLogger(a.baseLogger, "gate"))}
	if !a.cfg.Cache.Enabled {
		gateOpts = append(gateOpts, cache.WithBypass())
	}
	if a.cfg.Cache.Coalesce {
		gateOpts = append(gateOpts, cache.WithCoalescing())
	}
	if a.cfg.Cache.StaleTTL > 0 {
		gateOpts = append(gateOpts, cache.WithStaleCopy(a.cfg.Cache.StaleTTL))
	}

	client, err := upstream.NewClient(
		a.cfg.Upstream.BaseURL,
		a.cfg.Upstream.Timeout,
		upstream.WithHealthTimeout(a.cfg.Upstream.HealthTimeout),
		upstream.WithLogger(logging.ComponentLogger(a.baseLogger, "upstream")),
	)
	if err != nil {
		return nil, fmt.Errorf("creating upstream client: %w", err)
	}

	a.svc = dashboard.NewService(client, cache.NewGate(store, gateOpts...),
		dashboard.WithLogger(logging.ComponentLogger(a.baseLogger, "dashboard")))
	return a.svc, nil
}

// mode picks styled output for terminals unless --plain is set.
func (a *app) mode(cmd *cobra.Command) tui.Mode {
	if a.flags.plain {
		return tui.ModePlain
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return tui.DetectMode(f)
	}
	return tui.ModePlain
}

// print writes v as indented JSON with --output json, otherwise the
// rendered table.
func (a *app) print(cmd *cobra.Command, v any, render func(tui.Mode) string) error {
	if a.flags.output == outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), render(a.mode(cmd)))
	return nil
}
