package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/finboard/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

// newConfigInitCmd creates the config init command for initializing configuration.
// It writes the global config unless --project is given, in which case the
// overlay under --project-dir is written instead.
func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

By default the global file ($FINBOARD_HOME/config.yaml, or ~/.finboard/config.yaml)
is written. With --project the overlay at <project-dir>/.finboard/config.yaml
is written instead; its sections replace the global ones when both exist.`,
		Example: `  # Create global configuration
  finboard config init

  # Create a project overlay in the current directory
  finboard config init --project

  # Create configuration, overwriting existing
  finboard config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			global, projectPath, err := a.configPaths()
			if err != nil {
				return err
			}
			path := global
			if project {
				if projectPath == "" {
					return errors.New("--project requires --project-dir")
				}
				path = projectPath
			}

			if !force {
				_, statErr := os.Stat(path)
				if statErr == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if saveErr := config.New().Save(path); saveErr != nil {
				return fmt.Errorf("failed to save configuration: %w", saveErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "write the project overlay instead of the global file")

	return cmd
}

// newConfigShowCmd prints the effective configuration as YAML after files
// and environment overrides.
func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
