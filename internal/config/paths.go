package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the configuration directory.
const EnvHome = "FINBOARD_HOME"

// GetConfigDir returns the path to the finboard configuration directory.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// DefaultConfigPath returns the global config file path (~/.finboard/config.yaml).
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ProjectConfigPath returns the project overlay path under dir
// (dir/.finboard/config.yaml), or "" when dir is empty.
func ProjectConfigPath(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return filepath.Join(abs, configDirName, configFileName)
}

// EnsureLogDir creates the directory of the configured log file, if any.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
