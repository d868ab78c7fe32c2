package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 60 * time.Second
	DefaultHealthTimeout = 5 * time.Second
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultSweepInterval = time.Minute
	DefaultLogLevel      = "info"

	configFileName = "config.yaml"
	configDirName  = ".finboard"
)

// Config is the complete finboard configuration.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// UpstreamConfig describes the remote trading API.
type UpstreamConfig struct {
	// BaseURL is the API root; resource calls go to BaseURL + "/api/v1".
	BaseURL string `yaml:"base_url"`

	// Timeout bounds every API call.
	Timeout time.Duration `yaml:"timeout"`

	// HealthTimeout bounds the /health probe.
	HealthTimeout time.Duration `yaml:"health_timeout"`

	// MinVersion is an optional semver constraint the upstream's reported
	// version must satisfy, e.g. ">= 1.4.0".
	MinVersion string `yaml:"min_version,omitempty"`
}

// CacheConfig tunes the in-process cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespaces overrides the default namespace table. Order matters.
	Namespaces []cache.NamespaceTTL `yaml:"namespaces,omitempty"`

	// DefaultTTL applies to keys matching no namespace.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// StaleTTL > 0 makes the gate keep a stale copy of every result.
	StaleTTL time.Duration `yaml:"stale_ttl"`

	// Coalesce shares one upstream call between concurrent misses.
	Coalesce bool `yaml:"coalesce"`

	// WriteSweep runs a full expiry sweep after every write.
	WriteSweep bool `yaml:"write_sweep"`

	// SweepInterval is the background sweep period in serve mode (0 disables).
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// Matcher is the invalidation pattern syntax: regex (default), glob or prefix.
	Matcher string `yaml:"matcher,omitempty"`
}

// ServerConfig configures `finboard serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			HealthTimeout: DefaultHealthTimeout,
		},
		Cache: CacheConfig{
			Enabled:       true,
			DefaultTTL:    cache.DefaultFallbackTTL,
			WriteSweep:    true,
			SweepInterval: DefaultSweepInterval,
		},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load builds the effective configuration: defaults, then the global file
// (if it exists), then the project overlay (if it exists), then environment
// variables. The result is validated.
func Load(globalPath, projectPath string) (*Config, error) {
	return LoadWithEnv(globalPath, projectPath, os.LookupEnv)
}

// LoadWithEnv is Load with an injected environment lookup.
func LoadWithEnv(globalPath, projectPath string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := New()

	for _, path := range []string{globalPath, projectPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
		if err := ShallowMergeYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg, lookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of finboard cannot use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil {
		return fmt.Errorf("upstream.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an absolute http(s) URL, got %q", c.Upstream.BaseURL)
	}
	if c.Upstream.Timeout <= 0 || c.Upstream.HealthTimeout <= 0 {
		return errors.New("upstream timeouts must be positive")
	}
	if c.Upstream.MinVersion != "" {
		if _, constraintErr := semver.NewConstraint(c.Upstream.MinVersion); constraintErr != nil {
			return fmt.Errorf("upstream.min_version: %w", constraintErr)
		}
	}

	if _, policyErr := c.StorePolicy(); policyErr != nil {
		return fmt.Errorf("cache: %w", policyErr)
	}
	if c.Cache.StaleTTL < 0 || c.Cache.SweepInterval < 0 {
		return errors.New("cache.stale_ttl and cache.sweep_interval cannot be negative")
	}
	if _, matcherErr := cache.MatcherFactory(c.Cache.Matcher); matcherErr != nil {
		return fmt.Errorf("cache.matcher: %w", matcherErr)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}

	if _, levelErr := zerolog.ParseLevel(c.Logging.Level); levelErr != nil {
		return fmt.Errorf("logging.level: %w", levelErr)
	}
	switch c.Logging.Format {
	case logging.FormatAuto, logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q",
			logging.FormatJSON, logging.FormatConsole, c.Logging.Format)
	}
	return nil
}

// StorePolicy builds the cache TTL policy. Without configured namespaces the
// default table is used with DefaultTTL as the fallback.
func (c *Config) StorePolicy() (*cache.Policy, error) {
	if len(c.Cache.Namespaces) == 0 {
		return cache.NewPolicy(cache.DefaultPolicy().Namespaces, c.Cache.DefaultTTL)
	}
	return cache.NewPolicy(c.Cache.Namespaces, c.Cache.DefaultTTL)
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}
	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}
