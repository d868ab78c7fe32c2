package config

import (
	"strconv"

	"github.com/rshade/finboard/internal/cache"
)

// Environment variables that override file configuration.
const (
	EnvAPIURL     = "FINBOARD_API_URL"
	EnvLogLevel   = "FINBOARD_LOG_LEVEL"
	EnvLogFormat  = "FINBOARD_LOG_FORMAT"
	EnvServerAddr = "FINBOARD_SERVER_ADDR"
	EnvCoalesce   = "FINBOARD_CACHE_COALESCE"
)

// ApplyEnv overlays environment variables onto cfg. lookupEnv is injected
// for testability; pass os.LookupEnv in production. Unparsable values are
// ignored.
func ApplyEnv(cfg *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvServerAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookupEnv(EnvCoalesce); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Coalesce = b
		}
	}
	cfg.Cache.Enabled = cache.GetCacheEnabledFromEnv(lookupEnv, cfg.Cache.Enabled)
	cfg.Cache.StaleTTL = cache.GetStaleTTLFromEnv(lookupEnv, cfg.Cache.StaleTTL)
}
