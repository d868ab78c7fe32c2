package cache

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TTL bounds and environment variables.
const (
	// MaxTTL is the longest TTL accepted by ParseTTL (7 days).
	MaxTTL = 7 * 24 * time.Hour

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24

	// EnvCacheEnabled enables or disables the cache entirely.
	EnvCacheEnabled = "FINBOARD_CACHE_ENABLED"

	// EnvStaleTTL sets the stale-copy TTL (see WithStaleCopy).
	EnvStaleTTL = "FINBOARD_CACHE_STALE_TTL"
)

// ErrInvalidTTL is returned by ParseTTL for out-of-range values.
var ErrInvalidTTL = errors.New("TTL must be positive and at most 7 days")

// ParseTTL parses a TTL given either as integer milliseconds ("300000") or
// as a Go duration string ("5m", "1h30m").
func ParseTTL(s string) (time.Duration, error) {
	var d time.Duration
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		parsed, parseErr := time.ParseDuration(s)
		if parseErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", parseErr)
		}
		d = parsed
	}

	if d <= 0 || d > MaxTTL {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return d, nil
}

// GetCacheEnabledFromEnv reads the cache enabled flag through lookupEnv.
// Returns fallback if the variable is not set or unparsable.
func GetCacheEnabledFromEnv(lookupEnv func(string) (string, bool), fallback bool) bool {
	envVal, ok := lookupEnv(EnvCacheEnabled)
	if !ok || envVal == "" {
		return fallback
	}

	enabled, err := strconv.ParseBool(envVal)
	if err != nil {
		return fallback
	}
	return enabled
}

// GetStaleTTLFromEnv reads the stale-copy TTL through lookupEnv.
// Returns fallback when unset or invalid.
func GetStaleTTLFromEnv(lookupEnv func(string) (string, bool), fallback time.Duration) time.Duration {
	envVal, ok := lookupEnv(EnvStaleTTL)
	if !ok || envVal == "" {
		return fallback
	}

	ttl, err := ParseTTL(envVal)
	if err != nil {
		return fallback
	}
	return ttl
}

// FormatDuration formats a duration in a human-readable way.
// Examples: "45s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
