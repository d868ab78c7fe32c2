package config

import (
	"github.com/rshade/finboard/internal/logging"
)

// ToLoggingConfig converts the logging section to a logging.Config.
// A configured file routes output to that file; otherwise logs go to stderr.
func (c *Config) ToLoggingConfig() logging.Config {
	out := logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: logging.OutputStderr,
	}
	if c.Logging.File != "" {
		out.Output = logging.OutputFile
		out.File = c.Logging.File
	}
	return out
}
