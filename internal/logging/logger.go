package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Log formats and outputs.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatAuto    = ""

	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputFile   = "file"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name; unparsable values fall back to info.
	Level string

	// Format is "json", "console" or empty to pick console on a terminal.
	Format string

	// Output is "stderr" (default), "stdout" or "file".
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds the file:line of the call site.
	Caller bool
}

// Result is the outcome of NewLogger. Close releases the log file, if any.
type Result struct {
	Logger         zerolog.Logger
	FilePath       string
	UsingFile      bool
	FallbackUsed   bool
	FallbackReason string

	file *os.File
}

// Close closes the log file handle when logging to a file.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger builds a logger from cfg. A file that cannot be opened falls back
// to stderr and records why in the result instead of failing.
func NewLogger(cfg Config) Result {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, stderr *os.File) Result {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var (
		result Result
		out    io.Writer = stderr
		isTTY            = isTerminal(stderr)
	)

	switch cfg.Output {
	case OutputStdout:
		out = os.Stdout
		isTTY = isTerminal(os.Stdout)
	case OutputFile:
		f, openErr := openLogFile(cfg.File)
		if openErr != nil {
			result.FallbackUsed = true
			result.FallbackReason = openErr.Error()
			break
		}
		out = f
		isTTY = false
		result.file = f
		result.FilePath = cfg.File
		result.UsingFile = true
	}

	if cfg.Format == FormatConsole || (cfg.Format == FormatAuto && isTTY) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	result.Logger = ctx.Logger()
	return result
}

// openLogFile opens path for appending, creating it with 0600.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log output is %q but no file is configured", OutputFile)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ComponentLogger returns a child logger tagged with component=name.
func ComponentLogger(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// PrintLogPathMessage tells the user where logs are going.
func PrintLogPathMessage(w io.Writer, path string) {
	_, _ = fmt.Fprintf(w, "Logging to %s\n", path)
}

// PrintFallbackWarning tells the user file logging could not be set up.
func PrintFallbackWarning(w io.Writer, reason string) {
	_, _ = fmt.Fprintf(w, "Warning: file logging unavailable (%s), logging to stderr\n", reason)
}
