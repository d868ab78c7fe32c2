package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/finboard/internal/logging"
)

// setupLogging configures logging from the loaded config and CLI flags, then
// attaches the logger and a trace ID to the command context.
func (a *app) setupLogging(cmd *cobra.Command) {
	loggingCfg := *a.cfg

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Logging.Level = "debug"
		loggingCfg.Logging.Format = logging.FormatConsole
		loggingCfg.Logging.File = ""
	}

	if loggingCfg.Logging.File != "" {
		if err := loggingCfg.EnsureLogDir(); err != nil {
			cmd.PrintErrf("Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLogger(loggingCfg.ToLoggingConfig())
	a.logResult = &result
	a.baseLogger = result.Logger
	a.logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = a.logger.WithContext(ctx)
	cmd.SetContext(ctx)

	a.logger.Debug().Ctx(ctx).Str("trace_id", traceID).Str("command", cmd.Name()).Msg("command started")
}
