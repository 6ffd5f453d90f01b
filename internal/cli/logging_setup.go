package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
)

// setupLogging builds the command logger from the effective configuration,
// attaches it and a trace id to the command context, and returns the result
// so the post-run hook can close any log file.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	stderr := cmd.ErrOrStderr()
	lc := commandLoggingConfig(cmd, stderr)

	result := logging.NewLoggerWithPath(lc.ToLoggingConfig())
	switch {
	case result.UsingFile:
		logging.PrintLogPathMessage(stderr, result.FilePath)
	case result.FallbackUsed:
		logging.PrintFallbackWarning(stderr, result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	logger = logging.ComponentLogger(result.Logger, "cli").
		With().Str(logging.TraceIDFieldName, traceID).Logger()
	ctx = logger.WithContext(logging.ContextWithTraceID(ctx, traceID))
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Str("project_dir", config.GetResolvedProjectDir()).
		Msg("command started")

	return result
}

// commandLoggingConfig applies --debug on top of the configured logging
// section. Debug output always goes to the console.
func commandLoggingConfig(cmd *cobra.Command, stderr io.Writer) config.LoggingConfig {
	lc := config.GetLoggingConfig()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		lc.Level, lc.Format, lc.File = "debug", "console", ""
	}
	if lc.File == "" {
		return lc
	}
	if err := config.EnsureLogDir(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: could not create log directory: %v\n", err)
	}
	return lc
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult == nil {
		return nil
	}
	return logResult.Close()
}
