/*
PURPOSE:
  Provides a structured logger for Predict Runner.
  Wraps zap for consistent output.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. Not spammy.
  - Tool output (probe lines, saved paths) stays on stdout, diagnostics go elsewhere.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels, selectable by --log-level.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - Configure() returns an error for an unknown level.

IMPLEMENTATION RULES:
  - Key/value pairs only: output.Logger.Infow("message", "key", "value")
  - Logs are written to stderr.

USAGE:
  output.Logger.Infow("message", "key", "value")

RELATED FILES:
  - All.
*/

package output

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.SugaredLogger

func init() {
	l, err := newLogger(zapcore.InfoLevel)
	if err != nil {
		l = zap.NewNop()
	}
	Logger = l.Sugar()
}

// Configure rebuilds the package logger at the given level (debug, info, warn, error).
func Configure(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l, err := newLogger(lvl)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Logger = l.Sugar()
	return nil
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *zap.SugaredLogger) {
	Logger = l
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg.Build()
}

