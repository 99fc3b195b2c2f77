// Package logging builds the zap logger used by the command-line tools.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps a verbosity count to a zap level: 0 warn, 1 info, 2+ debug.
func Level(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a logger writing to stderr. jsonFormat selects the JSON encoder
// instead of the console one.
func New(verbosity int, jsonFormat bool) (*zap.Logger, error) {
	var cfg zap.Config
	if jsonFormat {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(Level(verbosity))
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Must is New for the CLI entry point; it falls back to a no-op logger.
func Must(verbosity int, jsonFormat bool) *zap.Logger {
	logger, err := New(verbosity, jsonFormat)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
