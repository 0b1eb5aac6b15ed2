// Package observability builds the zap loggers used across skirmish.
//
// Entries share a small set of field names so one policy check can be
// followed through its log:
//
//	component     binary that built the logger, e.g. statespace
//	decision_id   one combat.Controller decision, one per frame
//	state         discretized state in its String form
//	state_index   the same state's Index in the value table
//	scope, hook   Lua scope and hook a scripted policy called
//
// Per-frame decisions log at debug. Loggers built here never sample, so a
// debug run keeps every decision of every fixture frame.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// NewLogger builds a logger from cfg that writes to stderr.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, component string) (*zap.Logger, error) {
	return NewLoggerTo(cfg, component, zapcore.Lock(os.Stderr))
}

// NewLoggerTo is NewLogger writing to w. When component is non-empty every
// entry carries it as the "component" field.
//
// Precondition: w must not be nil.
func NewLoggerTo(cfg config.LoggingConfig, component string, w zapcore.WriteSyncer) (*zap.Logger, error) {
	if w == nil {
		panic("observability.NewLoggerTo: writer must not be nil")
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("observability: log level %q: %w", cfg.Level, err)
	}
	enc, opts, err := encoding(cfg.Format)
	if err != nil {
		return nil, err
	}

	logger := zap.New(zapcore.NewCore(enc, w, level), append(opts, zap.AddCaller(), zap.ErrorOutput(w))...)
	if component != "" {
		logger = logger.With(zap.String("component", component))
	}
	return logger, nil
}

// encoding returns the encoder and options for a format. json is meant for
// collected runs, console for a terminal.
func encoding(format string) (zapcore.Encoder, []zap.Option, error) {
	switch format {
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(ec), []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}, nil
	case "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(ec), []zap.Option{zap.Development(), zap.AddStacktrace(zapcore.WarnLevel)}, nil
	default:
		return nil, nil, fmt.Errorf("observability: unknown log format %q", format)
	}
}
