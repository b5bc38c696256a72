// Package logger configures the process-wide zap logger shared by the
// pipeline and the CLI commands.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init builds the process logger for the given environment. Production
// emits JSON at info level; anything else gets a colored console logger
// at debug level for local pipeline runs.
func Init(env string) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return err
	}
	global = log
	return nil
}

// Get returns the process logger. Before Init has run it returns a no-op
// logger so library code can log unconditionally.
func Get() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes buffered entries. Safe to defer from main even when Init
// failed.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
