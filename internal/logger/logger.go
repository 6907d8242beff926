// Package logger wraps zap so the server can start with a no-op logger and
// switch to a configured one once the level is known.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger holds the process-wide zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the no-op logger with a production JSON logger at level.
// The level is matched case-insensitively ("Info", "debug", "WARN").
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = zl
	return nil
}
