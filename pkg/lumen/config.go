package lumen

import (
	"log/slog"
	"sync/atomic"
)

var currentLogger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for scheduler and teardown diagnostics.
// nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	currentLogger.Store(l)
}

func logger() *slog.Logger {
	if l := currentLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Logger returns the runtime logger.
func Logger() *slog.Logger {
	return logger()
}
