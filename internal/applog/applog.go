// Package applog provides the engine's single logging entry point: a
// logr.Logger backed by a slog.TextHandler, so every subsystem logs
// through the same structured, leveled interface regardless of
// whether the caller is library code (logr) or a CLI command (slog).
package applog

import (
	"log/slog"
	"os"

	"github.com/go-logr/logr"
)

// New returns a logr.Logger writing structured text to w at the
// given minimum slog level.
func New(w *os.File, level slog.Level) logr.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return logr.FromSlogHandler(handler)
}

// Default returns a logr.Logger writing to stderr at Info level, used
// by every package that doesn't have an injected logger.
func Default() logr.Logger {
	return New(os.Stderr, slog.LevelInfo)
}
