// Package logger builds the structured logger shared by both binaries.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a *slog.Logger configured for the given environment and
// installs it as the slog default, so package-level slog calls in the
// handlers and controllers go through it too.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
func Setup(env string) *slog.Logger {
	log := New(env, os.Stdout)
	slog.SetDefault(log)
	return log
}

// New is Setup without touching the global default.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
