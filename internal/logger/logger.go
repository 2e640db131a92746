// Package logger provides the structured logger shared across the service.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// Setup configures the default logger for the given level ("debug", "info",
// "warn", "error"). JSON output for production parsing.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	return defaultLogger
}

// SetLogger replaces the default logger (useful for testing)
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

// Default returns the default logger
func Default() *slog.Logger {
	return defaultLogger
}
