// Package logger installs the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

// ParseLevel maps a config level name onto slog; unknown names mean info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup makes a JSON handler on stdout at level the default logger
func Setup(level string) *slog.Logger {
	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(l)
	return l
}
