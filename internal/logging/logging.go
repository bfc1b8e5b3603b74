// Package logging provides the shared structured logger used across the
// scanning engine and its control plane, adapted from the teacher's
// backend/logging package: a sync.Once-guarded slog.JSONHandler writing to
// stdout. The level is configurable here (the teacher hard-codes
// slog.LevelInfo) since a scanner benefits from a debug-level toggle the
// way the Rust original's log::debug! call sites throughout
// arp_scanner.rs/syn_scanner.rs did.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Configure initializes the shared JSON logger at the given level. It is
// safe to call multiple times; only the first call takes effect.
func Configure(level string) *slog.Logger {
	once.Do(func() {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
		logger = slog.New(handler)
	})
	return logger
}

// Logger returns the configured slog logger, configuring it at info level
// on first use if necessary. Safe for concurrent use: the underlying
// sync.Once ensures only the first caller (Configure or Logger) picks the
// level.
func Logger() *slog.Logger {
	return Configure("info")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
