// Package logging provides structured logging for the allocation tools.
//
// Output is bracketed and colorized when attached to a terminal:
// [LEVEL] [system] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/config"
)

// NewLogger builds a logger from the logging config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(NewBracketHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// NewLoggerWithSystem builds a logger scoped to a subsystem ("api",
// "allocate", "import"). The system shows up as its own bracket.
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}
