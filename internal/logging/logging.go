package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel selects the log level: DEBUG, INFO, WARN or ERROR.
const EnvLevel = "FREEE_CHECKIN_LOG"

// ParseLevel maps a level name to a slog level, defaulting to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a text logger writing to w. verbose forces DEBUG.
func New(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)
	if verbose {
		lv.Set(slog.LevelDebug)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

// Init installs the process wide logger on stderr, level taken from the environment.
func Init(verbose bool) *slog.Logger {
	logger := New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)), verbose)
	slog.SetDefault(logger)
	return logger
}
