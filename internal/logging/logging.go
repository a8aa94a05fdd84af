// Package logging configures colored structured logging with tint.
//
// LOG_LEVEL (debug, info, warn, error) sets the default level. The
// --verbose and --quiet flags override it.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/muesli/termenv"
)

// Setup configures logging for the CLI. verbose selects debug, quiet
// selects error, otherwise LOG_LEVEL applies (default warn, so commands
// stay silent unless something is off).
func Setup(verbose, quiet bool) {
	level := LevelFromEnv(slog.LevelWarn)
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	SetupWithLevel(level)
}

// SetupWithLevel configures colored logging on stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, level)))
}

// NewHandler returns a tint handler writing to w. Color is disabled when w
// is not a color-capable terminal.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = termenv.NewOutput(f).Profile == termenv.Ascii
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

// LevelFromEnv reads LOG_LEVEL, returning def when unset or unknown.
func LevelFromEnv(def slog.Level) slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"), def)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}
