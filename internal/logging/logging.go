package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Init creates and sets the package-level default slog logger and returns the
// run ID attached to every record.
// When outputIsStdout is true, uses JSONHandler on stderr (avoids mixing with CSV output).
// Otherwise uses TextHandler on stderr for human readability.
func Init(outputIsStdout bool, level slog.Level) string {
	runID := uuid.NewString()
	slog.SetDefault(New(os.Stderr, outputIsStdout, level).With("run_id", runID))
	return runID
}

// New builds a logger writing to w without installing it as the default.
func New(w io.Writer, asJSON bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
