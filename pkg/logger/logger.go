package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger tagged with the component name. Output goes
// to stdout so the collector picks it up alongside the access log.
func New(component string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("component", component)
}
