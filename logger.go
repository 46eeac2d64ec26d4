package main

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger on stdout for the calibration window.
// Debug level also records source locations.
func NewLogger(level slog.Level) *slog.Logger {
	return newJSONLogger(os.Stdout, level)
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return slog.New(h).With("app", "overlay-calibrator")
}
