package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON slog logger writing to w. Development environments log at debug level.
func New(w io.Writer, environment string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := slog.LevelInfo
	if strings.EqualFold(environment, "development") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupDefault installs the JSON logger as the process-wide default.
func SetupDefault(w io.Writer, environment string) *slog.Logger {
	l := New(w, environment)
	slog.SetDefault(l)
	return l
}
