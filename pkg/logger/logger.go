package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init configures the process logger for the given environment tag.
// Production logs at Info, everything else at Debug.
func Init(env string) {
	Log = New(os.Stdout, env)
}

// New builds a JSON logger writing to w.
func New(w io.Writer, env string) *slog.Logger {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("env", env)
}
