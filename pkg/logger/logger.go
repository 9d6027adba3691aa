package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is usable before Init; Init replaces it with the configured
// handler.
var Log = slog.Default()

// Init configures the process-wide JSON logger. LOG_LEVEL controls
// verbosity (debug, info, warn, error); default is info.
func Init() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
