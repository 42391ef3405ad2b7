// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gnvariants/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "gnvariants.log"

// Init initializes the global slog logger with the given configuration.
// Creates log file in logDir if destination is "file".
// If append is true, appends to existing log file; otherwise creates fresh file.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		var file *os.File
		var err error

		if append {
			file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			file, err = os.Create(logPath)
		}

		if err != nil {
			return LogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	handler := NewHandler(writer, cfg)
	slog.SetDefault(slog.New(handler))

	return nil
}

// NewHandler creates a slog handler for a writer according to format and
// level settings.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	switch cfg.Format {
	case "text", "tint":
		return slog.NewTextHandler(w, handlerOpts)
	default:
		return slog.NewJSONHandler(w, handlerOpts)
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
