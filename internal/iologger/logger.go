// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/wdimodel/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "wdimodel.log"

// Init initializes the global slog logger with the given configuration.
// With "file" destination a fresh log file is created in logDir on every
// run. The returned closer releases the file, it is a no-op for other
// destinations.
func Init(logDir string, cfg config.LogConfig) (io.Closer, error) {
	var writer io.Writer
	var closer io.Closer = nopCloser{}

	// Determine output destination
	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		file, err := os.Create(logPath)
		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		writer = file
		closer = file
	default:
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text", "tint":
		// tint is rendered by the text handler
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

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
