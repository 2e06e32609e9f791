// Package logging sets up the slog loggers used across audiopipe.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the default logger: human-readable text on stderr.
// Progress lines for record/play go straight to stdout, not through slog,
// so they can be overwritten in place.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// NewFileLogger returns a logger writing JSON records to the given path with
// rotation, and a closer for the underlying writer. lumberjack does not
// create directories, so the parent directory is created here.
func NewFileLogger(path string, maxSizeMB, maxBackups int, level slog.Leveler) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   false,
	}

	handler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	return slog.New(handler), logWriter.Close, nil
}

// SetOutput redirects the default logger, used by tests to capture output.
func SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))
}
