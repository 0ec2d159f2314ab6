// Package logger provides structured logging for focustime.
//
// Messages go through log/slog with a configurable level, destination and
// format. Every logger carries key-value context; Component tags a logger
// with the package that owns it.
//
// Example usage:
//
//	log := logger.New(logger.Config{
//	    Level:  "info",
//	    Output: "stderr",
//	    Format: "text",
//	})
//	log.Info("task started", "task", "Writing")
//	log.Warn("record skipped", "path", path, "error", err)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the structured logger every focustime package accepts. args
// are alternating keys and values, as in log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a logger that adds args to every message.
	With(args ...any) Logger
}

// Config contains logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Output is the destination (stdout, stderr, discard, or file path).
	Output string

	// Format is the output format (text, json).
	Format string
}

// logger adapts *slog.Logger to Logger. Debug, Info, Warn and Error are
// promoted from the embedded logger.
type logger struct {
	*slog.Logger
}

// New creates a new logger with the given configuration.
//
// An unusable output falls back to stderr; unknown levels fall back to info.
func New(cfg Config) Logger {
	w, err := openOutput(cfg.Output)
	if err != nil {
		w = os.Stderr
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter creates a logger that writes to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if strings.EqualFold(cfg.Format, "json") {
		return &logger{slog.New(slog.NewJSONHandler(w, opts))}
	}
	return &logger{slog.New(slog.NewTextHandler(w, opts))}
}

func (l *logger) With(args ...any) Logger {
	return &logger{l.Logger.With(args...)}
}

// Component returns log tagged with the owning component's name.
func Component(log Logger, name string) Logger {
	if log == nil {
		return Noop()
	}
	return log.With("component", name)
}

// ParseLevel converts a level name to slog.Level.
//
// Supported levels: debug, info, warn, error. Defaults to info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		if strings.EqualFold(strings.TrimSpace(level), "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return l
}

// openOutput resolves a destination name: stdout, stderr (also ""),
// discard, or a file path. Files are appended to; "~" expands to the home
// directory and missing parent directories are created.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard":
		return io.Discard, nil
	}

	path := output
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // nolint:gosec // path from user config
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Default returns a logger at warn level on stderr, so routine CLI output is
// not interleaved with info messages.
func Default() Logger {
	return New(Config{
		Level:  "warn",
		Output: "stderr",
		Format: "text",
	})
}

// Noop returns a logger that drops everything.
func Noop() Logger {
	return &logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}
