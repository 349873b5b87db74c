// Package logging builds the slog loggers used across cuesync.
//
// The TUI owns the terminal, so log output goes to a file when one is
// configured and is discarded otherwise.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string // empty discards output
}

// New constructs a logger and returns the closer for its output file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(opts.File) == "" {
		return NewNop(), nopCloser{}, nil
	}
	f, err := openFile(opts.File)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(newHandler(f, format, parseLevel(opts.Level))), f, nil
}

// NewWriter constructs a logger writing to w.
func NewWriter(w io.Writer, opts Options) (*slog.Logger, error) {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	return slog.New(newHandler(w, format, parseLevel(opts.Level))), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	addSource := level <= slog.LevelDebug
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				if attr.Value.Kind() == slog.KindTime {
					if format == "json" {
						attr.Key = "ts"
						attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
					} else {
						attr.Value = slog.StringValue(attr.Value.Time().Format("15:04:05.000"))
					}
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", "console":
		return "console", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("log format: unsupported value %q", format)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func openFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
