package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger together with the file it may write to.
type Logger struct {
	zerolog.Logger
	file    *os.File
	console io.Writer
	level   zerolog.Level
}

type Option func(*Logger) error

// WithConsole writes human-readable output to w.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) error {
		l.console = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
		return nil
	}
}

// WithLevel sets the minimum level.
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) error {
		l.level = level
		return nil
	}
}

// WithFile appends plain output to path, creating parent directories.
// An empty path is ignored.
func WithFile(path string) Option {
	return func(l *Logger) error {
		if path == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		return nil
	}
}

// New builds a logger. Without WithConsole, output goes to stderr.
func New(opts ...Option) (*Logger, error) {
	l := &Logger{level: zerolog.InfoLevel}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to apply logger option: %w", err)
		}
	}
	if l.console == nil {
		l.console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var out io.Writer = l.console
	if l.file != nil {
		out = zerolog.MultiLevelWriter(l.console, zerolog.ConsoleWriter{
			Out:        l.file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	l.Logger = zerolog.New(out).Level(l.level).With().Timestamp().Logger()
	return l, nil
}

// FileOnly returns a logger that skips the console, for use while the
// terminal is owned by a full-screen UI. Without a log file it discards.
func (l *Logger) FileOnly() zerolog.Logger {
	if l.file == nil {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        l.file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(l.level).With().Timestamp().Logger()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
