package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Options controls handler selection.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	Component string
	Output    io.Writer
}

// SlogLogger implements Logger on top of log/slog
type SlogLogger struct {
	l *slog.Logger
}

// New creates a new structured logger
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	l := slog.New(handler)
	if opts.Component != "" {
		l = l.With(slog.String("component", opts.Component))
	}
	return &SlogLogger{l: l}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Info logs an info message
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.l.Info(msg, fields...)
}

// Error logs an error message
func (s *SlogLogger) Error(msg string, err error, fields ...interface{}) {
	s.l.Error(msg, append([]interface{}{"error", err}, fields...)...)
}

// Warn logs a warning message
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.l.Warn(msg, fields...)
}

// Debug logs a debug message
func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.l.Debug(msg, fields...)
}

// Fatal logs a fatal error and exits
func (s *SlogLogger) Fatal(msg string, err error, fields ...interface{}) {
	s.Error(msg, err, fields...)
	os.Exit(1)
}

// With returns a child logger carrying the given fields
func (s *SlogLogger) With(fields ...interface{}) Logger {
	return &SlogLogger{l: s.l.With(fields...)}
}
