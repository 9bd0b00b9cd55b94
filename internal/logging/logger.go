// Package logging provides the diagnostic logger for the TUI. The terminal
// is owned by the Bubble Tea renderer, so all output goes to a log file.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the file lifecycle.
type Logger struct {
	zlog   zerolog.Logger
	closer io.Closer
}

// NewFileLogger opens (or creates) the log file at path and returns a logger
// writing to it. Callers must Close the logger on shutdown.
func NewFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	output := zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog, closer: f}, nil
}

// NewDiscardLogger returns a logger that drops everything. Used in tests and
// as a fallback when the log file cannot be opened.
func NewDiscardLogger() *Logger {
	return &Logger{zlog: zerolog.New(io.Discard)}
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}
