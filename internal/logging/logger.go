// Package logging defines the structured-logging interface used across
// smartcalc together with slog and zerolog backed implementations.
package logging

import (
	"context"
	"io"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request finished", "method", "POST", "status", 200)
type Logger interface {
	// Debug logs diagnostic detail such as individual HTTP round trips.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }

// New returns the logger selected by format: "json" writes slog JSON lines,
// anything else the zerolog console format.
func New(w io.Writer, format, level string) Logger {
	if format == "json" {
		return NewJSONLogger(w, level)
	}
	return NewConsoleLogger(w, level)
}
