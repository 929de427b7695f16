// Package log threads a single process-wide *zap.Logger through the
// framework as an injectable service, rather than having every package
// construct its own.
package log

import "go.uber.org/zap"

// Logger is the injectable wrapper around *zap.Logger. It exists as a
// named type (rather than registering *zap.Logger directly) so the
// container's one-hop alias resolution and the module system's type-id
// bookkeeping have a stable, framework-owned type to key on.
type Logger struct {
	*zap.Logger
}

// New wraps an existing *zap.Logger for registration in a service
// container.
func New(z *zap.Logger) *Logger {
	return &Logger{Logger: z}
}

// NewProduction matches the teacher's cmd/server/main.go construction
// (zap.NewProduction) for the default production entrypoint.
func NewProduction() (*Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// NewDevelopment builds a human-readable, colorized development logger.
func NewDevelopment() (*Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// Nop returns a logger that discards everything, useful as a default in
// tests that don't assert on log output.
func Nop() *Logger {
	return New(zap.NewNop())
}

// Named returns a child logger with the given name appended to the
// logger's name chain, matching zap's own Named semantics.
func (l *Logger) Named(name string) *Logger {
	return New(l.Logger.Named(name))
}

// With returns a child logger with the given structured fields always
// attached, matching zap's own With semantics.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return New(l.Logger.With(fields...))
}
