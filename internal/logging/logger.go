// Package logging defines the structured, context-aware logger used by every
// component of the comic reader. The only implementation wraps log/slog.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs, e.g.:
//
//	log.Info(ctx, "bootstrap finished", "decision", d, "authenticated", ok)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}

// ComponentKey labels records with the part of the client that wrote them.
const ComponentKey = "component"

// Component returns l tagged with the component name.
func Component(l Logger, name string) Logger {
	return l.With(ComponentKey, name)
}
