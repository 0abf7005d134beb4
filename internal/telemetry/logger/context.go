package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "sessionvault.logger"
	// opKey is the context key for the storage operation name.
	opKey contextKey = "sessionvault.op"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithOp tags the context with the facade operation in flight
// (get_item, set_item, remove_item).
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey, op)
}

// OpFromContext extracts the operation name from context.
func OpFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(opKey).(string); ok {
		return op
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with the
// operation name from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if op := OpFromContext(ctx); op != "" {
		l = l.With("op", op)
	}
	return l
}
