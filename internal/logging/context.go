package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCommand is the standardized key for the CLI command being run.
	FieldCommand = "command"
	// FieldRunID is the standardized key for the per-invocation identifier.
	FieldRunID = "run_id"
)

type contextKey string

const (
	commandKey contextKey = "command"
	runIDKey   contextKey = "run_id"
)

// WithCommand tags ctx with the CLI command name.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, strings.TrimSpace(command))
}

// WithRunID tags ctx with an invocation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, strings.TrimSpace(id))
}

// RunIDFromContext returns the invocation identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, runIDKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 2)
	if command, ok := stringFromContext(ctx, commandKey); ok {
		fields = append(fields, slog.String(FieldCommand, command))
	}
	if id, ok := stringFromContext(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
