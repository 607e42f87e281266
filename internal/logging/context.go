package logging

import (
	"context"
	"log/slog"

	"sylva/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCommand is the canonical name of the command being executed.
	FieldCommand = "command"
	// FieldRequestID correlates every record emitted for one input line.
	FieldRequestID = "request_id"
	// FieldErrorKind carries services.Kind for failed commands.
	FieldErrorKind = "error_kind"
	FieldError     = "error"
	FieldPID       = "pid"
	FieldStatus    = "status"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if name, ok := services.CommandFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCommand, name))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
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
	return logger.With(Args(fields...)...)
}
