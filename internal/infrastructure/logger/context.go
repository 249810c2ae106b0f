package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey         contextKey = "logger"
	requestIDKey      contextKey = "request_id"
	businessLineIDKey contextKey = "business_line_id"
	userIDKey         contextKey = "user_id"
)

// WithContext returns a new context carrying the logger
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, enriched with the trace and
// span ids of the active span. A context without a logger yields a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return WithTraceContext(ctx, l)
}

// WithRequestID stores the request id and enriches the context logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return enrich(ctx, zap.String("request_id", requestID))
}

// WithBusinessLineID stores the active business line and enriches the context logger with it
func WithBusinessLineID(ctx context.Context, businessLineID string) context.Context {
	ctx = context.WithValue(ctx, businessLineIDKey, businessLineID)
	return enrich(ctx, zap.String("business_line_id", businessLineID))
}

// WithUserID stores the authenticated user and enriches the context logger with it
func WithUserID(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return enrich(ctx, zap.String("user_id", userID))
}

func enrich(ctx context.Context, field zap.Field) context.Context {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return WithContext(ctx, l.With(field))
	}
	return ctx
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func GetBusinessLineID(ctx context.Context) string {
	v, _ := ctx.Value(businessLineIDKey).(string)
	return v
}

func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// GetTraceID returns the trace id of the active span, or "" without one
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// WithTraceContext adds trace_id and span_id from the active span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
