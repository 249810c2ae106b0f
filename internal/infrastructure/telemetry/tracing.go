package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for application service spans
const TracerName = "backoffice"

// Attribute keys shared by service spans
const (
	AttrBusinessLineID = "business_line.id"
	AttrPaymentID      = "payment.id"
	AttrReport         = "report.name"
)

// StartServiceSpan starts a span named {service}.{method}, e.g. "payment.record".
// The caller must end the span.
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attributes(keyValues)...),
	)
}

// SetAttributes adds key/value pairs to a span. Keys that are not strings are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	span.SetAttributes(attributes(keyValues)...)
}

// RecordError records err on the span and marks it failed. A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err, if any, and ends the span. Intended for use with a named error result:
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "bounce")
//	defer func() { telemetry.End(span, err) }()
func End(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}

func attributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
