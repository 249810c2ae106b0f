package middleware

import (
	"net/http"

	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin middleware followed by a handler that, once the
// chain has run, tags the server span with the request id, user and business
// line, and marks it failed on 5xx responses. A disabled tracer yields a
// pass-through chain.
func Tracing(serviceName string, enabled bool) gin.HandlersChain {
	if !enabled {
		return gin.HandlersChain{func(c *gin.Context) { c.Next() }}
	}
	return gin.HandlersChain{
		otelgin.Middleware(serviceName),
		func(c *gin.Context) {
			c.Next()

			// otelgin ends the span after this handler returns
			span := trace.SpanFromContext(c.Request.Context())
			if span.IsRecording() {
				enrichSpan(c, span)
			}
		},
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := c.GetString(logger.GinUserIDKey); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
	if id := c.GetString(logger.GinBusinessLineIDKey); id != "" {
		span.SetAttributes(attribute.String("business_line_id", id))
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
