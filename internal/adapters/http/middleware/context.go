// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/fuel-quote-service/internal/platform/logging"
)

// ContextKeyTraceID is the gin context key holding the active span's trace ID.
const ContextKeyTraceID = "trace_id"

// ContextLogger returns middleware that seeds the request context with logger,
// so every later middleware and handler enriches the same base logger.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger != nil {
			c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		}

		c.Next()
	}
}

// TraceContext returns middleware that copies the trace ID of the span started
// by the tracing middleware onto the gin context and the request logger.
// It must run after the tracing middleware.
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Set(ContextKeyTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), traceID))
		}

		c.Next()
	}
}
