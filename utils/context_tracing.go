package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func OpenTelemetryTracerFromContext(ctx context.Context) trace.Tracer {
	tracer, found := ctx.Value(ContextKeyOpenTelemetryTracer).(trace.Tracer)
	if !found {
		return &noop.Tracer{}
	}
	return tracer
}

// StartSpan opens a span on the request tracer. Outside of a request (CLI, tests) the
// tracer is a noop.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return OpenTelemetryTracerFromContext(ctx).Start(ctx, name, trace.WithAttributes(attrs...))
}

func StoreOpenTelemetryTracerInContextMiddleware(tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), ContextKeyOpenTelemetryTracer, tracer)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
