package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var httpTracer = otel.Tracer("predict-api/internal/interfaces/httpapi")

// startSpan opens a child span under the request span. Helper spans (write
// helpers, middleware internals) are suppressed; only handler-level spans
// carry enough signal to keep. Without a valid parent, for example on a
// filtered route like /healthz, no span is created at all so internal
// helpers never become root spans.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if parent.SpanContext().IsValid() && strings.HasPrefix(name, "httpapi.Handler.") {
		return httpTracer.Start(ctx, name)
	}
	return ctx, trace.SpanFromContext(context.Background())
}
