package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var serviceTracer = otel.Tracer("predict-api/internal/usecase")

// startUsecaseSpan opens a child span for a service operation. Calls without
// a traced parent, such as from tests or background jobs that opted out of
// tracing, proceed with a no-op span.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if parent.SpanContext().IsValid() && strings.TrimSpace(name) != "" {
		return serviceTracer.Start(ctx, name)
	}
	return ctx, trace.SpanFromContext(context.Background())
}
