package ygggo_mongo

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/yggai/ygggo_mongo"
	instrumentationVersion = "v0.1.0"
)

// EnableTelemetry enables or disables OpenTelemetry tracing for this registry
func (r *Registry[C, D]) EnableTelemetry(enabled bool) {
	if r == nil {
		return
	}
	r.telemetryEnabled = enabled
}

// SetTracerProvider sets the provider used for spans; the global provider is used otherwise.
func (r *Registry[C, D]) SetTracerProvider(provider trace.TracerProvider) {
	if r == nil {
		return
	}
	r.tracerProvider = provider
}

func (r *Registry[C, D]) tracer() trace.Tracer {
	provider := r.tracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))
}

// startSpan creates a new span with common database attributes
func (r *Registry[C, D]) startSpan(ctx context.Context, operation, alias string) (context.Context, trace.Span) {
	if r == nil || !r.telemetryEnabled {
		return ctx, trace.SpanFromContext(ctx)
	}

	ctx, span := r.tracer().Start(ctx, fmt.Sprintf("ygggo_mongo.%s", operation))
	span.SetAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.operation", operation),
		attribute.String("db.mongodb.alias", alias),
		attribute.Int("db.mongodb.driver_version", int(r.driver.Version())),
	)
	return ctx, span
}

// finishSpan completes a span with error handling
func (r *Registry[C, D]) finishSpan(span trace.Span, err error) {
	if r == nil || !r.telemetryEnabled {
		return
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
