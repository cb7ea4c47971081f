package ygggo_mongo

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricsInstrumentationName = "github.com/yggai/ygggo_mongo"
)

// Metrics holds all the metric instruments
type Metrics struct {
	connectionsActive  metric.Int64UpDownCounter
	lifecycleTotal     metric.Int64Counter
	transitionDuration metric.Float64Histogram
}

// EnableMetrics enables or disables metrics collection for this registry
func (r *Registry[C, D]) EnableMetrics(enabled bool) {
	if r == nil {
		return
	}
	r.metricsEnabled = enabled
	if enabled && r.metrics == nil {
		r.initMetrics()
	}
}

// SetMeterProvider sets a custom meter provider for metrics
func (r *Registry[C, D]) SetMeterProvider(provider metric.MeterProvider) {
	if r == nil {
		return
	}
	r.meterProvider = provider
	if r.metricsEnabled {
		r.initMetrics()
	}
}

// initMetrics initializes all metric instruments
func (r *Registry[C, D]) initMetrics() {
	if r == nil {
		return
	}

	var meter metric.Meter
	if r.meterProvider != nil {
		meter = r.meterProvider.Meter(metricsInstrumentationName)
	} else {
		meter = otel.Meter(metricsInstrumentationName)
	}

	r.metrics = &Metrics{}

	r.metrics.connectionsActive, _ = meter.Int64UpDownCounter(
		"ygggo_mongo_connections_active",
		metric.WithDescription("Number of aliases in the connected state"),
	)

	r.metrics.lifecycleTotal, _ = meter.Int64Counter(
		"ygggo_mongo_lifecycle_total",
		metric.WithDescription("Total number of connect and disconnect attempts"),
	)

	r.metrics.transitionDuration, _ = meter.Float64Histogram(
		"ygggo_mongo_transition_duration_seconds",
		metric.WithDescription("Duration of driver connect and disconnect calls"),
		metric.WithUnit("s"),
	)
}

func (r *Registry[C, D]) versionAttr() attribute.KeyValue {
	return attribute.String("driver_version", r.driver.Version().String())
}

// recordTransition records a connect or disconnect attempt
func (r *Registry[C, D]) recordTransition(ctx context.Context, operation string, duration time.Duration, err error) {
	if r == nil || !r.metricsEnabled || r.metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}

	attrs := []attribute.KeyValue{
		r.versionAttr(),
		attribute.String("operation", operation),
		attribute.String("status", status),
	}

	r.metrics.lifecycleTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.metrics.transitionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// recordActive tracks the number of connected aliases
func (r *Registry[C, D]) recordActive(ctx context.Context, delta int64) {
	if r == nil || !r.metricsEnabled || r.metrics == nil {
		return
	}
	r.metrics.connectionsActive.Add(ctx, delta, metric.WithAttributes(r.versionAttr()))
}
