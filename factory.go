package ygggo_mongo

import (
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Factory maps driver versions to their registries. The mapping is fixed at
// construction; the composition root owns the factory and passes it on.
type Factory struct {
	services map[DriverVersion]Service
}

// NewFactory builds a factory over services. Two services for the same
// version are rejected.
func NewFactory(services ...Service) (*Factory, error) {
	f := &Factory{services: make(map[DriverVersion]Service, len(services))}
	for _, svc := range services {
		if svc == nil {
			return nil, validationErrorf("NewFactory", "nil service")
		}
		v := svc.Version()
		if _, dup := f.services[v]; dup {
			return nil, validationErrorf("NewFactory", "version=%d registered twice", v)
		}
		f.services[v] = svc
	}
	return f, nil
}

// Observable is the logging, tracing and metrics surface of a registry.
type Observable interface {
	SetLogger(logger *slog.Logger)
	EnableLogging(enabled bool)
	SetTracerProvider(provider trace.TracerProvider)
	EnableTelemetry(enabled bool)
	SetMeterProvider(provider metric.MeterProvider)
	EnableMetrics(enabled bool)
}

// RegistryOption configures the registries built by NewDefaultFactory.
type RegistryOption func(Observable)

// WithLogger enables logging to logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o Observable) {
		o.SetLogger(logger)
		o.EnableLogging(true)
	}
}

// WithTracerProvider enables tracing through provider.
func WithTracerProvider(provider trace.TracerProvider) RegistryOption {
	return func(o Observable) {
		o.SetTracerProvider(provider)
		o.EnableTelemetry(true)
	}
}

// WithMeterProvider enables metrics through provider.
func WithMeterProvider(provider metric.MeterProvider) RegistryOption {
	return func(o Observable) {
		o.SetMeterProvider(provider)
		o.EnableMetrics(true)
	}
}

// NewDefaultFactory builds a factory with one registry per supported driver
// version (v1 and v2), each configured by opts.
func NewDefaultFactory(opts ...RegistryOption) *Factory {
	v1 := NewV1Registry()
	v2 := NewV2Registry()
	for _, opt := range opts {
		opt(v1)
		opt(v2)
	}
	f, _ := NewFactory(v1, v2)
	return f
}

// GetService returns the registry for version.
func (f *Factory) GetService(version int) (Service, error) {
	svc, ok := f.services[DriverVersion(version)]
	if !ok {
		return nil, newError(KindUnsupportedVersion, "GetService", "",
			fmt.Sprintf("version=%d not supported", version), nil)
	}
	return svc, nil
}

// Versions returns the supported versions in ascending order.
func (f *Factory) Versions() []DriverVersion {
	versions := make([]DriverVersion, 0, len(f.services))
	for v := range f.services {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// Services returns the registries in version order.
func (f *Factory) Services() []Service {
	versions := f.Versions()
	services := make([]Service, 0, len(versions))
	for _, v := range versions {
		services = append(services, f.services[v])
	}
	return services
}
