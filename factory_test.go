package ygggo_mongo

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFactory_GetService(t *testing.T) {
	v1, _ := NewMockRegistry(DriverV1)
	v2, _ := NewMockRegistry(DriverV2)
	f, err := NewFactory(v1, v2)
	require.NoError(t, err)

	svc, err := f.GetService(1)
	require.NoError(t, err)
	assert.Same(t, v1, svc)

	svc, err = f.GetService(2)
	require.NoError(t, err)
	assert.Same(t, v2, svc)

	// the same registry is returned on every lookup
	again, err := f.GetService(2)
	require.NoError(t, err)
	assert.Same(t, svc, again)
}

func TestFactory_UnsupportedVersion(t *testing.T) {
	f := NewDefaultFactory()
	for _, v := range []int{0, 3, 6, -1} {
		svc, err := f.GetService(v)
		assert.Nil(t, svc)
		require.ErrorIs(t, err, ErrUnsupportedVersion)
		assert.Contains(t, err.Error(), "not supported")
	}
}

func TestFactory_RejectsDuplicatesAndNil(t *testing.T) {
	a, _ := NewMockRegistry(DriverV2)
	b, _ := NewMockRegistry(DriverV2)

	_, err := NewFactory(a, b)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewFactory(a, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFactory_VersionsAndServices(t *testing.T) {
	f := NewDefaultFactory()
	assert.Equal(t, []DriverVersion{DriverV1, DriverV2}, f.Versions())

	services := f.Services()
	require.Len(t, services, 2)
	assert.Equal(t, DriverV1, services[0].Version())
	assert.Equal(t, DriverV2, services[1].Version())

	_, ok := services[0].(*V1Registry)
	assert.True(t, ok)
	_, ok = services[1].(*V2Registry)
	assert.True(t, ok)
}

func TestFactory_DefaultRegistriesAreIndependent(t *testing.T) {
	f := NewDefaultFactory()
	v1, err := f.GetService(1)
	require.NoError(t, err)
	v2, err := f.GetService(2)
	require.NoError(t, err)

	// v1 NewClient does no I/O, v2 starts monitoring; keep this to v1 only
	require.NoError(t, v1.CreateClient(mustConfig(t, "shared")))
	assert.Equal(t, []string{"shared"}, v1.Aliases())
	assert.Empty(t, v2.Aliases())
}

func TestFactory_RegistryOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))

	f := NewDefaultFactory(WithLogger(logger), WithTracerProvider(tp), WithMeterProvider(mp))
	for _, svc := range f.Services() {
		switch reg := svc.(type) {
		case *V1Registry:
			assert.True(t, reg.loggingEnabled)
			assert.Same(t, logger, reg.logger)
			assert.True(t, reg.telemetryEnabled)
			assert.NotNil(t, reg.metrics)
		case *V2Registry:
			assert.True(t, reg.loggingEnabled)
			assert.Same(t, logger, reg.logger)
			assert.True(t, reg.telemetryEnabled)
			assert.NotNil(t, reg.metrics)
		default:
			t.Fatalf("unexpected service %T", svc)
		}
	}

	v1, err := f.GetService(1)
	require.NoError(t, err)
	require.NoError(t, v1.CreateClient(mustConfig(t, "a")))
	assert.Contains(t, buf.String(), "client registered")
	assert.NoError(t, tp.Shutdown(context.Background()))
}
