package ygggo_mongo

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// record pairs a client with its metadata. mu guards client and meta, which
// always change together; transition serializes Connect and Disconnect on the
// alias and is held across the driver call.
type record[C any] struct {
	transition sync.Mutex
	mu         sync.RWMutex
	client     C
	meta       Metadata
}

func (rec *record[C]) snapshot() (C, Metadata) {
	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.client, rec.meta
}

func (rec *record[C]) setStatus(s Status) {
	rec.mu.Lock()
	rec.meta.Status = s
	rec.mu.Unlock()
}

// Registry owns the alias -> connection mapping for one driver version and
// enforces the lifecycle PENDING -> CONNECTED -> DISCONNECTED.
//
// Aliases are never removed: once registered, an alias stays occupied for
// the lifetime of the registry, including after it is disconnected.
type Registry[C any, D any] struct {
	driver  Driver[C, D]
	mu      sync.RWMutex
	records map[string]*record[C]

	logger           *slog.Logger
	loggingEnabled   bool
	telemetryEnabled bool
	tracerProvider   trace.TracerProvider
	metricsEnabled   bool
	meterProvider    metric.MeterProvider
	metrics          *Metrics
}

var _ Service = (*Registry[any, any])(nil)

// NewRegistry creates an empty registry over driver. Logging, tracing and
// metrics are off until enabled; configure them before sharing the registry.
func NewRegistry[C any, D any](driver Driver[C, D]) *Registry[C, D] {
	return &Registry[C, D]{
		driver:  driver,
		records: make(map[string]*record[C]),
	}
}

// Version returns the driver version served by this registry.
func (r *Registry[C, D]) Version() DriverVersion { return r.driver.Version() }

// CreateClient constructs a client for cfg and registers it as PENDING.
func (r *Registry[C, D]) CreateClient(cfg *Configuration) error {
	if cfg == nil {
		return validationErrorf("CreateClient", "configuration is nil")
	}
	alias := cfg.Alias()

	if r.registered(alias) {
		return r.rejectDuplicate(alias)
	}

	// NewClient may resolve mongodb+srv hosts, so it runs without r.mu
	client, err := r.driver.NewClient(cfg.URI(), cfg.Options())
	if err != nil {
		r.logEvent(context.Background(), slog.LevelError, "client construction failed", alias, 0, err)
		return newError(KindValidation, "CreateClient", alias, "client rejected configuration", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[alias]; exists {
		// lost the race; the v2 client is already monitoring
		if closeErr := r.driver.Close(context.Background(), client); closeErr != nil {
			r.logEvent(context.Background(), slog.LevelDebug, "discarded client close failed", alias, 0, closeErr)
		}
		return r.rejectDuplicate(alias)
	}

	r.records[alias] = &record[C]{
		client: client,
		meta: Metadata{
			Version: r.driver.Version(),
			Status:  StatusPending,
			Options: cfg.Options(),
			URI:     cfg.URI(),
		},
	}
	r.logEvent(context.Background(), slog.LevelInfo, "client registered", alias, 0, nil,
		slog.String("uri", RedactURI(cfg.URI())))
	return nil
}

// Connect connects the client of alias. The status becomes CONNECTED only
// after the driver confirms the connection; on failure it is left unchanged.
func (r *Registry[C, D]) Connect(ctx context.Context, alias string) error {
	rec, err := r.lookup("Connect", alias)
	if err != nil {
		return err
	}

	rec.transition.Lock()
	defer rec.transition.Unlock()

	client, meta := rec.snapshot()
	switch meta.Status {
	case StatusConnected:
		return newError(KindAlreadyConnected, "Connect", alias, "already connected", nil)
	case StatusDisconnected:
		return newError(KindInvalidState, "Connect", alias, "already disconnected", nil)
	}

	spanCtx, span := r.startSpan(ctx, "connect", alias)
	start := time.Now()
	err = r.driver.Connect(spanCtx, client)
	duration := time.Since(start)
	r.finishSpan(span, err)
	r.recordTransition(ctx, "connect", duration, err)

	if err != nil {
		r.logEvent(ctx, slog.LevelError, "connect failed", alias, duration, err)
		return newError(KindConnectFailed, "Connect", alias, "connect failed", err)
	}

	rec.setStatus(StatusConnected)
	r.recordActive(ctx, 1)
	r.logEvent(ctx, slog.LevelInfo, "connected", alias, duration, nil)
	return nil
}

// Disconnect closes the client of alias, which must be CONNECTED.
func (r *Registry[C, D]) Disconnect(ctx context.Context, alias string) error {
	rec, err := r.lookup("Disconnect", alias)
	if err != nil {
		return err
	}

	rec.transition.Lock()
	defer rec.transition.Unlock()

	client, meta := rec.snapshot()
	switch meta.Status {
	case StatusPending:
		return newError(KindInvalidState, "Disconnect", alias, "is pending", nil)
	case StatusDisconnected:
		return newError(KindInvalidState, "Disconnect", alias, "already disconnected", nil)
	}

	spanCtx, span := r.startSpan(ctx, "disconnect", alias)
	start := time.Now()
	err = r.driver.Close(spanCtx, client)
	duration := time.Since(start)
	r.finishSpan(span, err)
	r.recordTransition(ctx, "disconnect", duration, err)

	if err != nil {
		r.logEvent(ctx, slog.LevelError, "disconnect failed", alias, duration, err)
		return newError(KindDisconnectFailed, "Disconnect", alias, "disconnect failed", err)
	}

	rec.setStatus(StatusDisconnected)
	r.recordActive(ctx, -1)
	r.logEvent(ctx, slog.LevelInfo, "disconnected", alias, duration, nil)
	return nil
}

// GetClient returns the client registered under alias, in any state.
func (r *Registry[C, D]) GetClient(alias string) (C, error) {
	rec, err := r.lookup("GetClient", alias)
	if err != nil {
		var zero C
		return zero, err
	}
	client, _ := rec.snapshot()
	return client, nil
}

// GetDatabase returns the named database of a CONNECTED alias.
func (r *Registry[C, D]) GetDatabase(alias, databaseName string) (D, error) {
	var zero D
	rec, err := r.lookup("GetDatabase", alias)
	if err != nil {
		return zero, err
	}
	client, meta := rec.snapshot()
	if meta.Status != StatusConnected {
		return zero, newError(KindNotConnected, "GetDatabase", alias, "is not connected", nil)
	}
	if databaseName == "" {
		return zero, validationErrorf("GetDatabase", "database name is required")
	}
	return r.driver.Database(client, databaseName), nil
}

// GetMetadata returns a copy of the metadata of alias.
func (r *Registry[C, D]) GetMetadata(alias string) (Metadata, error) {
	rec, err := r.lookup("GetMetadata", alias)
	if err != nil {
		return Metadata{}, err
	}
	_, meta := rec.snapshot()
	return meta.clone(), nil
}

// ClientHandle is GetClient without the concrete type.
func (r *Registry[C, D]) ClientHandle(alias string) (any, error) {
	c, err := r.GetClient(alias)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DatabaseHandle is GetDatabase without the concrete type.
func (r *Registry[C, D]) DatabaseHandle(alias, databaseName string) (any, error) {
	d, err := r.GetDatabase(alias, databaseName)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Ping checks a CONNECTED alias against the server. The status is not changed.
func (r *Registry[C, D]) Ping(ctx context.Context, alias string) error {
	rec, err := r.lookup("Ping", alias)
	if err != nil {
		return err
	}
	client, meta := rec.snapshot()
	if meta.Status != StatusConnected {
		return newError(KindNotConnected, "Ping", alias, "is not connected", nil)
	}

	spanCtx, span := r.startSpan(ctx, "ping", alias)
	err = r.driver.Ping(spanCtx, client)
	r.finishSpan(span, err)
	if err != nil {
		return newError(KindUnknown, "Ping", alias, "ping failed", err)
	}
	return nil
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry[C, D]) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make([]string, 0, len(r.records))
	for alias := range r.records {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Len returns the number of registered aliases.
func (r *Registry[C, D]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func (r *Registry[C, D]) registered(alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[alias]
	return ok
}

func (r *Registry[C, D]) rejectDuplicate(alias string) error {
	r.logEvent(context.Background(), slog.LevelWarn, "client registration rejected", alias, 0, ErrAlreadyRegistered)
	return newError(KindAlreadyRegistered, "CreateClient", alias, "already instantiated", nil)
}

func (r *Registry[C, D]) lookup(op, alias string) (*record[C], error) {
	r.mu.RLock()
	rec, ok := r.records[alias]
	r.mu.RUnlock()
	if !ok {
		return nil, newError(KindNotRegistered, op, alias, "not instantiated", nil)
	}
	return rec, nil
}
