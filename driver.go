package ygggo_mongo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DriverVersion is the major release of the MongoDB Go driver behind a registry.
type DriverVersion int

const (
	DriverV1 DriverVersion = 1
	DriverV2 DriverVersion = 2
)

func (v DriverVersion) String() string { return "v" + strconv.Itoa(int(v)) }

// Status is the lifecycle state of a registered alias.
type Status string

const (
	StatusPending      Status = "pending"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Metadata is the per-alias record tracked next to the client handle.
type Metadata struct {
	Version DriverVersion
	Status  Status
	Options Options
	URI     string
}

func (m Metadata) clone() Metadata {
	m.Options = m.Options.Clone()
	return m
}

// Driver adapts one major release of the MongoDB driver. C is the client type
// and D the database type of that release.
type Driver[C any, D any] interface {
	Version() DriverVersion
	// NewClient constructs a client without waiting for a server. Resolving
	// a mongodb+srv host may still block, so registries call it unlocked.
	NewClient(uri string, opts Options) (C, error)
	// Connect establishes and confirms connectivity.
	Connect(ctx context.Context, client C) error
	Close(ctx context.Context, client C) error
	Ping(ctx context.Context, client C) error
	Database(client C, name string) D
}

// Service is the version-independent contract of a connection registry.
type Service interface {
	Version() DriverVersion
	CreateClient(cfg *Configuration) error
	Connect(ctx context.Context, alias string) error
	Disconnect(ctx context.Context, alias string) error
	ClientHandle(alias string) (any, error)
	DatabaseHandle(alias, databaseName string) (any, error)
	GetMetadata(alias string) (Metadata, error)
	Ping(ctx context.Context, alias string) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)
	Aliases() []string
}

// ClientAs returns the client of alias as the concrete driver type C.
func ClientAs[C any](svc Service, alias string) (C, error) {
	var zero C
	h, err := svc.ClientHandle(alias)
	if err != nil {
		return zero, err
	}
	c, ok := h.(C)
	if !ok {
		return zero, newError(KindValidation, "ClientAs", alias, fmt.Sprintf("client is %T, not %T", h, zero), nil)
	}
	return c, nil
}

// DatabaseAs returns the database handle as the concrete driver type D.
func DatabaseAs[D any](svc Service, alias, databaseName string) (D, error) {
	var zero D
	h, err := svc.DatabaseHandle(alias, databaseName)
	if err != nil {
		return zero, err
	}
	d, ok := h.(D)
	if !ok {
		return zero, newError(KindValidation, "DatabaseAs", alias, fmt.Sprintf("database is %T, not %T", h, zero), nil)
	}
	return d, nil
}

// clientURI renders opts into the query of uri so the driver's own URI parser
// validates them. Options override parameters already present in uri.
func clientURI(uri string, opts Options) (string, error) {
	if len(opts) == 0 {
		return uri, nil
	}
	base, rawQuery, _ := strings.Cut(uri, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", validationErrorf("CreateClient", "invalid uri query: %v", err)
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := optionValue(opts[k])
		if err != nil {
			return "", validationErrorf("CreateClient", "option %q: %v", k, err)
		}
		q.Set(k, v)
	}
	// the driver requires a slash between the hosts and the options
	if rest, ok := strings.CutPrefix(base, uriScheme); ok && !strings.Contains(rest, "/") {
		base += "/"
	} else if rest, ok := strings.CutPrefix(base, "mongodb+srv://"); ok && !strings.Contains(rest, "/") {
		base += "/"
	}
	return base + "?" + q.Encode(), nil
}

func optionValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Duration:
		return strconv.FormatInt(x.Milliseconds(), 10), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
