// Package ygggo_mongo manages aliased MongoDB connections across the major
// releases of the MongoDB Go driver.
//
// # Overview
//
// A caller builds an Endpoint, turns it into a Configuration under an alias,
// picks the registry for a driver version from a Factory, registers the
// configuration, connects, and then asks for database handles by alias:
//
//	import ggm "github.com/yggai/ygggo_mongo"
//
//	ep, err := ggm.NewEndpointBuilder().
//		SetHost("127.0.0.1").
//		SetPort(27017).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	cfg, err := ggm.NewConfigurationBuilder().
//		SetAlias("LOCAL_DB").
//		FromEndpoint(ep).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	factory := ggm.NewDefaultFactory()
//	svc, err := factory.GetService(2)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := svc.CreateClient(cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := svc.Connect(ctx, "LOCAL_DB"); err != nil {
//		log.Fatal(err)
//	}
//	defer svc.Disconnect(ctx, "LOCAL_DB")
//
//	db, err := ggm.DatabaseAs[*mongo.Database](svc, "LOCAL_DB", "demo")
//
// # Lifecycle
//
// Every alias moves PENDING -> CONNECTED -> DISCONNECTED and never back. The
// status only advances after the driver call returns successfully; a failed
// Connect or Disconnect leaves it untouched so the caller may retry. Aliases
// are never released: a disconnected alias cannot be registered again in the
// same registry.
//
// # Driver versions
//
// Version 1 is go.mongodb.org/mongo-driver and version 2 is
// go.mongodb.org/mongo-driver/v2. Each version has its own registry with its
// own aliases; the same alias may exist in both.
//
// # Errors
//
// Every failure of the builders, registries, the factory and the typed
// accessors is an *Error whose kind can be tested with errors.Is against
// ErrValidation, ErrAlreadyRegistered, ErrNotRegistered, ErrAlreadyConnected,
// ErrInvalidState, ErrNotConnected, ErrConnectFailed, ErrDisconnectFailed and
// ErrUnsupportedVersion. Nothing is retried internally; see ConnectWithRetry.
//
// # Observability
//
// Registries log through log/slog and can emit OpenTelemetry spans and
// metrics (EnableLogging, EnableTelemetry, EnableMetrics). Collector exports
// alias states to Prometheus.
package ygggo_mongo

// Version returns the current library version.
//
// This version follows semantic versioning (semver) principles.
// During development, it returns "v0.0.0-dev".
func Version() string { return "v0.0.0-dev" }
