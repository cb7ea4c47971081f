//go:build integration

package ygggo_mongo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DockerTestHelper runs a MongoDB container for integration tests and
// exposes the endpoint and registries that point at it.
type DockerTestHelper struct {
	container *mongodb.MongoDBContainer
	endpoint  *Endpoint
	factory   *Factory
	config    DockerTestConfig
}

// DockerTestConfig holds configuration for Docker test containers
type DockerTestConfig struct {
	MongoVersion string        // image tag (default: "7.0")
	Username     string        // root username, empty for no auth
	Password     string        // root password
	StartTimeout time.Duration // container start timeout (default: 60s)
}

// DefaultDockerTestConfig returns default configuration for Docker tests
func DefaultDockerTestConfig() DockerTestConfig {
	return DockerTestConfig{
		MongoVersion: "7.0",
		Username:     "root",
		Password:     "p@ss:word",
		StartTimeout: 60 * time.Second,
	}
}

// NewDockerTestHelper creates a new Docker test helper with default configuration
func NewDockerTestHelper(ctx context.Context) (*DockerTestHelper, error) {
	return NewDockerTestHelperWithConfig(ctx, DefaultDockerTestConfig())
}

// NewDockerTestHelperWithConfig creates a new Docker test helper with custom configuration
func NewDockerTestHelperWithConfig(ctx context.Context, config DockerTestConfig) (*DockerTestHelper, error) {
	// with auth the entrypoint starts mongod twice; wait for the second one
	occurrence := 1
	if config.Username != "" {
		occurrence = 2
	}
	opts := []testcontainers.ContainerCustomizer{
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Waiting for connections").WithOccurrence(occurrence),
				wait.ForListeningPort("27017/tcp"),
			).WithDeadline(config.StartTimeout),
		),
	}
	if config.Username != "" {
		opts = append(opts, mongodb.WithUsername(config.Username), mongodb.WithPassword(config.Password))
	}

	container, err := mongodb.Run(ctx, "mongo:"+config.MongoVersion, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	portInt, err := strconv.Atoi(port.Port())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to parse port: %w", err)
	}

	b := NewEndpointBuilder().SetHost(host).SetPort(portInt)
	if config.Username != "" {
		b.WithCredentials(config.Username, config.Password)
	}
	endpoint, err := b.Build()
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("container endpoint %s:%d: %w", host, portInt, err)
	}

	return &DockerTestHelper{
		container: container,
		endpoint:  endpoint,
		factory:   NewDefaultFactory(),
		config:    config,
	}, nil
}

// Endpoint returns the endpoint of the container
func (h *DockerTestHelper) Endpoint() *Endpoint {
	return h.endpoint
}

// Factory returns the registries used by this helper
func (h *DockerTestHelper) Factory() *Factory {
	return h.factory
}

// Configuration builds a configuration for alias pointing at the container
func (h *DockerTestHelper) Configuration(alias string, options Options) (*Configuration, error) {
	return NewConfigurationBuilder().
		SetAlias(alias).
		FromEndpoint(h.endpoint).
		WithOptions(options).
		Build()
}

// Container returns the underlying testcontainer
func (h *DockerTestHelper) Container() testcontainers.Container {
	return h.container
}

// Close disconnects every connected alias and terminates the container
func (h *DockerTestHelper) Close() error {
	ctx := context.Background()
	var err error

	for _, svc := range h.factory.Services() {
		for _, alias := range svc.Aliases() {
			meta, metaErr := svc.GetMetadata(alias)
			if metaErr != nil || meta.Status != StatusConnected {
				continue
			}
			if closeErr := svc.Disconnect(ctx, alias); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}

	if h.container != nil {
		if containerErr := h.container.Terminate(ctx); containerErr != nil {
			if err != nil {
				err = fmt.Errorf("%w; failed to terminate container: %w", err, containerErr)
			} else {
				err = fmt.Errorf("failed to terminate container: %w", containerErr)
			}
		}
	}
	return err
}

// GetConnectionInfo returns connection information for debugging
func (h *DockerTestHelper) GetConnectionInfo(ctx context.Context) (map[string]string, error) {
	if h.container == nil {
		return nil, fmt.Errorf("container is not initialized")
	}
	uri, err := h.container.ConnectionString(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	return map[string]string{
		"host":     h.endpoint.Host(),
		"port":     strconv.Itoa(h.endpoint.Port()),
		"uri":      h.endpoint.String(),
		"upstream": RedactURI(uri),
	}, nil
}
