package ygggo_mongo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the health of every alias in one registry
type HealthStatus struct {
	Healthy      bool                   `json:"healthy"`
	Version      DriverVersion          `json:"driver_version"`
	LastChecked  time.Time              `json:"last_checked"`
	ResponseTime time.Duration          `json:"response_time"`
	Aliases      map[string]AliasHealth `json:"aliases"`
	Errors       []HealthError          `json:"errors,omitempty"`
}

// AliasHealth is the result for one alias. Only connected aliases are pinged.
type AliasHealth struct {
	Status   Status        `json:"status"`
	Checked  bool          `json:"checked"`
	Healthy  bool          `json:"healthy"`
	PingTime time.Duration `json:"ping_time"`
}

// HealthError represents a health check error
type HealthError struct {
	Alias     string    `json:"alias"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheckConfig configures health check behavior
type HealthCheckConfig struct {
	Timeout     time.Duration `json:"timeout"`
	Concurrency int           `json:"concurrency"`
}

// DefaultHealthCheckConfig returns default health check configuration
func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{
		Timeout:     5 * time.Second,
		Concurrency: 8,
	}
}

// HealthCheck pings every connected alias with the default configuration
func (r *Registry[C, D]) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	if r == nil {
		return nil, validationErrorf("HealthCheck", "registry is nil")
	}
	return r.HealthCheckWithConfig(ctx, DefaultHealthCheckConfig())
}

// HealthCheckWithConfig pings every connected alias concurrently. Ping
// failures are reported in the status, not returned as an error.
func (r *Registry[C, D]) HealthCheckWithConfig(ctx context.Context, config HealthCheckConfig) (*HealthStatus, error) {
	start := time.Now()
	status := &HealthStatus{
		Version:     r.Version(),
		LastChecked: start,
		Aliases:     make(map[string]AliasHealth),
		Errors:      make([]HealthError, 0),
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	aliases := r.Aliases()
	results, pingErrs := r.pingAliases(ctx, aliases, config.Concurrency)

	for i, alias := range aliases {
		status.Aliases[alias] = results[i]
		if pingErrs[i] != nil {
			status.Errors = append(status.Errors, HealthError{
				Alias:     alias,
				Message:   pingErrs[i].Error(),
				Timestamp: time.Now(),
			})
		}
	}

	status.Healthy = len(status.Errors) == 0
	status.ResponseTime = time.Since(start)
	return status, nil
}

// pingAliases pings the CONNECTED aliases in parallel. An alias that is not
// registered is left as a zero AliasHealth.
func (r *Registry[C, D]) pingAliases(ctx context.Context, aliases []string, concurrency int) ([]AliasHealth, []error) {
	results := make([]AliasHealth, len(aliases))
	pingErrs := make([]error, len(aliases))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, alias := range aliases {
		meta, err := r.GetMetadata(alias)
		if err != nil {
			continue
		}
		results[i].Status = meta.Status
		if meta.Status != StatusConnected {
			continue
		}
		g.Go(func() error {
			pingStart := time.Now()
			err := r.Ping(gctx, alias)
			results[i].Checked = true
			results[i].PingTime = time.Since(pingStart)
			results[i].Healthy = err == nil
			pingErrs[i] = err
			// never cancel the other pings
			return nil
		})
	}
	_ = g.Wait()
	return results, pingErrs
}
