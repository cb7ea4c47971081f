package ygggo_mongo

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy controls retry strategy.
type RetryPolicy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Jitter      bool
	MaxElapsed  time.Duration
}

// DefaultRetryPolicy returns the policy used by the command line tool.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
		Jitter:      true,
		MaxElapsed:  30 * time.Second,
	}
}

// retryWithPolicy retries op while retryable(err) holds.
func retryWithPolicy(ctx context.Context, pol RetryPolicy, op func() error, retryable func(error) bool) error {
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = 1
	}
	if pol.BaseBackoff <= 0 {
		pol.BaseBackoff = 10 * time.Millisecond
	}
	if pol.MaxBackoff <= 0 {
		pol.MaxBackoff = pol.BaseBackoff
	}
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= pol.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
		if attempt == pol.MaxAttempts {
			break
		}
		if pol.MaxElapsed > 0 && time.Since(start) >= pol.MaxElapsed {
			break
		}
		d := pol.BaseBackoff * time.Duration(attempt)
		if d > pol.MaxBackoff {
			d = pol.MaxBackoff
		}
		if pol.Jitter {
			d = time.Duration(rand.Int63n(int64(d)))
		}
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return lastErr
}

// ConnectWithRetry calls svc.Connect until it succeeds, the policy is
// exhausted, or the error is anything other than ConnectFailed. Registries
// never retry on their own; this is for callers that want it.
func ConnectWithRetry(ctx context.Context, svc Service, alias string, pol RetryPolicy) error {
	return retryWithPolicy(ctx, pol, func() error {
		return svc.Connect(ctx, alias)
	}, func(err error) bool {
		return Classify(err) == KindConnectFailed
	})
}
