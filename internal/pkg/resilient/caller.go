// Package resilient wraps remote provider calls with the shared protections
// every external dependency of the dashboard needs: a minimum inter-call
// interval per provider class, capped exponential backoff on rate-limit
// signals, and a hard per-call deadline.
package resilient

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"
)

// Config is the canonical retry/pacing configuration for one provider class.
type Config struct {
	// MinInterval is the minimum spacing between call issuances.
	MinInterval time.Duration
	// MaxRetries bounds retry attempts after the first call.
	MaxRetries int
	// BaseDelay is the first backoff delay; doubled per attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// CallTimeout is the per-attempt deadline.
	CallTimeout time.Duration
}

// DefaultConfig matches the provider quotas the dashboard was tuned against.
func DefaultConfig() Config {
	return Config{
		MinInterval: 100 * time.Millisecond,
		MaxRetries:  3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    10 * time.Second,
		CallTimeout: 10 * time.Second,
	}
}

// Caller serializes call issuance for one provider class. Callers may be
// delayed by the gate but are never dropped.
type Caller struct {
	provider string
	cfg      Config
	limiter  *rate.Limiter
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewCaller creates a Caller for the named provider class.
func NewCaller(provider string, cfg Config, logger *zap.Logger) *Caller {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return &Caller{
		provider: provider,
		cfg:      cfg,
		limiter:  limiter,
		logger:   logger.Named("ResilientCaller").With(zap.String("provider", provider)),
		sleep:    sleepCtx,
	}
}

// Do runs fn under the gate, deadline and retry policy. Retries happen only
// for rate-limited and transient failures (deadline overruns included); any
// other error is returned to the caller as is.
func (c *Caller) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if c.cfg.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.CallTimeout)
		}
		err := fn(callCtx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			metrics.ProviderCallsTotal.WithLabelValues(c.provider, "ok").Inc()
			return nil
		}
		if ctx.Err() != nil {
			// The caller's own context ended; don't retry into the void.
			metrics.ProviderCallsTotal.WithLabelValues(c.provider, "canceled").Inc()
			return err
		}
		if !entity.IsRetryable(err) {
			metrics.ProviderCallsTotal.WithLabelValues(c.provider, "error").Inc()
			return err
		}

		lastErr = err
		if attempt == c.cfg.MaxRetries {
			break
		}

		delay := c.backoff(attempt)
		metrics.ProviderRetriesTotal.WithLabelValues(c.provider).Inc()
		c.logger.Warn("Retrying provider call",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}

	metrics.ProviderCallsTotal.WithLabelValues(c.provider, "exhausted").Inc()
	c.logger.Error("Provider call failed after retries",
		zap.String("op", op),
		zap.Int("maxRetries", c.cfg.MaxRetries),
		zap.Error(lastErr))
	return lastErr
}

func (c *Caller) backoff(attempt int) time.Duration {
	delay := c.cfg.BaseDelay << uint(attempt)
	if c.cfg.MaxDelay > 0 && delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Call runs fn under the caller's policy and returns its typed result.
func Call[T any](ctx context.Context, c *Caller, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
