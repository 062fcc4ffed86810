package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
)

func testCaller(cfg Config) *Caller {
	return NewCaller("test", cfg, zap.NewNop())
}

func TestCaller_MinIntervalSpacing(t *testing.T) {
	minInterval := 50 * time.Millisecond
	c := testCaller(Config{MinInterval: minInterval, CallTimeout: time.Second})

	const n = 3
	start := time.Now()
	for i := 0; i < n; i++ {
		err := c.Do(context.Background(), "noop", func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, time.Duration(n-1)*minInterval,
		"N calls must take at least (N-1)*minInterval")
}

func TestCaller_RetriesRateLimitedThenFails(t *testing.T) {
	c := testCaller(Config{
		MaxRetries:  3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    25 * time.Millisecond,
		CallTimeout: time.Second,
	})

	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	calls := 0
	err := c.Do(context.Background(), "always429", func(ctx context.Context) error {
		calls++
		return entity.ErrRateLimited
	})

	require.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, 4, calls, "initial call plus maxRetries attempts")
	require.Len(t, delays, 3)
	for i := 1; i < len(delays); i++ {
		assert.GreaterOrEqual(t, delays[i], delays[i-1], "backoff must be non-decreasing")
	}
	for _, d := range delays {
		assert.LessOrEqual(t, d, 25*time.Millisecond, "backoff must respect the cap")
	}
}

func TestCaller_BackoffDoublesUpToCap(t *testing.T) {
	c := testCaller(Config{BaseDelay: 2 * time.Second, MaxDelay: 10 * time.Second})

	assert.Equal(t, 2*time.Second, c.backoff(0))
	assert.Equal(t, 4*time.Second, c.backoff(1))
	assert.Equal(t, 8*time.Second, c.backoff(2))
	assert.Equal(t, 10*time.Second, c.backoff(3))
}

func TestCaller_NonRetryableReturnsImmediately(t *testing.T) {
	c := testCaller(Config{MaxRetries: 3, BaseDelay: time.Millisecond, CallTimeout: time.Second})

	permanent := errors.New("bad request")
	calls := 0
	err := c.Do(context.Background(), "permanent", func(ctx context.Context) error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls, "non-retryable errors must not be retried")
}

func TestCaller_TransientErrorIsRetried(t *testing.T) {
	c := testCaller(Config{MaxRetries: 2, BaseDelay: time.Millisecond, CallTimeout: time.Second})
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	calls := 0
	err := c.Do(context.Background(), "flaky", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &entity.TransientError{Err: errors.New("connection reset")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCaller_DeadlineOverrunIsRetried(t *testing.T) {
	c := testCaller(Config{
		MaxRetries:  1,
		BaseDelay:   time.Millisecond,
		CallTimeout: 10 * time.Millisecond,
	})
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	calls := 0
	err := c.Do(context.Background(), "slow", func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls, "deadline overruns are transient and retried")
}

func TestCaller_CanceledParentContextStopsRetries(t *testing.T) {
	c := testCaller(Config{MaxRetries: 5, BaseDelay: time.Millisecond, CallTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := c.Do(ctx, "canceled", func(callCtx context.Context) error {
		calls++
		cancel()
		return &entity.TransientError{Err: errors.New("boom")}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCall_ReturnsTypedResult(t *testing.T) {
	c := testCaller(Config{CallTimeout: time.Second})

	v, err := Call(context.Background(), c, "typed", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
