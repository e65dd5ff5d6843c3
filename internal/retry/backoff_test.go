package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  3,
		Jitter:       false,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("attempt %d failed", calls)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	backoff := NewBackoff(fastConfig())

	calls := 0
	err := backoff.Retry(context.Background(), func() error {
		calls++
		return fmt.Errorf("always fails")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "always fails")
	assert.Equal(t, 3, calls)
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour
	backoff := NewBackoff(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := backoff.Retry(ctx, func() error {
		calls++
		return fmt.Errorf("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCalculateDelayGrowsExponentially(t *testing.T) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
		MaxAttempts:  5,
		Jitter:       false,
	})

	assert.Equal(t, 100*time.Millisecond, backoff.GetNextDelay(1))
	assert.Equal(t, 200*time.Millisecond, backoff.GetNextDelay(2))
	assert.Equal(t, 400*time.Millisecond, backoff.GetNextDelay(3))
}

func TestCalculateDelayCapsAtMax(t *testing.T) {
	backoff := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     300 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  10,
		Jitter:       false,
	})

	assert.Equal(t, 300*time.Millisecond, backoff.GetNextDelay(5))
}

func TestCalculateDelayWithJitterStaysInBounds(t *testing.T) {
	cfg := DefaultBackoffConfig()
	backoff := NewBackoff(cfg)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		delay := backoff.GetNextDelay(attempt)
		assert.GreaterOrEqual(t, delay, time.Duration(0))
		assert.LessOrEqual(t, delay, cfg.MaxDelay)
	}
}
