package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitolstream/hearings-cli/pkg/congress"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoValSucceedsFirstTry(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastRetryConfig(3), "test", func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 1, calls)
}

func TestDoValRetriesTransient(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastRetryConfig(3), "test", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &congress.APIError{StatusCode: 503, Body: "unavailable"}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestDoValStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(3), "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, &congress.APIError{StatusCode: 403, Body: "bad key"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(3), "test", func(ctx context.Context) (int, error) {
		calls++
		return 0, &congress.APIError{StatusCode: 429, Body: "slow down"}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoValRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := DoVal(ctx, fastRetryConfig(5), "test", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, &congress.APIError{StatusCode: 503}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWrapsDoVal(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastRetryConfig(2), "test", func(ctx context.Context) error {
		calls++
		return errors.New("permanent failure")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestComputeBackoffCapsAtMax(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     10,
	}
	assert.LessOrEqual(t, computeBackoff(5, cfg), 4*time.Second)
}
