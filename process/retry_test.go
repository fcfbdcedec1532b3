package process

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/core"
)

func TestRetryWithBackoffSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoffRecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	boom := errors.New("always down")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return boom
	}, 3, time.Millisecond, 0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffShortCircuitsPermanentErrors(t *testing.T) {
	for _, sentinel := range []error{core.ErrInvalidEntry, ai.ErrEmptyEmbedding, ai.ErrQueuedResponse} {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return fmt.Errorf("wrapped: %w", sentinel)
		}, 5, time.Millisecond, 0)
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls, "permanent error %v must not be retried", sentinel)
	}
}

func TestRetryWithBackoffRejectsInvalidAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	}, 10, time.Hour, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	base := 100 * time.Millisecond
	cap := 300 * time.Millisecond

	first := backoffDelay(1, base, cap)
	assert.GreaterOrEqual(t, first, base)
	assert.LessOrEqual(t, first, base+base/4)

	// Deep attempts are capped.
	deep := backoffDelay(10, base, cap)
	assert.Equal(t, cap, deep)

	// Without a cap the delay doubles per attempt, plus jitter.
	third := backoffDelay(3, base, 0)
	assert.GreaterOrEqual(t, third, 4*base)
	assert.LessOrEqual(t, third, 4*base+base)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(core.ErrInvalidEntry))
	assert.True(t, IsPermanent(fmt.Errorf("embed: %w", ai.ErrEmptyEmbedding)))
	assert.True(t, IsPermanent(ai.ErrQueuedResponse))
	assert.False(t, IsPermanent(errors.New("connection refused")))
	assert.False(t, IsPermanent(nil))
}
