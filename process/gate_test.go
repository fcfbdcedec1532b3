package process

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateClampsCapacity(t *testing.T) {
	assert.Equal(t, 1, NewGate(0).Capacity())
	assert.Equal(t, 1, NewGate(-5).Capacity())
	assert.Equal(t, 8, NewGate(8).Capacity())
}

func TestGateBoundsConcurrency(t *testing.T) {
	const capacity = 3
	gate := NewGate(capacity)
	ctx := context.Background()

	var active, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.Acquire(ctx); err != nil {
				t.Error(err)
				return
			}
			defer gate.Release()

			now := atomic.AddInt64(&active, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if now <= old || atomic.CompareAndSwapInt64(&peak, old, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&active, -1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(capacity))
	assert.Greater(t, atomic.LoadInt64(&peak), int64(0))
}

func TestGateAcquireHonorsCancellation(t *testing.T) {
	gate := NewGate(1)
	require.NoError(t, gate.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := gate.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The held permit is still valid and releasable.
	gate.Release()
	require.NoError(t, gate.Acquire(context.Background()))
	gate.Release()
}
