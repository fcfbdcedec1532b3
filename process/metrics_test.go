package process

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAccountingInvariant(t *testing.T) {
	m := NewMetrics()

	// Hammer the counters from parallel workers the way a run does.
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				m.MarkProcessed(true)
			case 1:
				m.MarkProcessed(false)
			case 2:
				m.MarkSkipped()
			case 3:
				m.MarkFailed("2024-01-01", "enrich", errors.New("down"))
			}
		}(i)
	}
	wg.Wait()
	m.Finalize()

	assert.Equal(t, 40, m.Processed+m.Failed+m.Skipped)
	assert.Equal(t, 20, m.Processed)
	assert.Equal(t, 10, m.Relevant)
	assert.Equal(t, 10, m.Irrelevant)
	assert.Equal(t, 10, m.Skipped)
	assert.Equal(t, 10, m.Failed)
	assert.Len(t, m.Errors, 10)
	assert.Equal(t, 40, m.Total())
}

func TestMetricsFinalizeDerivesRate(t *testing.T) {
	m := NewMetrics()
	m.MarkProcessed(true)
	m.MarkSkipped()
	m.Finalize()

	assert.Greater(t, m.Duration, time.Duration(0))
	require.Greater(t, m.Rate, 0.0)
}

func TestMetricsErrorRecordsCarryContext(t *testing.T) {
	m := NewMetrics()
	m.MarkFailed("2024-03-15", "store", errors.New("disk full"))

	require.Len(t, m.Errors, 1)
	rec := m.Errors[0]
	assert.Equal(t, "2024-03-15", rec.Date)
	assert.Equal(t, "store", rec.Step)
	assert.Equal(t, "disk full", rec.Message)
	assert.False(t, rec.Timestamp.IsZero())
}
