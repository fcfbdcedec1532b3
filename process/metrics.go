package process

import (
	"sync"
	"time"
)

// ItemError records one entry's terminal failure for operator visibility.
type ItemError struct {
	Date      string    `json:"date"`
	Message   string    `json:"message"`
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// Metrics aggregates the outcome of one processing run. Each run owns a
// fresh instance; the counters are safe for concurrent workers.
//
// Every input entry ends in exactly one terminal state, so after Finalize
// the counters satisfy Processed + Failed + Skipped == total input size.
// Irrelevant entries count as Processed: they went through the full
// pipeline and were filtered on its result, not dropped on an error.
type Metrics struct {
	mu sync.Mutex

	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	Skipped    int         `json:"skipped"`
	Relevant   int         `json:"relevant"`
	Irrelevant int         `json:"irrelevant"`
	Errors     []ItemError `json:"errors"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Rate      float64       `json:"rate"` // entries per second
}

// NewMetrics creates metrics for a run starting now.
func NewMetrics() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

// MarkProcessed counts one fully processed entry, split by relevance.
func (m *Metrics) MarkProcessed(relevant bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Processed++
	if relevant {
		m.Relevant++
	} else {
		m.Irrelevant++
	}
}

// MarkSkipped counts one entry filtered before enrichment.
func (m *Metrics) MarkSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped++
}

// MarkFailed counts one terminally failed entry and records its error.
func (m *Metrics) MarkFailed(date, step string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed++
	m.Errors = append(m.Errors, ItemError{
		Date:      date,
		Message:   err.Error(),
		Step:      step,
		Timestamp: time.Now(),
	})
}

// Finalize computes the derived duration and throughput. Call once, after
// all workers have settled.
func (m *Metrics) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartedAt)
	total := m.Processed + m.Failed + m.Skipped
	if seconds := m.Duration.Seconds(); seconds > 0 {
		m.Rate = float64(total) / seconds
	}
}

// Total returns the number of entries that reached a terminal state.
func (m *Metrics) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Processed + m.Failed + m.Skipped
}
