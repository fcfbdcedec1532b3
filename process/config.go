package process

import "time"

// Default processing bounds.
const (
	DefaultMaxConcurrent  = 5
	DefaultBatchSize      = 10
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay  = 30 * time.Second
	DefaultBatchDelay     = time.Second
)

// Config controls one processing run. Load it once, Clamp it, and treat it
// as immutable for the lifetime of the run.
type Config struct {
	// MaxConcurrent bounds how many entries are enriched in parallel.
	MaxConcurrent int

	// BatchSize is how many entries form one chunk. Chunks run
	// sequentially; entries within a chunk run concurrently.
	BatchSize int

	// RetryAttempts is the total number of attempts per entry, including
	// the first.
	RetryAttempts int

	// RetryBaseDelay is the backoff delay before the second attempt.
	RetryBaseDelay time.Duration

	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay time.Duration

	// BatchDelay is the pause between chunks.
	BatchDelay time.Duration

	// ItemTimeout bounds one entry's total pipeline time, including
	// retries. Zero disables the deadline.
	ItemTimeout time.Duration

	// Verbose enables per-item debug logging.
	Verbose bool
}

// DefaultConfig returns the standard processing bounds.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:  DefaultMaxConcurrent,
		BatchSize:      DefaultBatchSize,
		RetryAttempts:  DefaultRetryAttempts,
		RetryBaseDelay: DefaultRetryBaseDelay,
		MaxRetryDelay:  DefaultMaxRetryDelay,
		BatchDelay:     DefaultBatchDelay,
	}
}

// Clamp forces every field into its valid range. Malformed configuration
// never fails a run; out-of-range values are pulled to the nearest bound.
func (c *Config) Clamp() {
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = 1
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}
	if c.RetryAttempts < 1 {
		c.RetryAttempts = 1
	}
	if c.RetryBaseDelay < 0 {
		c.RetryBaseDelay = 0
	}
	if c.MaxRetryDelay < 0 {
		c.MaxRetryDelay = 0
	}
	if c.MaxRetryDelay > 0 && c.MaxRetryDelay < c.RetryBaseDelay {
		c.MaxRetryDelay = c.RetryBaseDelay
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	if c.ItemTimeout < 0 {
		c.ItemTimeout = 0
	}
}
