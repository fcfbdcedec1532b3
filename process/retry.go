// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package process

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/core"
)

// IsPermanent reports whether an error is a validation-class failure that
// retrying cannot fix: malformed input, an empty embedding, or a queued
// job handle where a vector was expected.
func IsPermanent(err error) bool {
	return errors.Is(err, core.ErrInvalidEntry) ||
		errors.Is(err, ai.ErrEmptyEmbedding) ||
		errors.Is(err, ai.ErrQueuedResponse)
}

// RetryWithBackoff retries an operation with exponential backoff and
// jitter. The delay before attempt n is baseDelay * 2^(n-2) plus up to 25%
// random jitter, capped at maxDelay (a maxDelay of 0 means no cap).
//
// Permanent errors (see IsPermanent) short-circuit: the error is returned
// immediately without burning the remaining attempts. Context cancellation
// aborts between attempts and during backoff sleeps.
// Returns the error from the last attempt if all attempts fail.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay, maxDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if IsPermanent(lastErr) {
			slog.Debug("operation failed permanently, not retrying",
				"attempt", attempt, "error", lastErr)
			return lastErr
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		delay := backoffDelay(attempt, baseDelay, maxDelay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// backoffDelay computes the sleep before the next attempt after attempt
// failures: baseDelay * 2^(attempt-1), plus up to 25% jitter so parallel
// items do not retry in lockstep, capped at maxDelay.
func backoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if maxDelay > 0 && delay >= maxDelay {
			delay = maxDelay
			break
		}
	}

	if delay > 0 {
		delay += rand.N(delay/4 + 1)
	}
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
