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


package feed

import (
	"context"
	"sync"
	"time"
)

// MaxPenalty caps the 429 backoff penalty.
const MaxPenalty = 5 * time.Minute

// RateLimiter serializes API calls through a single permit and paces them
// with a base delay. Each 429 from upstream doubles an additional penalty
// delay, capped at MaxPenalty; the first successful call resets it.
type RateLimiter struct {
	permit    chan struct{}
	baseDelay time.Duration

	mu      sync.Mutex
	penalty time.Duration
}

// NewRateLimiter creates a limiter pacing calls at least baseDelay apart.
func NewRateLimiter(baseDelay time.Duration) *RateLimiter {
	if baseDelay < 0 {
		baseDelay = 0
	}
	r := &RateLimiter{
		permit:    make(chan struct{}, 1),
		baseDelay: baseDelay,
	}
	r.permit <- struct{}{}
	return r
}

// Wait acquires the single permit and sleeps the current pacing delay.
// The caller must Release after the API call settles. Returns the context
// error when cancelled while waiting.
func (r *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.permit:
	}

	delay := r.baseDelay + r.currentPenalty()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		r.Release()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Release returns the permit.
func (r *RateLimiter) Release() {
	select {
	case r.permit <- struct{}{}:
	default:
	}
}

// Penalize doubles the pacing penalty after a 429, starting from one
// second and capped at MaxPenalty.
func (r *RateLimiter) Penalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.penalty == 0 {
		r.penalty = time.Second
	} else {
		r.penalty *= 2
	}
	if r.penalty > MaxPenalty {
		r.penalty = MaxPenalty
	}
}

// Reset clears the penalty after a successful call.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.penalty = 0
}

func (r *RateLimiter) currentPenalty() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.penalty
}
