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

	"golang.org/x/sync/semaphore"
)

// Gate is a counting semaphore bounding how many entries run through the
// inference pipeline at once. Waiters are served in FIFO order. Callers
// must pair every successful Acquire with exactly one Release, normally
// via defer so a panicking worker still returns its permit.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewGate creates a gate with the given permit capacity.
// Capacities below 1 are clamped to 1.
func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Acquire blocks until a permit is available or the context is done.
// Returns the context error when cancelled while waiting.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release returns a permit to the gate. Releasing more permits than were
// acquired panics.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Capacity returns the total number of permits.
func (g *Gate) Capacity() int {
	return g.capacity
}
