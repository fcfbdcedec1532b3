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


package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skysift/apodex/process"
)

// Run lifecycle states.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunState is the externally visible state of one async run.
type RunState struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	StartedAt time.Time        `json:"started_at"`
	Metrics   *process.Metrics `json:"metrics,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// runRegistry tracks async runs in memory for the server's lifetime.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]*RunState
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*RunState)}
}

// begin registers a new running run and returns its id.
func (r *runRegistry) begin() string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[id] = &RunState{
		ID:        id,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}
	return id
}

// complete records a finished run's metrics.
func (r *runRegistry) complete(id string, metrics *process.Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.runs[id]; ok {
		state.Status = RunStatusCompleted
		state.Metrics = metrics
	}
}

// fail records a run that aborted before producing metrics.
func (r *runRegistry) fail(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.runs[id]; ok {
		state.Status = RunStatusFailed
		state.Error = err.Error()
	}
}

// get returns a copy of the run state.
func (r *runRegistry) get(id string) (*RunState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	copied := *state
	return &copied, nil
}
