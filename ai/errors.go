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


package ai

import "errors"

var (
	// ErrEmptyEmbedding indicates the embedding service returned no data
	// for a non-empty input. Permanent: retrying the same input will not help.
	ErrEmptyEmbedding = errors.New("embedding service returned empty result")

	// ErrQueuedResponse indicates the service answered with an async job
	// handle instead of embedding data. Async completion is not
	// implemented, so this is a hard failure rather than a retryable state.
	ErrQueuedResponse = errors.New("embedding service returned queued-job response")

	// ErrEmptyInput indicates a call was made with no text to process.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrNoLabels indicates the classifier has no candidate labels configured.
	ErrNoLabels = errors.New("no candidate labels configured")
)
