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


// Package process drives batches of APOD feed entries through the
// enrichment pipeline: acquire a gate permit, fetch the image, caption,
// classify, embed, validate relevance, then archive the relevant ones.
//
// The Processor is the central state machine. Each entry moves through
// filtering (media kind, already-processed check), enrichment, relevance
// validation and storage, with per-item retry and exponential backoff for
// transient failures. Item failures never abort the batch; they are
// recorded in the run's Metrics. Only malformed input or broken wiring
// fails an entire run.
package process
