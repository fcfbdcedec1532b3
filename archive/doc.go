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


// Package archive coordinates durable writes of enriched APOD entries
// across three independent stores: the metadata table, the blob store and
// the vector index.
//
// The stores share no transaction mechanism, so the coordinator upholds
// the three-way existence invariant (a metadata row exists iff its blob
// exists iff its vector exists) with ordered writes and compensating
// rollback: the blob is written first, and if a later write fails every
// prior write is deleted best-effort before the original error is
// returned. Writes are idempotent upserts keyed by entry date, so a
// retried item converges instead of duplicating.
//
// The coordinator never retries internally; retry belongs to the batch
// orchestrator, which restarts the whole item pipeline so enrichment data
// is never stitched together across attempts.
package archive
