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


// Package server exposes the processing pipeline over HTTP: synchronous
// and asynchronous batch runs, similarity search over the archived
// embeddings, and a health endpoint.
//
// Async runs execute on a bounded worker pool and are tracked in an
// in-memory registry keyed by run id; the registry is scoped to the
// server's lifetime, not persisted.
package server
