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


// Package storage defines the persistence interfaces of the APOD archive:
// a relational metadata store, a blob store for image bytes, and a vector
// index for similarity search.
//
// The three stores are deliberately independent: there is no shared
// transaction mechanism between them. The archive package layers the
// cross-store consistency logic (compensating rollback, idempotent
// upserts) on top of these interfaces.
//
// Concrete implementations live in subpackages: storage/sqlite for the
// metadata store, storage/badger for the blob store and vector index.
package storage
