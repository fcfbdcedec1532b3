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


package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/storage"
)

const (
	minTopK = 1
	maxTopK = 1000
)

// Coordinator writes enriched entries across the metadata store, the blob
// store and the vector index, upholding the three-way existence invariant
// with ordered writes and compensating rollback.
type Coordinator struct {
	meta    storage.MetadataStore
	blobs   storage.BlobStore
	vectors storage.VectorIndex
	logger  *slog.Logger
}

// NewCoordinator wires the three stores into a coordinator.
func NewCoordinator(meta storage.MetadataStore, blobs storage.BlobStore, vectors storage.VectorIndex) (*Coordinator, error) {
	if meta == nil {
		return nil, ErrNilMetadataStore
	}
	if blobs == nil {
		return nil, ErrNilBlobStore
	}
	if vectors == nil {
		return nil, ErrNilVectorIndex
	}
	return &Coordinator{
		meta:    meta,
		blobs:   blobs,
		vectors: vectors,
		logger:  slog.Default().With("component", "archive"),
	}, nil
}

// IsProcessed reports whether an entry for the date has already been
// archived. The metadata row is the source of truth: it is written after
// the blob, so its presence implies a completed write.
//
// Lookup failures are treated as "not processed" so a flaky check can only
// cause redundant reprocessing, which the idempotent upserts absorb. The
// failure is logged, never propagated.
func (c *Coordinator) IsProcessed(ctx context.Context, date string) bool {
	exists, err := c.meta.HasRecord(ctx, date)
	if err != nil {
		c.logger.Warn("processed check failed, assuming not processed",
			"date", date, "error", err)
		return false
	}
	return exists
}

// Store persists an enriched entry across all three stores and returns the
// archived record. Writes happen blob first, then metadata, then vector:
// the large, slow transfer runs before any visibility marker exists, so a
// partial failure can never leave a row that points at a missing image.
//
// If any write after the blob fails, every prior write is rolled back
// best-effort and the original error is returned. Store never retries.
func (c *Coordinator) Store(ctx context.Context, entry *core.FeedEntry, enrichment *core.Enrichment, image []byte, mimeType string) (*core.ArchiveRecord, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	if enrichment == nil {
		return nil, ErrNilEnrichment
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if err := core.ValidateFeedEntry(entry); err != nil {
		return nil, err
	}

	txID := uuid.NewString()
	blobKey := fmt.Sprintf("images/%s.%s", entry.Date, core.ExtensionForMIME(mimeType))
	record := core.NewArchiveRecord(entry, enrichment, blobKey, txID, time.Now().UTC())

	if err := c.blobs.Put(ctx, blobKey, image, mimeType); err != nil {
		return nil, fmt.Errorf("storing blob %q: %w", blobKey, err)
	}

	if err := c.meta.UpsertRecord(ctx, record); err != nil {
		c.rollback(entry.Date, blobKey, txID)
		return nil, fmt.Errorf("storing metadata for %q: %w", entry.Date, err)
	}

	if err := c.vectors.Upsert(ctx, &storage.VectorEntry{
		ID:       entry.Date,
		Values:   enrichment.Vector,
		Category: enrichment.Category,
		Title:    entry.Title,
		Relevant: enrichment.Relevant,
	}); err != nil {
		c.rollback(entry.Date, blobKey, txID)
		return nil, fmt.Errorf("storing vector for %q: %w", entry.Date, err)
	}

	c.logger.Debug("archived entry",
		"date", entry.Date, "blob_key", blobKey, "category", enrichment.Category)
	return record, nil
}

// rollback deletes the partial writes of a failed Store. Each delete is
// attempted independently; failures are logged and swallowed because the
// caller needs the original write error, not the cleanup error. The
// metadata delete is scoped by transaction id so a concurrent rewrite of
// the same date is never clobbered.
//
// Rollback runs on a fresh context: the triggering failure may be the
// caller's context expiring, which must not also doom the cleanup.
func (c *Coordinator) rollback(date, blobKey, txID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.blobs.Delete(ctx, blobKey); err != nil {
		c.logger.Warn("rollback: blob delete failed",
			"date", date, "blob_key", blobKey, "error", err)
	}
	if err := c.meta.DeleteRecordByTx(ctx, date, txID); err != nil {
		c.logger.Warn("rollback: metadata delete failed",
			"date", date, "tx_id", txID, "error", err)
	}
	if err := c.vectors.DeleteByIDs(ctx, date); err != nil {
		c.logger.Warn("rollback: vector delete failed",
			"date", date, "error", err)
	}
}

// FindSimilar returns up to topK archived entries nearest to the query
// vector. The topK bound is clamped to [1, 1000].
func (c *Coordinator) FindSimilar(ctx context.Context, vector []float32, topK int) ([]storage.VectorMatch, error) {
	if len(vector) == 0 {
		return nil, storage.ErrEmptyVector
	}
	if topK < minTopK {
		topK = minTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	return c.vectors.Query(ctx, vector, topK)
}

// Delete removes an archived entry from all three stores. Deletes run in
// parallel and all are attempted even when some fail; the combined error
// is returned. Deleting a missing entry is not an error.
func (c *Coordinator) Delete(ctx context.Context, date string) error {
	blobKey := ""
	record, err := c.meta.GetRecord(ctx, date)
	switch {
	case err == nil:
		blobKey = record.BlobKey
	case errors.Is(err, storage.ErrNotFound):
		// No row; the blob, if any, is unreachable anyway.
	default:
		return fmt.Errorf("looking up record for %q: %w", date, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = c.meta.DeleteRecord(ctx, date)
	}()
	if blobKey != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[1] = c.blobs.Delete(ctx, blobKey)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[2] = c.vectors.DeleteByIDs(ctx, date)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("deleting archived entry %q: %w", date, err)
	}
	c.logger.Debug("deleted archived entry", "date", date)
	return nil
}
