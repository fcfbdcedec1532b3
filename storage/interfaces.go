package storage

import (
	"context"

	"github.com/skysift/apodex/core"
)

// MetadataStore provides operations over the relational archive table,
// keyed by entry date. Implementations must be thread-safe and support
// concurrent access.
type MetadataStore interface {
	// UpsertRecord inserts or replaces the row keyed by record.Date.
	// Repeated writes with the same date are idempotent.
	UpsertRecord(ctx context.Context, record *core.ArchiveRecord) error

	// GetRecord retrieves the row for a date.
	// Returns ErrNotFound if no row exists.
	GetRecord(ctx context.Context, date string) (*core.ArchiveRecord, error)

	// HasRecord reports whether a row exists for the date.
	HasRecord(ctx context.Context, date string) (bool, error)

	// DeleteRecord removes the row for a date. Deleting a missing row is
	// not an error.
	DeleteRecord(ctx context.Context, date string) error

	// DeleteRecordByTx removes the row for a date only if it carries the
	// given transaction id. Used by compensating rollback so a concurrent
	// rewrite of the same date is never clobbered.
	DeleteRecordByTx(ctx context.Context, date, txID string) error

	// CountRecords returns the number of archived rows.
	CountRecords(ctx context.Context) (int, error)

	// ListRecords returns up to limit rows ordered by date descending,
	// starting at offset.
	ListRecords(ctx context.Context, limit, offset int) ([]*core.ArchiveRecord, error)

	// Close closes the store and releases resources.
	Close() error
}

// BlobStore provides content-addressed storage for image bytes.
// Implementations must be thread-safe and support concurrent access.
type BlobStore interface {
	// Put stores data under key with its content type. Writing the same
	// key again replaces the previous blob.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves the blob and its content type.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Head reports whether a blob exists for the key without reading it.
	Head(ctx context.Context, key string) (bool, error)

	// Delete removes a blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store and releases resources.
	Close() error
}

// VectorEntry is the persisted shape of one indexed embedding: the vector
// plus denormalized metadata used for match presentation and filtering.
type VectorEntry struct {
	ID       string // entry date, same natural key as the metadata row
	Values   []float32
	Category string
	Title    string
	Relevant bool
}

// VectorMatch is one nearest-neighbor result.
type VectorMatch struct {
	ID       string
	Score    float32
	Category string
	Title    string
}

// VectorIndex provides approximate nearest-neighbor search over the
// archived embeddings. Implementations must be thread-safe.
type VectorIndex interface {
	// Upsert inserts or replaces entries keyed by their ID.
	Upsert(ctx context.Context, entries ...*VectorEntry) error

	// Query returns up to topK entries closest to the vector by cosine
	// similarity, ordered by score descending.
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)

	// DeleteByIDs removes entries by their IDs. Missing IDs are ignored.
	DeleteByIDs(ctx context.Context, ids ...string) error

	// Close closes the index and releases resources.
	Close() error
}
