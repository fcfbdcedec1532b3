package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/skysift/apodex/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
//
// Queries scan every stored vector and rank by cosine similarity. The
// archive grows by one entry per day, so even decades of data stay in the
// low tens of thousands of vectors, so a flat scan is simpler than an ANN
// structure and fast enough at that scale.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex on the shared backend.
func NewVectorIndex(backend *Backend) (*VectorIndex, error) {
	return &VectorIndex{backend: backend}, nil
}

// Close releases resources. VectorIndex has no resources of its own.
func (ix *VectorIndex) Close() error {
	return nil
}

// Upsert inserts or replaces entries keyed by their ID.
func (ix *VectorIndex) Upsert(ctx context.Context, entries ...*storage.VectorEntry) error {
	return ix.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if entry.ID == "" {
				return fmt.Errorf("%w: entry ID is empty", storage.ErrInvalidQuery)
			}
			if len(entry.Values) == 0 {
				return fmt.Errorf("%w: entry %q", storage.ErrEmptyVector, entry.ID)
			}
			if err := tx.Set(makeVectorKey(entry.ID), storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns up to topK entries closest to the vector by cosine
// similarity, ordered by score descending.
func (ix *VectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]storage.VectorMatch, error) {
	if len(vector) == 0 {
		return nil, storage.ErrEmptyVector
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1", storage.ErrInvalidQuery)
	}

	var matches []storage.VectorMatch

	err := ix.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *storage.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Values) == 0 {
				continue
			}

			matches = append(matches, storage.VectorMatch{
				ID:       entry.ID,
				Score:    cosineSimilarity(vector, entry.Values),
				Category: entry.Category,
				Title:    entry.Title,
			})
		}

		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b storage.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// DeleteByIDs removes entries by their IDs. Missing IDs are ignored.
func (ix *VectorIndex) DeleteByIDs(ctx context.Context, ids ...string) error {
	return ix.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
