package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/storage"
)

// BlobStore implements storage.BlobStore for BadgerDB.
type BlobStore struct {
	backend *Backend
}

var _ storage.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a new BlobStore on the shared backend.
func NewBlobStore(backend *Backend) (*BlobStore, error) {
	return &BlobStore{backend: backend}, nil
}

// Close releases resources. BlobStore has no resources of its own; the
// shared backend is closed by its owner.
func (s *BlobStore) Close() error {
	return nil
}

// Put stores data under key with its content type. Writing a key whose
// stored checksum already matches the new data is a no-op, which makes
// re-archiving an unchanged image cheap.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	checksum := core.ContentChecksum(data)

	return s.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := readBlob(tx, makeBlobKey(key))
		if err != nil {
			return err
		}
		if existing != nil && existing.Checksum == checksum && existing.ContentType == contentType {
			return nil
		}

		entry := &storage.BlobEntry{
			ContentType: contentType,
			Checksum:    checksum,
			Data:        data,
		}
		if err := tx.Set(makeBlobKey(key), storage.MarshalBlobEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the blob and its content type.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var entry *storage.BlobEntry

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		entry, err = readBlob(tx, makeBlobKey(key))
		return err
	}, false)
	if err != nil {
		return nil, "", err
	}
	if entry == nil {
		return nil, "", fmt.Errorf("%w: blob %q", storage.ErrNotFound, key)
	}

	return entry.Data, entry.ContentType, nil
}

// Head reports whether a blob exists for the key without reading its value.
func (s *BlobStore) Head(ctx context.Context, key string) (bool, error) {
	var exists bool

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeBlobKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	}, false)

	return exists, err
}

// Delete removes a blob. Deleting a missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeBlobKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readBlob reads and unmarshals a blob entry within a transaction.
// Returns nil (no error) if the key does not exist.
func readBlob(tx *badger.Txn, key []byte) (*storage.BlobEntry, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry *storage.BlobEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalBlobEntry(val)
		return err
	})
	return entry, err
}
