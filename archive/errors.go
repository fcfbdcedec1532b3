package archive

import "errors"

var (
	// ErrNilMetadataStore is returned by NewCoordinator when no metadata
	// store is provided.
	ErrNilMetadataStore = errors.New("metadata store is nil")

	// ErrNilBlobStore is returned by NewCoordinator when no blob store is
	// provided.
	ErrNilBlobStore = errors.New("blob store is nil")

	// ErrNilVectorIndex is returned by NewCoordinator when no vector index
	// is provided.
	ErrNilVectorIndex = errors.New("vector index is nil")

	// ErrNilEntry is returned by Store when the feed entry is nil.
	ErrNilEntry = errors.New("feed entry is nil")

	// ErrNilEnrichment is returned by Store when the enrichment is nil.
	ErrNilEnrichment = errors.New("enrichment is nil")

	// ErrEmptyImage is returned by Store when no image payload is provided.
	ErrEmptyImage = errors.New("image payload is empty")
)
