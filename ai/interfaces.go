package ai

import "context"

// Captioner produces a natural-language description of an astronomical image.
// Implementations must be thread-safe for concurrent use.
//
// Captioning is best-effort enrichment: implementations degrade to a
// placeholder string on upstream failure instead of returning an error, so
// a flaky vision model never blocks the pipeline.
type Captioner interface {
	// Caption describes the image. mimeType is the image content type
	// (e.g. "image/jpeg"). The returned string is never empty.
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Classifier assigns a category label to text.
// Implementations must be thread-safe for concurrent use.
//
// Unlike captioning, classification failures propagate: the relevance
// decision depends on the result, so the caller retries or fails the item.
type Classifier interface {
	// Classify returns the best-matching label for the text along with a
	// similarity score in [0,1].
	Classify(ctx context.Context, text string) (Classification, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns ErrEmptyEmbedding if the service produced no data and
	// ErrQueuedResponse if it answered with a job handle instead of a
	// vector; both are permanent failures.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates the inference services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Captioner returns the image captioning service.
	Captioner() Captioner

	// Classifier returns the text classification service.
	Classifier() Classifier

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ValidateConfiguration fires a minimal smoke-test call against the
	// backing services. Intended for health checks, never the hot path.
	ValidateConfiguration(ctx context.Context) error

	// Close releases resources held by the provider and its services.
	Close() error
}
