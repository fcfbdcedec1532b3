package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skysift/apodex/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
// The input is whitespace-normalized and truncated before the call; the
// response shape is validated defensively (see checkVectors).
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = normalizeForEmbedding(text)
	if text == "" {
		return nil, ai.ErrEmptyInput
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if err := checkVectors(vectors, 1); err != nil {
		return nil, err
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	normalized := make([]string, len(texts))
	for i, text := range texts {
		normalized[i] = normalizeForEmbedding(text)
		if normalized[i] == "" {
			return nil, fmt.Errorf("%w: text %d", ai.ErrEmptyInput, i)
		}
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, normalized)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	if err := checkVectors(vectors, len(texts)); err != nil {
		return nil, err
	}

	return vectors, nil
}

// checkVectors validates an embeddings response. A count mismatch means the
// service answered with something other than one vector per input; the
// observed failure mode is an async job handle, which the client cannot
// complete, so it is reported as ErrQueuedResponse rather than retried.
// Individual empty vectors are reported as ErrEmptyEmbedding.
func checkVectors(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: got %d vectors for %d inputs", ai.ErrQueuedResponse, len(vectors), want)
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("%w: vector %d", ai.ErrEmptyEmbedding, i)
		}
	}
	return nil
}
