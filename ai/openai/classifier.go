package openai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/skysift/apodex/ai"
)

// Classifier implements ai.Classifier using embedding similarity: the text
// and every candidate label are embedded, and the label with the highest
// cosine similarity wins. Label embeddings are computed once and cached,
// so steady-state classification costs a single embedding call.
type Classifier struct {
	embedder ai.Embedder
	labels   []string
	logger   *slog.Logger

	mu           sync.Mutex
	labelVectors [][]float32
}

// newClassifier is an internal constructor that returns the concrete type.
func newClassifier(embedder ai.Embedder, labels []string) (*Classifier, error) {
	if len(labels) == 0 {
		return nil, ai.ErrNoLabels
	}

	return &Classifier{
		embedder: embedder,
		labels:   labels,
		logger:   slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewClassifier creates a zero-shot classifier over the given labels,
// backed by the given embedder.
//
// Returns ai.Classifier interface to enforce abstraction.
func NewClassifier(embedder ai.Embedder, labels []string) (ai.Classifier, error) {
	return newClassifier(embedder, labels)
}

// Classify returns the best-matching label for the text.
// The input is pre-processed (whitespace normalized, special characters
// stripped, truncated) before embedding.
func (c *Classifier) Classify(ctx context.Context, text string) (ai.Classification, error) {
	text = normalizeForClassification(text)
	if text == "" {
		return ai.Classification{}, ai.ErrEmptyInput
	}

	labelVectors, err := c.labelEmbeddings(ctx)
	if err != nil {
		return ai.Classification{}, fmt.Errorf("embedding candidate labels: %w", err)
	}

	textVector, err := c.embedder.EmbedText(ctx, text)
	if err != nil {
		return ai.Classification{}, err
	}

	best := ai.Classification{}
	for i, labelVector := range labelVectors {
		score := cosineSimilarity(textVector, labelVector)
		if score > best.Score || best.Label == "" {
			best = ai.Classification{Label: c.labels[i], Score: score}
		}
	}

	c.logger.Debug("classified text", "label", best.Label, "score", best.Score)
	return best, nil
}

// labelEmbeddings returns the cached label vectors, computing them on the
// first call. Failed attempts are not cached so a transient embedding
// outage does not poison the classifier.
func (c *Classifier) labelEmbeddings(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.labelVectors != nil {
		return c.labelVectors, nil
	}

	vectors, err := c.embedder.EmbedTexts(ctx, c.labels)
	if err != nil {
		return nil, err
	}

	c.labelVectors = vectors
	return vectors, nil
}

// cosineSimilarity computes the cosine similarity of two vectors, clamped
// to [0,1]. Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
