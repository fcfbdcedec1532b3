package mock

import (
	"context"

	"github.com/skysift/apodex/ai"
)

// Provider is a test double for ai.Provider aggregating the mock services.
type Provider struct {
	MockCaptioner  *Captioner
	MockClassifier *Classifier
	MockEmbedder   *Embedder

	// ValidateFunc is called by ValidateConfiguration if set.
	ValidateFunc func(ctx context.Context) error
}

// NewProvider creates a provider whose services all use default
// deterministic behavior.
func NewProvider() *Provider {
	return &Provider{
		MockCaptioner:  NewCaptioner(),
		MockClassifier: NewClassifier(),
		MockEmbedder:   NewEmbedder(),
	}
}

// Captioner returns the mock captioning service.
func (p *Provider) Captioner() ai.Captioner { return p.MockCaptioner }

// Classifier returns the mock classification service.
func (p *Provider) Classifier() ai.Classifier { return p.MockClassifier }

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder { return p.MockEmbedder }

// ValidateConfiguration reports success unless ValidateFunc is injected.
func (p *Provider) ValidateConfiguration(ctx context.Context) error {
	if p.ValidateFunc != nil {
		return p.ValidateFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (p *Provider) Close() error { return nil }
