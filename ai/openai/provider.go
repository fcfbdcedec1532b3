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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skysift/apodex/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages captioner, classifier and embedder instances.
type Provider struct {
	config     *ai.Config
	captioner  *Captioner
	classifier *Classifier
	embedder   *Embedder
	logger     *slog.Logger
}

// NewProvider creates a new inference provider with OpenAI-compatible
// services. The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	classifier, err := newClassifier(embedder, ai.CandidateLabels)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	captioner, err := newCaptioner(config)
	if err != nil {
		return nil, fmt.Errorf("creating captioner: %w", err)
	}

	return &Provider{
		config:     config,
		captioner:  captioner,
		classifier: classifier,
		embedder:   embedder,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Captioner returns the image captioning service.
func (p *Provider) Captioner() ai.Captioner {
	return p.captioner
}

// Classifier returns the text classification service.
func (p *Provider) Classifier() ai.Classifier {
	return p.classifier
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ValidateConfiguration fires a minimal smoke-test embedding call to verify
// the backing services are reachable and correctly configured.
func (p *Provider) ValidateConfiguration(ctx context.Context) error {
	vector, err := p.embedder.EmbedText(ctx, "ping")
	if err != nil {
		return fmt.Errorf("embedding smoke test: %w", err)
	}
	if len(vector) == 0 {
		return fmt.Errorf("embedding smoke test: %w", ai.ErrEmptyEmbedding)
	}
	return nil
}

// Close releases resources held by the provider.
// The underlying HTTP clients hold no persistent connections, so this is
// currently a no-op kept for interface symmetry.
func (p *Provider) Close() error {
	return nil
}
