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


// Package apodex archives the Astronomy Picture of the Day feed: each
// entry is captioned, classified and embedded by an inference backend,
// checked for astronomical relevance, and persisted across a metadata
// table, a blob store and a vector index.
package apodex

import (
	"log/slog"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/ai/openai"
	"github.com/skysift/apodex/archive"
	"github.com/skysift/apodex/config"
	"github.com/skysift/apodex/feed"
	"github.com/skysift/apodex/process"
	"github.com/skysift/apodex/storage"
	badgerstore "github.com/skysift/apodex/storage/badger"
	"github.com/skysift/apodex/storage/sqlite"
)

// Archive bundles the stores, the inference provider and the processing
// pipeline behind one lifecycle. It is the embedded-library entry point;
// cmd/apodex adds the CLI and HTTP surfaces on top.
type Archive struct {
	backend   *badgerstore.Backend
	meta      storage.MetadataStore
	blobs     storage.BlobStore
	vectors   storage.VectorIndex
	coord     *archive.Coordinator
	provider  ai.Provider
	feed      *feed.Client
	processor *process.Processor
	logger    *slog.Logger
}

// Open wires an archive from the loaded configuration. An empty
// Storage.MetadataPath means in-memory sqlite; an empty BadgerPath means
// in-memory badger (both useful for tests and dry runs).
func Open(cfg *config.Config) (*Archive, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	metaPath := cfg.Storage.MetadataPath
	if metaPath == "" {
		metaPath = ":memory:"
	}
	meta, err := sqlite.Open(metaPath)
	if err != nil {
		return nil, err
	}

	backend, err := badgerstore.OpenBackend(cfg.Storage.BadgerPath, cfg.Storage.BadgerPath == "")
	if err != nil {
		meta.Close()
		return nil, err
	}

	blobs, err := badgerstore.NewBlobStore(backend)
	if err != nil {
		backend.Close()
		meta.Close()
		return nil, err
	}

	vectors, err := badgerstore.NewVectorIndex(backend)
	if err != nil {
		blobs.Close()
		backend.Close()
		meta.Close()
		return nil, err
	}

	coord, err := archive.NewCoordinator(meta, blobs, vectors)
	if err != nil {
		vectors.Close()
		blobs.Close()
		backend.Close()
		meta.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithChatHost(cfg.AI.ChatHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithCaptionModel(cfg.AI.CaptionModel),
		ai.WithToken(cfg.AI.Token),
	))
	if err != nil {
		vectors.Close()
		blobs.Close()
		backend.Close()
		meta.Close()
		return nil, err
	}

	feedClient := feed.NewClient(
		feed.WithBaseURL(cfg.Feed.BaseURL),
		feed.WithAPIKey(cfg.Feed.APIKey),
		feed.WithBaseDelay(cfg.Feed.BaseDelay),
		feed.WithMaxImageBytes(cfg.Feed.MaxImageBytes),
	)

	processor, err := process.NewProcessor(provider, coord, feedClient, cfg.Processing.ToProcessConfig())
	if err != nil {
		provider.Close()
		vectors.Close()
		blobs.Close()
		backend.Close()
		meta.Close()
		return nil, err
	}

	return &Archive{
		backend:   backend,
		meta:      meta,
		blobs:     blobs,
		vectors:   vectors,
		coord:     coord,
		provider:  provider,
		feed:      feedClient,
		processor: processor,
		logger:    slog.Default(),
	}, nil
}

// Close releases every component. Errors are logged; the first store
// close error is returned.
func (a *Archive) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	var firstErr error
	if err := a.vectors.Close(); err != nil {
		a.logger.Error("error closing vector index", "err", err)
		firstErr = err
	}
	if err := a.blobs.Close(); err != nil {
		a.logger.Error("error closing blob store", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing badger backend", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := a.meta.Close(); err != nil {
		a.logger.Error("error closing metadata store", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Processor returns the batch orchestrator.
func (a *Archive) Processor() *process.Processor { return a.processor }

// Coordinator returns the durable store coordinator.
func (a *Archive) Coordinator() *archive.Coordinator { return a.coord }

// Provider returns the inference provider.
func (a *Archive) Provider() ai.Provider { return a.provider }

// Feed returns the APOD feed client.
func (a *Archive) Feed() *feed.Client { return a.feed }

// MetadataStore returns the relational metadata store.
func (a *Archive) MetadataStore() storage.MetadataStore { return a.meta }
