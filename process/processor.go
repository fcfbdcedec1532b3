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


package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/archive"
	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/relevance"
)

// Pipeline step names recorded in ItemError.
const (
	stepFetch  = "fetch"
	stepEnrich = "enrich"
	stepStore  = "store"
	stepGate   = "gate"
)

// stepError tags an item failure with the pipeline step it surfaced in.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.step + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// ImageFetcher retrieves image bytes and their content type from a URL.
// Implemented by feed.Client.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

// Processor drives batches of feed entries through enrichment, relevance
// validation and archival with bounded concurrency and per-item retry.
type Processor struct {
	provider ai.Provider
	coord    *archive.Coordinator
	fetcher  ImageFetcher
	config   Config
	logger   *slog.Logger
}

// NewProcessor wires a processor. The config is clamped to valid bounds.
func NewProcessor(provider ai.Provider, coord *archive.Coordinator, fetcher ImageFetcher, config Config) (*Processor, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if coord == nil {
		return nil, ErrNilCoordinator
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	config.Clamp()
	return &Processor{
		provider: provider,
		coord:    coord,
		fetcher:  fetcher,
		config:   config,
		logger:   slog.Default().With("component", "processor"),
	}, nil
}

// Run processes the entries and returns the run's metrics. The input is
// validated up front: an empty list or any malformed entry fails the whole
// run before anything is processed. After that, item failures never abort
// the run; they are recorded in the metrics.
//
// Entries are split into chunks of BatchSize. Chunks run sequentially with
// a BatchDelay pause between them; entries within a chunk run concurrently,
// bounded by the gate. Every entry reaches exactly one terminal state, so
// Processed + Failed + Skipped always equals len(entries).
func (p *Processor) Run(ctx context.Context, entries []*core.FeedEntry) (*Metrics, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	for i, entry := range entries {
		if entry == nil {
			return nil, fmt.Errorf("entry %d: %w", i, core.ErrInvalidEntry)
		}
		if err := core.ValidateFeedEntry(entry); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, entry.Date, err)
		}
	}

	metrics := NewMetrics()
	gate := NewGate(p.config.MaxConcurrent)

	p.logger.Info("starting run",
		"entries", len(entries),
		"batch_size", p.config.BatchSize,
		"max_concurrent", p.config.MaxConcurrent)

	for start := 0; start < len(entries); start += p.config.BatchSize {
		end := min(start+p.config.BatchSize, len(entries))
		chunk := entries[start:end]

		var wg sync.WaitGroup
		for _, entry := range chunk {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.processEntry(ctx, gate, entry, metrics)
			}()
		}
		wg.Wait()

		if end < len(entries) && p.config.BatchDelay > 0 {
			timer := time.NewTimer(p.config.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	metrics.Finalize()
	p.logger.Info("run complete",
		"processed", metrics.Processed,
		"failed", metrics.Failed,
		"skipped", metrics.Skipped,
		"relevant", metrics.Relevant,
		"duration", metrics.Duration)
	return metrics, nil
}

// processEntry walks one entry to a terminal state: skipped, processed
// (relevant or not) or failed. Exactly one metrics mark happens per call.
func (p *Processor) processEntry(ctx context.Context, gate *Gate, entry *core.FeedEntry, metrics *Metrics) {
	if p.config.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ItemTimeout)
		defer cancel()
	}

	if err := gate.Acquire(ctx); err != nil {
		metrics.MarkFailed(entry.Date, stepGate, err)
		return
	}
	defer gate.Release()

	if entry.MediaType != core.MediaTypeImage {
		if p.config.Verbose {
			p.logger.Debug("skipping non-image entry", "date", entry.Date, "media_type", entry.MediaType)
		}
		metrics.MarkSkipped()
		return
	}
	if p.coord.IsProcessed(ctx, entry.Date) {
		if p.config.Verbose {
			p.logger.Debug("skipping already processed entry", "date", entry.Date)
		}
		metrics.MarkSkipped()
		return
	}

	// The whole pipeline retries as a unit. A failure after a partial
	// store write has already been rolled back by the coordinator, so a
	// retry re-runs enrichment against consistent stores instead of
	// stitching stale results onto a fresh write.
	var relevant bool
	err := RetryWithBackoff(ctx, func() error {
		var attemptErr error
		relevant, attemptErr = p.enrichAndStore(ctx, entry)
		return attemptErr
	}, p.config.RetryAttempts, p.config.RetryBaseDelay, p.config.MaxRetryDelay)

	if err != nil {
		p.logger.Warn("entry failed", "date", entry.Date, "error", err)
		metrics.MarkFailed(entry.Date, stepForError(err), err)
		return
	}
	metrics.MarkProcessed(relevant)
}

// enrichAndStore runs one enrichment attempt end to end. Returns whether
// the entry was relevant (and therefore archived).
func (p *Processor) enrichAndStore(ctx context.Context, entry *core.FeedEntry) (bool, error) {
	image, mimeType, err := p.fetcher.FetchImage(ctx, entry.ImageURL())
	if err != nil {
		return false, &stepError{step: stepFetch, err: fmt.Errorf("fetching image: %w", err)}
	}

	// Captioning is best-effort: a broken vision model degrades to a
	// placeholder instead of failing the item.
	caption, err := p.provider.Captioner().Caption(ctx, image, mimeType)
	switch {
	case err != nil:
		p.logger.Warn("captioning degraded", "date", entry.Date, "error", err)
		caption = fmt.Sprintf("caption unavailable: %v", err)
	case caption == "":
		caption = "caption unavailable"
	}

	text := entry.Title + ". " + entry.Explanation
	classification, err := p.provider.Classifier().Classify(ctx, text)
	if err != nil {
		return false, &stepError{step: stepEnrich, err: fmt.Errorf("classifying: %w", err)}
	}

	vector, err := p.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		return false, &stepError{step: stepEnrich, err: fmt.Errorf("embedding: %w", err)}
	}

	result := relevance.Validate(entry.Title, entry.Explanation)
	if p.config.Verbose {
		p.logger.Debug("relevance decided",
			"date", entry.Date,
			"valid", result.Valid,
			"category", result.Category,
			"confidence", result.Confidence)
	}
	if !result.Valid {
		return false, nil
	}

	enrichment := &core.Enrichment{
		Category:   classification.Label,
		Confidence: classification.Score,
		Caption:    caption,
		Vector:     vector,
		Relevant:   true,
	}
	if _, err := p.coord.Store(ctx, entry, enrichment, image, mimeType); err != nil {
		return false, &stepError{step: stepStore, err: fmt.Errorf("archiving: %w", err)}
	}
	return true, nil
}

// stepForError extracts the pipeline step from a terminal error.
func stepForError(err error) string {
	var se *stepError
	if errors.As(err, &se) {
		return se.step
	}
	return stepEnrich
}
