package process

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysift/apodex/ai"
	"github.com/skysift/apodex/ai/mock"
	"github.com/skysift/apodex/archive"
	"github.com/skysift/apodex/core"
	"github.com/skysift/apodex/storage"
	badgerstore "github.com/skysift/apodex/storage/badger"
	"github.com/skysift/apodex/storage/sqlite"
)

// stubFetcher serves canned image bytes without the network.
type stubFetcher struct {
	data []byte
	mime string
	err  error

	mu    sync.Mutex
	calls int
}

func (f *stubFetcher) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.mime, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{data: []byte("jpeg-bytes"), mime: "image/jpeg"}
}

type testPipeline struct {
	processor *Processor
	provider  *mock.Provider
	fetcher   *stubFetcher
	coord     *archive.Coordinator
	meta      storage.MetadataStore
	blobs     storage.BlobStore
	vectors   storage.VectorIndex
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryAttempts = 3
	cfg.RetryBaseDelay = time.Millisecond
	cfg.MaxRetryDelay = 5 * time.Millisecond
	cfg.BatchDelay = 0
	return cfg
}

func newTestPipeline(t *testing.T, cfg Config) *testPipeline {
	t.Helper()

	meta, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { meta.Close() })

	blobs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	coord, err := archive.NewCoordinator(meta, blobs, vectors)
	require.NoError(t, err)

	provider := mock.NewProvider()
	fetcher := newStubFetcher()
	processor, err := NewProcessor(provider, coord, fetcher, cfg)
	require.NoError(t, err)

	return &testPipeline{
		processor: processor,
		provider:  provider,
		fetcher:   fetcher,
		coord:     coord,
		meta:      meta,
		blobs:     blobs,
		vectors:   vectors,
	}
}

func galaxyEntry(date string) *core.FeedEntry {
	return &core.FeedEntry{
		Date:        date,
		Title:       "Spiral Galaxy NGC 4414",
		Explanation: "A grand spiral galaxy seen nearly face on. The galaxy spans many thousands of light years.",
		URL:         "https://apod.example/ngc4414.jpg",
		MediaType:   core.MediaTypeImage,
	}
}

func TestRunArchivesRelevantEntry(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	ctx := context.Background()

	metrics, err := p.processor.Run(ctx, []*core.FeedEntry{galaxyEntry("2024-01-01")})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Processed)
	assert.Equal(t, 1, metrics.Relevant)
	assert.Equal(t, 0, metrics.Irrelevant)
	assert.Equal(t, 0, metrics.Failed)
	assert.Equal(t, 0, metrics.Skipped)
	assert.Empty(t, metrics.Errors)

	record, err := p.meta.GetRecord(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Galaxy", record.Category)
	assert.True(t, record.Relevant)
	assert.NotEmpty(t, record.Caption)

	exists, err := p.blobs.Head(ctx, record.BlobKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunSkipsVideoWithoutInference(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	video := galaxyEntry("2024-01-02")
	video.MediaType = core.MediaTypeVideo

	metrics, err := p.processor.Run(context.Background(), []*core.FeedEntry{video})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Skipped)
	assert.Equal(t, 0, metrics.Processed)
	assert.Equal(t, 0, p.fetcher.callCount())
	assert.Equal(t, 0, p.provider.MockCaptioner.CallCount())
	assert.Equal(t, 0, p.provider.MockEmbedder.CallCount())
}

func TestRunSkipsAlreadyProcessedEntry(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	ctx := context.Background()
	entry := galaxyEntry("2024-01-03")

	first, err := p.processor.Run(ctx, []*core.FeedEntry{entry})
	require.NoError(t, err)
	require.Equal(t, 1, first.Processed)

	second, err := p.processor.Run(ctx, []*core.FeedEntry{entry})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 0, second.Processed)

	count, err := p.meta.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunCountsIrrelevantWithoutStoreWrites(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	ctx := context.Background()

	offTopic := &core.FeedEntry{
		Date:        "2024-01-04",
		Title:       "A Quiet Afternoon",
		Explanation: "Nothing notable happened today.",
		URL:         "https://apod.example/afternoon.jpg",
		MediaType:   core.MediaTypeImage,
	}

	metrics, err := p.processor.Run(ctx, []*core.FeedEntry{offTopic})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Processed)
	assert.Equal(t, 1, metrics.Irrelevant)
	assert.Equal(t, 0, metrics.Relevant)

	count, err := p.meta.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	matches, err := p.vectors.Query(ctx, mock.DeterministicVector("x", mock.DefaultVectorDim), 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunRetriesTransientFailures(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	var attempts int
	var mu sync.Mutex
	p.provider.MockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection reset")
		}
		return mock.DeterministicVector(text, mock.DefaultVectorDim), nil
	}

	metrics, err := p.processor.Run(context.Background(), []*core.FeedEntry{galaxyEntry("2024-01-05")})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Processed)
	assert.Equal(t, 0, metrics.Failed)
	assert.Equal(t, 3, attempts)
}

func TestRunRecordsOneErrorOnExhaustion(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 2
	p := newTestPipeline(t, cfg)

	p.provider.MockClassifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{}, errors.New("model offline")
	}

	metrics, err := p.processor.Run(context.Background(), []*core.FeedEntry{galaxyEntry("2024-01-06")})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Failed)
	assert.Equal(t, 0, metrics.Processed)
	require.Len(t, metrics.Errors, 1)
	assert.Equal(t, "2024-01-06", metrics.Errors[0].Date)
	assert.Equal(t, "enrich", metrics.Errors[0].Step)
	assert.Contains(t, metrics.Errors[0].Message, "model offline")

	// Two attempts, each running classify once.
	assert.Equal(t, 2, p.provider.MockClassifier.CallCount())
}

func TestRunDoesNotRetryPermanentErrors(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	p.provider.MockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, ai.ErrQueuedResponse
	}

	metrics, err := p.processor.Run(context.Background(), []*core.FeedEntry{galaxyEntry("2024-01-07")})
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.Failed)
	assert.Equal(t, 1, p.provider.MockEmbedder.CallCount())
}

func TestRunDegradesCaptionFailures(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	ctx := context.Background()

	p.provider.MockCaptioner.CaptionFunc = func(ctx context.Context, image []byte, mimeType string) (string, error) {
		return "", errors.New("vision model down")
	}

	metrics, err := p.processor.Run(ctx, []*core.FeedEntry{galaxyEntry("2024-01-08")})
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.Processed)
	assert.Equal(t, 0, metrics.Failed)

	record, err := p.meta.GetRecord(ctx, "2024-01-08")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record.Caption, "caption unavailable"))
}

func TestRunRejectsMalformedBatch(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	ctx := context.Background()

	_, err := p.processor.Run(ctx, nil)
	assert.ErrorIs(t, err, ErrNoEntries)

	bad := galaxyEntry("2024-01-09")
	bad.URL = ""
	bad.HDURL = ""
	_, err = p.processor.Run(ctx, []*core.FeedEntry{galaxyEntry("2024-01-10"), bad})
	assert.ErrorIs(t, err, core.ErrInvalidEntry)

	// Fail fast: the valid entry must not have been processed either.
	count, err := p.meta.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunAccountingInvariantAcrossMixedBatch(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 3
	cfg.MaxConcurrent = 2
	p := newTestPipeline(t, cfg)
	ctx := context.Background()

	video := galaxyEntry("2024-02-02")
	video.MediaType = core.MediaTypeVideo
	offTopic := &core.FeedEntry{
		Date:        "2024-02-03",
		Title:       "A Quiet Afternoon",
		Explanation: "Nothing notable happened today.",
		URL:         "https://apod.example/q.jpg",
		MediaType:   core.MediaTypeImage,
	}

	entries := []*core.FeedEntry{
		galaxyEntry("2024-02-01"),
		video,
		offTopic,
		galaxyEntry("2024-02-04"),
		galaxyEntry("2024-02-05"),
	}

	metrics, err := p.processor.Run(ctx, entries)
	require.NoError(t, err)

	assert.Equal(t, len(entries), metrics.Processed+metrics.Failed+metrics.Skipped)
	assert.Equal(t, 1, metrics.Skipped)
	assert.Equal(t, 1, metrics.Irrelevant)
	assert.Equal(t, 3, metrics.Relevant)
	assert.Equal(t, 0, metrics.Failed)
	assert.Greater(t, metrics.Rate, 0.0)

	count, err := p.meta.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewProcessorRequiresWiring(t *testing.T) {
	p := newTestPipeline(t, testConfig())

	_, err := NewProcessor(nil, p.coord, p.fetcher, testConfig())
	assert.ErrorIs(t, err, ErrNilProvider)
	_, err = NewProcessor(p.provider, nil, p.fetcher, testConfig())
	assert.ErrorIs(t, err, ErrNilCoordinator)
	_, err = NewProcessor(p.provider, p.coord, nil, testConfig())
	assert.ErrorIs(t, err, ErrNilFetcher)
}
