package badger

import (
	"context"
	"testing"

	"github.com/skysift/apodex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	_, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	require.NoError(t, vectors.Upsert(ctx,
		&storage.VectorEntry{ID: "2024-01-01", Values: []float32{1, 0, 0}, Category: "Galaxy", Title: "NGC 4414"},
		&storage.VectorEntry{ID: "2024-01-02", Values: []float32{0, 1, 0}, Category: "Nebula", Title: "Orion"},
		&storage.VectorEntry{ID: "2024-01-03", Values: []float32{0.9, 0.1, 0}, Category: "Galaxy", Title: "M31"},
	))

	matches, err := vectors.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "2024-01-01", matches[0].ID)
	assert.Equal(t, "2024-01-03", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "Galaxy", matches[0].Category)
	assert.Equal(t, "NGC 4414", matches[0].Title)
}

func TestVectorIndex_UpsertReplaces(t *testing.T) {
	_, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	require.NoError(t, vectors.Upsert(ctx, &storage.VectorEntry{ID: "2024-01-01", Values: []float32{1, 0}}))
	require.NoError(t, vectors.Upsert(ctx, &storage.VectorEntry{ID: "2024-01-01", Values: []float32{0, 1}, Category: "Comet"}))

	matches, err := vectors.Query(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Comet", matches[0].Category)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

func TestVectorIndex_QueryValidation(t *testing.T) {
	_, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	_, err = vectors.Query(ctx, nil, 10)
	assert.ErrorIs(t, err, storage.ErrEmptyVector)

	_, err = vectors.Query(ctx, []float32{1}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestVectorIndex_UpsertValidation(t *testing.T) {
	_, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	err = vectors.Upsert(ctx, &storage.VectorEntry{ID: "", Values: []float32{1}})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	err = vectors.Upsert(ctx, &storage.VectorEntry{ID: "2024-01-01"})
	assert.ErrorIs(t, err, storage.ErrEmptyVector)
}

func TestVectorIndex_DeleteByIDs(t *testing.T) {
	_, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	require.NoError(t, vectors.Upsert(ctx,
		&storage.VectorEntry{ID: "2024-01-01", Values: []float32{1, 0}},
		&storage.VectorEntry{ID: "2024-01-02", Values: []float32{0, 1}},
	))

	require.NoError(t, vectors.DeleteByIDs(ctx, "2024-01-01", "2024-12-31"))

	matches, err := vectors.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "2024-01-02", matches[0].ID)
}
