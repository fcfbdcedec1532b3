package badger

import (
	"context"
	"testing"

	"github.com/skysift/apodex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) (storage.BlobStore, storage.VectorIndex) {
	t.Helper()
	blobs, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return blobs, vectors
}

func TestBlobStore_PutGetRoundTrip(t *testing.T) {
	blobs, _ := newTestStores(t)
	ctx := context.Background()

	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	require.NoError(t, blobs.Put(ctx, "images/2024-01-01.jpg", data, "image/jpeg"))

	got, contentType, err := blobs.Get(ctx, "images/2024-01-01.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestBlobStore_GetMissing(t *testing.T) {
	blobs, _ := newTestStores(t)

	_, _, err := blobs.Get(context.Background(), "images/nope.jpg")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBlobStore_Head(t *testing.T) {
	blobs, _ := newTestStores(t)
	ctx := context.Background()

	exists, err := blobs.Head(ctx, "images/2024-01-01.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, blobs.Put(ctx, "images/2024-01-01.jpg", []byte{1}, "image/png"))

	exists, err = blobs.Head(ctx, "images/2024-01-01.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBlobStore_PutIsIdempotent(t *testing.T) {
	blobs, _ := newTestStores(t)
	ctx := context.Background()

	data := []byte("same image bytes")
	require.NoError(t, blobs.Put(ctx, "k", data, "image/jpeg"))
	require.NoError(t, blobs.Put(ctx, "k", data, "image/jpeg"))

	got, _, err := blobs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBlobStore_PutReplaces(t *testing.T) {
	blobs, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, "k", []byte("old"), "image/jpeg"))
	require.NoError(t, blobs.Put(ctx, "k", []byte("new"), "image/png"))

	got, contentType, err := blobs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, "image/png", contentType)
}

func TestBlobStore_Delete(t *testing.T) {
	blobs, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, "k", []byte{1}, "image/jpeg"))
	require.NoError(t, blobs.Delete(ctx, "k"))

	exists, err := blobs.Head(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error.
	assert.NoError(t, blobs.Delete(ctx, "k"))
}
