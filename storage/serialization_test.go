package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorEntryRoundTrip(t *testing.T) {
	entry := &VectorEntry{
		ID:       "2024-01-01",
		Values:   []float32{0.25, -0.5, 1.0},
		Category: "Galaxy",
		Title:    "Spiral Galaxy NGC 4414",
		Relevant: true,
	}

	data := MarshalVectorEntry(entry)
	decoded, err := UnmarshalVectorEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestVectorEntryRoundTrip_EmptyVector(t *testing.T) {
	entry := &VectorEntry{ID: "2024-01-02"}

	decoded, err := UnmarshalVectorEntry(MarshalVectorEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Empty(t, decoded.Values)
	assert.False(t, decoded.Relevant)
}

func TestBlobEntryRoundTrip(t *testing.T) {
	entry := &BlobEntry{
		ContentType: "image/jpeg",
		Checksum:    "abc123",
		Data:        []byte{0xff, 0xd8, 0xff, 0xe0},
	}

	decoded, err := UnmarshalBlobEntry(MarshalBlobEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestUnmarshalVectorEntry_Truncated(t *testing.T) {
	entry := &VectorEntry{ID: "2024-01-01", Values: []float32{1, 2, 3}}
	data := MarshalVectorEntry(entry)

	_, err := UnmarshalVectorEntry(data[:len(data)/2])
	assert.Error(t, err)
}
