package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.CaptionModel)
	assert.Equal(t, "none", cfg.Token)
}

func TestNewConfig_AppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://gpu-box:8000"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithCaptionModel("gpt-4o-mini"),
		WithToken("sk-test"),
	)

	assert.Equal(t, "http://gpu-box:8000", cfg.EmbeddingHost)
	assert.Equal(t, "http://gpu-box:8000", cfg.ChatHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.CaptionModel)
	assert.Equal(t, "sk-test", cfg.Token)
}

func TestNewConfig_SeparateHosts(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed:11434"),
		WithChatHost("http://vision:11434"),
	)
	assert.Equal(t, "http://embed:11434", cfg.EmbeddingHost)
	assert.Equal(t, "http://vision:11434", cfg.ChatHost)
}

func TestNormalize_AddsV1Suffix(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)

	// Trailing slash is stripped before the suffix is added.
	cfg = NewConfig(WithHost("http://localhost:11434/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestNormalize_KeepsExistingV1(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434/v1"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EmbeddingModel = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.CaptionModel = ""
	require.Error(t, cfg.Validate())

	require.NoError(t, DefaultConfig().Validate())
}
