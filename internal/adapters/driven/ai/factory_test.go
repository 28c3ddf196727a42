package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentor-dev/documentor/internal/config"
)

func TestNewEmbeddingService(t *testing.T) {
	svc, err := NewEmbeddingService(config.EmbeddingConfig{
		Provider: config.ProviderOpenAI,
		APIKey:   "key",
	})
	require.NoError(t, err)
	assert.NotNil(t, svc)

	_, err = NewEmbeddingService(config.EmbeddingConfig{Provider: "cohere", APIKey: "key"})
	assert.Error(t, err)

	_, err = NewEmbeddingService(config.EmbeddingConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err, "missing API key")
}

func TestNewLLMService(t *testing.T) {
	openai, err := NewLLMService(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, openai)

	anthropic, err := NewLLMService(config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, anthropic)

	_, err = NewLLMService(config.LLMConfig{Provider: "llama", APIKey: "key"})
	assert.Error(t, err)
}
