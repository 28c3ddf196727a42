// Package ai builds the configured embedding and LLM provider adapters.
package ai

import (
	"fmt"

	embeddingopenai "github.com/documentor-dev/documentor/internal/adapters/driven/embedding/openai"
	"github.com/documentor-dev/documentor/internal/adapters/driven/llm/anthropic"
	llmopenai "github.com/documentor-dev/documentor/internal/adapters/driven/llm/openai"
	"github.com/documentor-dev/documentor/internal/config"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

// NewEmbeddingService builds the embedding adapter for the configured
// provider.
func NewEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// NewLLMService builds the LLM adapter for the configured provider.
func NewLLMService(cfg config.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			RewriteModel: cfg.RewriteModel,
		})
	case config.ProviderAnthropic:
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
