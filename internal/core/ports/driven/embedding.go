package driven

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - local models via inference servers
//
// Failures are reported as domain.ErrEmbeddingGeneration.
type EmbeddingService interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// EmbedBatch generates embeddings for multiple texts. The result has
	// exactly one embedding per input, in input order, regardless of any
	// reordering or sub-batching the upstream provider performs.
	EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error)

	// CountTokens counts text tokens using the embedding model's tokenizer.
	CountTokens(text string) (int, error)

	// Dimensions returns the embedding vector size (e.g. 1536, 3072).
	Dimensions() int
}
