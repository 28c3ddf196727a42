package driven

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// LLMService generates answers grounded on retrieved chunks.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Anthropic (messages)
//
// Failures, including empty provider responses, are reported as
// domain.ErrLLMGeneration.
type LLMService interface {
	// Generate produces an answer to the question using the given chunks
	// as context and the conversation history for framing.
	Generate(
		ctx context.Context,
		question domain.Question,
		chunks []*domain.Chunk,
		history []domain.ConversationMessage,
	) (string, error)

	// GenerateStream is the streaming variant of Generate. The returned
	// stream is lazy, finite, and non-restartable; the caller must Close
	// it to release the underlying provider connection, including on
	// early exit.
	GenerateStream(
		ctx context.Context,
		question domain.Question,
		chunks []*domain.Chunk,
		history []domain.ConversationMessage,
	) (CompletionStream, error)

	// RewriteQuery turns a follow-up question plus conversation history
	// into a standalone retrieval query.
	RewriteQuery(
		ctx context.Context,
		question domain.Question,
		history []domain.ConversationMessage,
	) (string, error)
}

// CompletionStream yields generated text fragments in arrival order.
type CompletionStream interface {
	// Recv returns the next fragment, or io.EOF when the stream is done.
	Recv() (string, error)

	// Close releases the underlying provider stream. Safe to call more
	// than once.
	Close() error
}
