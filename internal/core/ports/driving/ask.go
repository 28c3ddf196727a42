package driving

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// AskRequest carries a question and optional conversation history,
// oldest message first.
type AskRequest struct {
	Question string
	History  []domain.ConversationMessage
}

// QuestionService answers natural-language questions over the corpus.
type QuestionService interface {
	// Ask runs the full RAG pipeline and returns a complete answer.
	Ask(ctx context.Context, req AskRequest) (domain.Answer, error)

	// AskStream runs the same pipeline but streams the answer as it is
	// generated. The returned channel yields zero or more text events,
	// one sources event, then one done event, and is closed afterwards;
	// a failed stream ends with a single error event instead. Cancelling
	// ctx stops generation promptly.
	AskStream(ctx context.Context, req AskRequest) (<-chan domain.AnswerEvent, error)
}
