// Package prompt builds the system and user prompts shared by the LLM
// provider adapters.
package prompt

import (
	"fmt"
	"strings"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// History limits for query rewriting. Older turns add little retrieval
// signal and inflate the prompt.
const (
	MaxRewriteHistoryMessages = 10
	MaxRewriteHistoryChars    = 4000
)

// BuildRAGSystem builds the answer-generation system prompt. Each chunk is
// labelled so the model can cite sources by number.
func BuildRAGSystem(chunks []*domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		parts = append(parts, fmt.Sprintf(
			"[Source %d | chunk_id=%s | document_id=%s]\n%s",
			i+1, chunk.ID, chunk.DocumentID, chunk.Text,
		))
	}
	context := strings.Join(parts, "\n\n")
	return "You are a helpful assistant that answers questions based on the provided " +
		"documentation context. Use ONLY the information from the sources below to " +
		"answer. If the answer cannot be found in the sources, say so clearly.\n\n" +
		"--- CONTEXT ---\n" + context + "\n--- END CONTEXT ---"
}

// BuildQueryRewriteSystem builds the system prompt for rewriting a
// follow-up question into a standalone retrieval query.
func BuildQueryRewriteSystem() string {
	return "You rewrite a follow-up question into a standalone search query. " +
		"Given a conversation and the latest question, rewrite the question so it " +
		"can be understood without the conversation. Resolve pronouns and implicit " +
		"references using the conversation. Reply with the rewritten query only, " +
		"no explanation."
}

// BuildRewriteUser builds the user message for query rewriting: the recent
// conversation turns followed by the question to rewrite. History is capped
// at MaxRewriteHistoryMessages turns and MaxRewriteHistoryChars characters,
// keeping the most recent content.
func BuildRewriteUser(question domain.Question, history []domain.ConversationMessage) string {
	if len(history) > MaxRewriteHistoryMessages {
		history = history[len(history)-MaxRewriteHistoryMessages:]
	}

	lines := make([]string, 0, len(history))
	total := 0
	for _, msg := range history {
		line := roleLabel(msg.Role) + ": " + msg.Content
		if total+len(line) > MaxRewriteHistoryChars {
			remaining := MaxRewriteHistoryChars - total
			if remaining > 0 {
				lines = append(lines, line[:remaining]+"...")
			}
			break
		}
		lines = append(lines, line)
		total += len(line)
	}

	var b strings.Builder
	b.WriteString("Conversation:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nQuestion to rewrite: ")
	b.WriteString(question.Text())
	return b.String()
}

func roleLabel(role domain.MessageRole) string {
	if role == domain.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
