package api

import (
	"fmt"
	"time"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
)

type ingestDocumentRequest struct {
	Source      string `json:"source" binding:"required"`
	Title       string `json:"title"`
	OnDuplicate string `json:"on_duplicate"`
}

type ingestTextRequest struct {
	Content     string `json:"content" binding:"required"`
	Title       string `json:"title"`
	OnDuplicate string `json:"on_duplicate"`
}

type conversationMessageRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type askQuestionRequest struct {
	Question string                       `json:"question" binding:"required"`
	History  []conversationMessageRequest `json:"history"`
}

type documentResponse struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
	ChunkCount int       `json:"chunk_count"`
}

type ingestDocumentResponse struct {
	Document      documentResponse `json:"document"`
	ChunksCreated int              `json:"chunks_created"`
}

type sourceReferenceResponse struct {
	DocumentTitle  string  `json:"document_title"`
	ChunkText      string  `json:"chunk_text"`
	RelevanceScore float64 `json:"relevance_score"`
	ChunkID        string  `json:"chunk_id"`
}

type answerResponse struct {
	Text    string                    `json:"text"`
	Sources []sourceReferenceResponse `json:"sources"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		ID:         doc.ID,
		Source:     doc.Source,
		Title:      doc.Title,
		SourceType: string(doc.SourceType),
		CreatedAt:  doc.CreatedAt,
		ChunkCount: doc.ChunkCount,
	}
}

func toIngestResponse(result *driving.IngestResult) ingestDocumentResponse {
	return ingestDocumentResponse{
		Document:      toDocumentResponse(result.Document),
		ChunksCreated: result.ChunksCreated,
	}
}

func toSourceResponses(sources []domain.SourceReference) []sourceReferenceResponse {
	out := make([]sourceReferenceResponse, len(sources))
	for i, src := range sources {
		out[i] = sourceReferenceResponse{
			DocumentTitle:  src.DocumentTitle,
			ChunkText:      src.ChunkText,
			RelevanceScore: src.RelevanceScore,
			ChunkID:        src.ChunkID,
		}
	}
	return out
}

func toAnswerResponse(answer domain.Answer) answerResponse {
	return answerResponse{
		Text:    answer.Text,
		Sources: toSourceResponses(answer.Sources),
	}
}

func toHistory(messages []conversationMessageRequest) ([]domain.ConversationMessage, error) {
	history := make([]domain.ConversationMessage, len(messages))
	for i, msg := range messages {
		m, err := domain.NewConversationMessage(domain.MessageRole(msg.Role), msg.Content)
		if err != nil {
			return nil, fmt.Errorf("history message %d: %w", i, err)
		}
		history[i] = m
	}
	return history, nil
}
