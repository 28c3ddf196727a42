package domain

import (
	"fmt"
	"strings"
)

// NoResultsText is the fixed answer returned when no chunk passes the
// relevance filter. The generation provider is never invoked for it.
const NoResultsText = "No relevant documentation found for your question."

// SourceReference points at the chunk an answer was grounded on.
// Built only from results that passed relevance filtering.
type SourceReference struct {
	// DocumentTitle is the owning document's title, or its id when the
	// title could not be resolved.
	DocumentTitle string

	// ChunkText is the referenced chunk's content.
	ChunkText string

	// RelevanceScore is the similarity score in [0.0, 1.0].
	RelevanceScore float64

	// ChunkID identifies the referenced chunk.
	ChunkID string
}

// NewSourceReference validates the relevance score range.
func NewSourceReference(documentTitle, chunkText string, relevanceScore float64, chunkID string) (SourceReference, error) {
	if relevanceScore < 0.0 || relevanceScore > 1.0 {
		return SourceReference{}, fmt.Errorf(
			"%w: relevance score must be between 0.0 and 1.0, got %v",
			ErrInvalidAnswer, relevanceScore,
		)
	}
	return SourceReference{
		DocumentTitle:  documentTitle,
		ChunkText:      chunkText,
		RelevanceScore: relevanceScore,
		ChunkID:        chunkID,
	}, nil
}

// Answer is generated text plus the ordered sources it was grounded on.
type Answer struct {
	// Text is the answer body. Never blank.
	Text string

	// Sources are ordered by descending retrieval rank.
	Sources []SourceReference
}

// NewAnswer validates that the answer text is non-blank.
func NewAnswer(text string, sources []SourceReference) (Answer, error) {
	if strings.TrimSpace(text) == "" {
		return Answer{}, fmt.Errorf("%w: text cannot be empty", ErrInvalidAnswer)
	}
	return Answer{Text: text, Sources: sources}, nil
}

// NoResultsAnswer is the canned answer for an empty retrieval result.
func NoResultsAnswer() Answer {
	return Answer{Text: NoResultsText}
}

// HasSources reports whether the answer carries any source references.
func (a Answer) HasSources() bool {
	return len(a.Sources) > 0
}
