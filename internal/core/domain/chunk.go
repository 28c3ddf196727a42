package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Chunk is a bounded, position-ordered segment of a document's text,
// embedded independently for retrieval. Positions are 0-based and
// contiguous within a document.
type Chunk struct {
	// ID is the unique, time-ordered identifier (UUIDv7).
	ID string

	// DocumentID references the owning document.
	DocumentID string

	// Text is the chunk content. Never blank.
	Text string

	// TokenCount is the number of tokens in Text as counted by the
	// embedding model's tokenizer. Always positive.
	TokenCount int

	// Position is the 0-based order within the owning document.
	Position int

	// embedding is unset until attached after batch embedding.
	embedding Embedding
}

// NewChunk creates a chunk without an embedding. The text must be
// non-blank and the token count positive.
func NewChunk(documentID, text string, tokenCount, position int) (*Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrInvalidChunk)
	}
	if tokenCount <= 0 {
		return nil, fmt.Errorf("%w: token count must be greater than 0", ErrInvalidChunk)
	}
	if position < 0 {
		return nil, fmt.Errorf("%w: position cannot be negative", ErrInvalidChunk)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate chunk id: %w", err)
	}

	return &Chunk{
		ID:         id.String(),
		DocumentID: documentID,
		Text:       text,
		TokenCount: tokenCount,
		Position:   position,
	}, nil
}

// RestoreChunk rebuilds a chunk from persisted state, including an
// already-attached embedding. Intended for repository implementations.
func RestoreChunk(id, documentID, text string, tokenCount, position int, embedding Embedding) *Chunk {
	return &Chunk{
		ID:         id,
		DocumentID: documentID,
		Text:       text,
		TokenCount: tokenCount,
		Position:   position,
		embedding:  embedding,
	}
}

// SetEmbedding attaches the embedding. A chunk's embedding transitions
// exactly once from unset to set.
func (c *Chunk) SetEmbedding(e Embedding) error {
	if !c.embedding.IsZero() {
		return fmt.Errorf("%w: embedding already set", ErrInvalidChunk)
	}
	if e.IsZero() {
		return fmt.Errorf("%w: cannot attach empty embedding", ErrInvalidChunk)
	}
	c.embedding = e
	return nil
}

// Embedding returns the attached embedding; the zero value if unset.
func (c *Chunk) Embedding() Embedding {
	return c.embedding
}

// HasEmbedding reports whether an embedding has been attached.
func (c *Chunk) HasEmbedding() bool {
	return !c.embedding.IsZero()
}
