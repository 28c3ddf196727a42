package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies where a document came from.
type SourceType string

// Known source types.
const (
	SourceTypeURL  SourceType = "url"
	SourceTypeFile SourceType = "file"
	SourceTypeText SourceType = "text"
)

// Valid reports whether the source type is one of the known values.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeURL, SourceTypeFile, SourceTypeText:
		return true
	}
	return false
}

// Document represents one ingested piece of documentation.
// A document owns its chunks exclusively: deleting a document
// deletes its chunks with it.
type Document struct {
	// ID is the unique, time-ordered identifier (UUIDv7).
	ID string

	// Source is the unique business key: a URL, file path, or content hash.
	Source string

	// Title is the human-readable title.
	Title string

	// SourceType records how the document was ingested.
	SourceType SourceType

	// CreatedAt is the UTC instant the document was created.
	CreatedAt time.Time

	// ChunkCount is the number of chunks persisted for this document.
	// It is set at creation/replacement time only.
	ChunkCount int
}

// NewDocument creates a document with a fresh UUIDv7 id and the current
// UTC timestamp. The source and title must be non-blank and the source
// type must be known.
func NewDocument(source, title string, sourceType SourceType, chunkCount int) (*Document, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source cannot be empty", ErrInvalidDocument)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidDocument)
	}
	if !sourceType.Valid() {
		return nil, fmt.Errorf("%w: unknown source type %q", ErrInvalidDocument, sourceType)
	}
	if chunkCount < 0 {
		return nil, fmt.Errorf("%w: chunk count cannot be negative", ErrInvalidDocument)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate document id: %w", err)
	}

	return &Document{
		ID:         id.String(),
		Source:     source,
		Title:      title,
		SourceType: sourceType,
		CreatedAt:  time.Now().UTC(),
		ChunkCount: chunkCount,
	}, nil
}
