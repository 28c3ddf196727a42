package driven

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// DocumentRepository persists documents. Implementations enforce the
// unique source constraint.
type DocumentRepository interface {
	// Save stores a new document.
	Save(ctx context.Context, doc *domain.Document) error

	// FindByID returns the document, or domain.ErrDocumentNotFound.
	FindByID(ctx context.Context, id string) (*domain.Document, error)

	// FindByIDs resolves many documents in one round trip. Missing ids
	// are simply absent from the result map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Document, error)

	// FindBySource returns the document with the given unique source,
	// or domain.ErrDocumentNotFound.
	FindBySource(ctx context.Context, source string) (*domain.Document, error)

	// Delete removes a document by id. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, id string) error

	// ListAll returns documents ordered by creation time. A limit <= 0
	// means no limit.
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Document, error)
}

// ScoredChunk pairs a retrieved chunk with its relevance score
// (1 - cosine distance, in [0, 1]).
type ScoredChunk struct {
	Chunk *domain.Chunk
	Score float64
}

// ChunkRepository persists chunks and serves similarity search.
type ChunkRepository interface {
	// SaveAll stores the chunks of a document. The owning document must
	// already be saved within the same transaction.
	SaveAll(ctx context.Context, chunks []*domain.Chunk) error

	// SearchSimilar returns up to topK embedded chunks nearest to the
	// query embedding by cosine similarity, most similar first. The
	// index's own ordering is authoritative; ties are not re-sorted.
	SearchSimilar(ctx context.Context, embedding domain.Embedding, topK int) ([]ScoredChunk, error)

	// DeleteByDocumentID removes all chunks owned by a document.
	DeleteByDocumentID(ctx context.Context, documentID string) error
}
