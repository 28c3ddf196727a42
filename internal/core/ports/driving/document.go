package driving

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// DocumentService manages the ingested corpus.
type DocumentService interface {
	// List returns documents ordered by creation time.
	// A limit <= 0 means no limit.
	List(ctx context.Context, offset, limit int) ([]*domain.Document, error)

	// Get returns one document by id.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document and its chunks atomically.
	Delete(ctx context.Context, id string) error
}
