package driving

import (
	"context"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

// IngestRequest describes one ingestion invocation.
type IngestRequest struct {
	// Source is the URL, file path, or content hash to ingest.
	Source string

	// Title overrides the loader's extracted title when non-empty.
	Title string

	// OnDuplicate decides what happens when Source was ingested before.
	OnDuplicate domain.DuplicatePolicy
}

// IngestResult reports what an ingestion produced.
type IngestResult struct {
	// Document is the persisted (or, for skip, the pre-existing) document.
	Document *domain.Document

	// ChunksCreated is the number of chunks written. Zero when the
	// duplicate policy skipped the ingestion.
	ChunksCreated int
}

// IngestionService ingests documentation sources into the corpus.
type IngestionService interface {
	// Ingest loads, splits, embeds, and persists one source atomically.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}
