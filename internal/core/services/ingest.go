package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
	"github.com/documentor-dev/documentor/internal/logger"
	"github.com/documentor-dev/documentor/internal/splitter"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService runs the ingestion pipeline:
// load -> split -> embed -> persist, atomically per source.
type IngestionService struct {
	loader   driven.DocumentLoader
	embedder driven.EmbeddingService
	uow      driven.UnitOfWork
	split    *splitter.Splitter
}

// NewIngestionService creates an ingestion service. A nil split uses the
// default chunk size and overlap.
func NewIngestionService(
	loader driven.DocumentLoader,
	embedder driven.EmbeddingService,
	uow driven.UnitOfWork,
	split *splitter.Splitter,
) *IngestionService {
	if split == nil {
		split = splitter.New()
	}
	return &IngestionService{
		loader:   loader,
		embedder: embedder,
		uow:      uow,
		split:    split,
	}
}

// Ingest loads, splits, embeds, and persists one source. The whole
// pipeline, including the duplicate check and any replace deletion, runs
// inside a single transaction: a failure at any step leaves no partial
// document or chunk behind.
func (s *IngestionService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("Source: %q, policy: %s", req.Source, req.OnDuplicate)

	if strings.TrimSpace(req.Source) == "" {
		return nil, fmt.Errorf("%w: source cannot be empty", domain.ErrInvalidDocument)
	}

	var result *driving.IngestResult
	err := s.uow.Do(ctx, func(ctx context.Context, repos driven.Repositories) error {
		existing, err := repos.Documents.FindBySource(ctx, req.Source)
		if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			return fmt.Errorf("find by source: %w", err)
		}

		if existing != nil {
			switch req.OnDuplicate {
			case domain.DuplicateReject:
				return fmt.Errorf("%w: source %q", domain.ErrDuplicateDocument, req.Source)

			case domain.DuplicateSkip:
				// The loader must not be invoked at all on skip.
				logger.Info("Duplicate skipped: %s", existing.ID)
				result = &driving.IngestResult{Document: existing, ChunksCreated: 0}
				return nil

			case domain.DuplicateReplace:
				logger.Info("Replacing document %s", existing.ID)
				if err := repos.Chunks.DeleteByDocumentID(ctx, existing.ID); err != nil {
					return fmt.Errorf("delete chunks of %s: %w", existing.ID, err)
				}
				if err := repos.Documents.Delete(ctx, existing.ID); err != nil {
					return fmt.Errorf("delete document %s: %w", existing.ID, err)
				}
			}
		}

		result, err = s.ingestFresh(ctx, repos, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ingested %s: %d chunks", result.Document.ID, result.ChunksCreated)
	return result, nil
}

// ingestFresh runs steps load through persist for a source with no
// surviving prior document.
func (s *IngestionService) ingestFresh(
	ctx context.Context, repos driven.Repositories, req driving.IngestRequest,
) (*driving.IngestResult, error) {
	loaded, err := s.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(loaded.Content) == "" {
		return nil, fmt.Errorf("%w: no extractable content in %q", domain.ErrInvalidDocument, req.Source)
	}

	title := loaded.Title
	if strings.TrimSpace(req.Title) != "" {
		title = req.Title
	}

	texts := s.split.Split(loaded.Content)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no extractable content in %q", domain.ErrInvalidDocument, req.Source)
	}
	logger.Debug("Split into %d chunks", len(texts))

	doc, err := domain.NewDocument(req.Source, title, loaded.SourceType, len(texts))
	if err != nil {
		return nil, err
	}

	chunks := make([]*domain.Chunk, len(texts))
	for i, text := range texts {
		tokens, err := s.embedder.CountTokens(text)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		chunk, err := domain.NewChunk(doc.ID, text, tokens, i)
		if err != nil {
			return nil, err
		}
		chunks[i] = chunk
	}

	// One batch call for the whole document; the port restores input order.
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf(
			"%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingGeneration, len(embeddings), len(chunks),
		)
	}
	for i, chunk := range chunks {
		if err := chunk.SetEmbedding(embeddings[i]); err != nil {
			return nil, err
		}
	}

	// Document before chunks; the chunks reference the document.
	if err := repos.Documents.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := repos.Chunks.SaveAll(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	return &driving.IngestResult{Document: doc, ChunksCreated: len(chunks)}, nil
}
