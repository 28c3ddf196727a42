package services

import (
	"context"
	"fmt"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
	"github.com/documentor-dev/documentor/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the ingested corpus.
type DocumentService struct {
	uow driven.UnitOfWork
}

// NewDocumentService creates a document management service.
func NewDocumentService(uow driven.UnitOfWork) *DocumentService {
	return &DocumentService{uow: uow}
}

// List returns documents ordered by creation time.
func (s *DocumentService) List(ctx context.Context, offset, limit int) ([]*domain.Document, error) {
	var docs []*domain.Document
	err := s.uow.Do(ctx, func(ctx context.Context, repos driven.Repositories) error {
		var err error
		docs, err = repos.Documents.ListAll(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get returns one document by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	var doc *domain.Document
	err := s.uow.Do(ctx, func(ctx context.Context, repos driven.Repositories) error {
		var err error
		doc, err = repos.Documents.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document and its chunks in one transaction,
// chunks first.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	return s.uow.Do(ctx, func(ctx context.Context, repos driven.Repositories) error {
		if _, err := repos.Documents.FindByID(ctx, id); err != nil {
			return err
		}
		if err := repos.Chunks.DeleteByDocumentID(ctx, id); err != nil {
			return fmt.Errorf("delete chunks of %s: %w", id, err)
		}
		if err := repos.Documents.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		logger.Info("Deleted document %s", id)
		return nil
	})
}
