package cli

import (
	"context"
	"fmt"

	"github.com/documentor-dev/documentor/internal/adapters/driven/ai"
	"github.com/documentor-dev/documentor/internal/adapters/driven/loader"
	"github.com/documentor-dev/documentor/internal/adapters/driven/storage"
	"github.com/documentor-dev/documentor/internal/config"
	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
	"github.com/documentor-dev/documentor/internal/core/services"
	"github.com/documentor-dev/documentor/internal/logger"
	"github.com/documentor-dev/documentor/internal/splitter"
)

// app is the composition root shared by the CLI commands and the server.
type app struct {
	cfg config.Config

	uow      driven.UnitOfWork
	embedder driven.EmbeddingService
	split    *splitter.Splitter

	ingestion driving.IngestionService
	questions driving.QuestionService
	documents driving.DocumentService

	cleanup func()
}

// newApp loads configuration and wires every adapter and service.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded: backend=%s embedding=%s llm=%s",
		cfg.Storage.Backend, cfg.Embedding.Provider, cfg.LLM.Provider)

	embedder, err := ai.NewEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	llm, err := ai.NewLLMService(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	uow, cleanup, err := storage.New(ctx, cfg.Storage, embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	split := splitter.New(
		splitter.WithChunkSize(cfg.Ingest.ChunkSize),
		splitter.WithOverlap(cfg.Ingest.Overlap),
	)

	a := &app{
		cfg:      cfg,
		uow:      uow,
		embedder: embedder,
		split:    split,
		ingestion: services.NewIngestionService(
			loader.NewRegistry(), embedder, uow, split,
		),
		questions: services.NewQuestionService(
			embedder, llm, uow,
			services.WithTopK(cfg.Ask.TopK),
			services.WithMinScore(cfg.Ask.MinScore),
		),
		documents: services.NewDocumentService(uow),
		cleanup:   cleanup,
	}
	return a, nil
}

// ingestText runs a one-shot ingestion over pasted text content.
func (a *app) ingestText(
	ctx context.Context, content, title string, onDuplicate domain.DuplicatePolicy,
) (*driving.IngestResult, error) {
	svc := services.NewIngestionService(
		loader.NewTextLoader(content, title), a.embedder, a.uow, a.split,
	)
	return svc.Ingest(ctx, driving.IngestRequest{
		Source:      loader.TextSource(content),
		Title:       title,
		OnDuplicate: onDuplicate,
	})
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}
