package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentor-dev/documentor/internal/adapters/driven/storage/memory"
	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
	"github.com/documentor-dev/documentor/internal/splitter"
)

func repeatedWords(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestIngest_SingleChunkDocument(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: repeatedWords(100), title: "Docs"}
	embedder := &mockEmbedder{}
	svc := NewIngestionService(loader, embedder, store, nil)

	result, err := svc.Ingest(context.Background(), driving.IngestRequest{
		Source: "https://x/docs",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunksCreated)
	assert.Equal(t, 1, result.Document.ChunkCount)
	assert.Equal(t, "https://x/docs", result.Document.Source)
	assert.Equal(t, "Docs", result.Document.Title)
	assert.Equal(t, 1, store.DocumentCount())
	assert.Equal(t, 1, store.ChunkCount())

	// One batch embedding call carrying every chunk text in order.
	require.Len(t, embedder.batchCalls, 1)
	assert.Len(t, embedder.batchCalls[0], 1)
}

func TestIngest_MultipleOverlappingChunks(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: repeatedWords(1200), title: "Long"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)

	result, err := svc.Ingest(context.Background(), driving.IngestRequest{Source: "src"})
	require.NoError(t, err)

	// 1200 words, window 500, step 450: starts at 0, 450, 900.
	assert.Equal(t, 3, result.ChunksCreated)
	assert.Equal(t, 3, result.Document.ChunkCount)
	assert.Equal(t, 3, store.ChunkCount())
}

func TestIngest_TitleOverride(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: "some words here", title: "Loader Title"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)

	result, err := svc.Ingest(context.Background(), driving.IngestRequest{
		Source: "src",
		Title:  "Override",
	})
	require.NoError(t, err)
	assert.Equal(t, "Override", result.Document.Title)
}

func TestIngest_EmptyContentFails(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: "   \n\t ", title: "Empty"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)

	_, err := svc.Ingest(context.Background(), driving.IngestRequest{Source: "src"})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	assert.Equal(t, 0, store.DocumentCount())
}

func TestIngest_DuplicateReject(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: "some words", title: "Docs"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Source: "src"})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, driving.IngestRequest{
		Source:      "src",
		OnDuplicate: domain.DuplicateReject,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)

	// The store still holds exactly the first ingestion's result.
	assert.Equal(t, 1, store.DocumentCount())
	docs, err := NewDocumentService(store).List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, first.Document.ID, docs[0].ID)
}

func TestIngest_DuplicateSkip(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: "some words", title: "Docs"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Source: "src"})
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)

	result, err := svc.Ingest(ctx, driving.IngestRequest{
		Source:      "src",
		OnDuplicate: domain.DuplicateSkip,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Document.ID, result.Document.ID)
	assert.Equal(t, 0, result.ChunksCreated)
	// Loading is skipped entirely, not merely discarded.
	assert.Equal(t, 1, loader.calls)
}

func TestIngest_DuplicateReplace(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: repeatedWords(2000), title: "Big"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Source: "src"})
	require.NoError(t, err)
	require.Equal(t, 5, first.ChunksCreated)

	loader.content = repeatedWords(100)
	result, err := svc.Ingest(ctx, driving.IngestRequest{
		Source:      "src",
		OnDuplicate: domain.DuplicateReplace,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Document.ID, result.Document.ID)
	assert.Equal(t, 1, result.Document.ChunkCount)
	assert.Equal(t, 1, store.DocumentCount())
	assert.Equal(t, 1, store.ChunkCount(), "old chunks are gone")
}

func TestIngest_ReplaceFailureRollsBack(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: "some words", title: "Docs"}
	embedder := &mockEmbedder{}
	svc := NewIngestionService(loader, embedder, store, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestRequest{Source: "src"})
	require.NoError(t, err)

	embedder.batchErr = domain.ErrEmbeddingGeneration
	_, err = svc.Ingest(ctx, driving.IngestRequest{
		Source:      "src",
		OnDuplicate: domain.DuplicateReplace,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingGeneration)

	// The replace ran inside one transaction, so the original survives.
	docs, err := NewDocumentService(store).List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, first.Document.ID, docs[0].ID)
	assert.Equal(t, 1, store.ChunkCount())
}

func TestIngest_LoaderErrorLeavesNoState(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{loadErr: domain.ErrDocumentLoad}
	svc := NewIngestionService(loader, &mockEmbedder{}, store, nil)

	_, err := svc.Ingest(context.Background(), driving.IngestRequest{Source: "src"})
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
	assert.Equal(t, 0, store.DocumentCount())
	assert.Equal(t, 0, store.ChunkCount())
}

func TestIngest_ChunkPositionsAndTokenCounts(t *testing.T) {
	store := memory.NewStore()
	loader := &mockLoader{content: repeatedWords(950), title: "Doc"}
	svc := NewIngestionService(loader, &mockEmbedder{}, store,
		splitter.New(splitter.WithChunkSize(500), splitter.WithOverlap(50)))

	result, err := svc.Ingest(context.Background(), driving.IngestRequest{Source: "src"})
	require.NoError(t, err)
	require.Equal(t, 3, result.ChunksCreated)
}
