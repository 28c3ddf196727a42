// Package postgres provides a pgvector-backed store with transactional
// repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.UnitOfWork = (*Store)(nil)

// DefaultDimensions matches the default embedding model's vector size.
const DefaultDimensions = 1536

const uniqueViolationCode = "23505"

// Config holds Postgres connection settings.
type Config struct {
	// DSN is the connection string (required).
	DSN string

	// Dimensions fixes the vector column size (default: 1536). It must
	// match the embedding provider's output.
	Dimensions int
}

// Store owns the connection pool and hands out transactional repositories.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// New connects to Postgres and ensures the schema exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: DSN is required")
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	store := &Store{pool: pool, dimensions: cfg.Dimensions}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id          TEXT PRIMARY KEY,
			source      TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			source_type TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			chunk_count INTEGER NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id          TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			text        TEXT NOT NULL,
			token_count INTEGER NOT NULL,
			"position"  INTEGER NOT NULL,
			embedding   vector(%d)
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS chunks_document_id_idx ON chunks (document_id)`,
		`CREATE INDEX IF NOT EXISTS chunks_embedding_idx ON chunks
			USING hnsw (embedding vector_cosine_ops)
			WITH (m = 16, ef_construction = 64)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

// Do runs fn inside one transaction, committing on nil and rolling back
// on error or panic.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos driven.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("postgres: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	repos := driven.Repositories{
		Documents: &documentRepository{tx: tx},
		Chunks:    &chunkRepository{tx: tx},
	}
	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

type documentRepository struct {
	tx pgx.Tx
}

func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO documents (id, source, title, source_type, created_at, chunk_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.ID, doc.Source, doc.Title, string(doc.SourceType), doc.CreatedAt, doc.ChunkCount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: source %q", domain.ErrDuplicateDocument, doc.Source)
		}
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	return r.findOne(ctx,
		`SELECT id, source, title, source_type, created_at, chunk_count
		 FROM documents WHERE id = $1`, id)
}

func (r *documentRepository) FindBySource(ctx context.Context, source string) (*domain.Document, error) {
	return r.findOne(ctx,
		`SELECT id, source, title, source_type, created_at, chunk_count
		 FROM documents WHERE source = $1`, source)
}

func (r *documentRepository) findOne(ctx context.Context, query string, arg any) (*domain.Document, error) {
	row := r.tx.QueryRow(ctx, query, arg)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (r *documentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	if len(ids) == 0 {
		return map[string]*domain.Document{}, nil
	}

	rows, err := r.tx.Query(ctx,
		`SELECT id, source, title, source_type, created_at, chunk_count
		 FROM documents WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*domain.Document, len(ids))
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		result[doc.ID] = doc
	}
	return result, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (r *documentRepository) ListAll(ctx context.Context, offset, limit int) ([]*domain.Document, error) {
	query := `SELECT id, source, title, source_type, created_at, chunk_count
		FROM documents ORDER BY created_at, id OFFSET $1`
	args := []any{offset}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var sourceType string
	if err := row.Scan(
		&doc.ID, &doc.Source, &doc.Title, &sourceType, &doc.CreatedAt, &doc.ChunkCount,
	); err != nil {
		return nil, err
	}
	doc.SourceType = domain.SourceType(sourceType)
	return &doc, nil
}

type chunkRepository struct {
	tx pgx.Tx
}

func (r *chunkRepository) SaveAll(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		var embedding any
		if chunk.HasEmbedding() {
			embedding = pgvector.NewVector(chunk.Embedding().Vector())
		}
		batch.Queue(
			`INSERT INTO chunks (id, document_id, text, token_count, "position", embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			chunk.ID, chunk.DocumentID, chunk.Text, chunk.TokenCount, chunk.Position, embedding,
		)
	}

	results := r.tx.SendBatch(ctx, batch)
	defer results.Close()
	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save chunks: %w", err)
		}
	}
	return nil
}

func (r *chunkRepository) SearchSimilar(
	ctx context.Context, embedding domain.Embedding, topK int,
) ([]driven.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	query := pgvector.NewVector(embedding.Vector())

	rows, err := r.tx.Query(ctx,
		`SELECT id, document_id, text, token_count, "position", embedding,
			1 - (embedding <=> $1) AS score
		 FROM chunks
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		query, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var results []driven.ScoredChunk
	for rows.Next() {
		var (
			id, documentID, text string
			tokenCount, position int
			vec                  pgvector.Vector
			score                float64
		)
		if err := rows.Scan(&id, &documentID, &text, &tokenCount, &position, &vec, &score); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunk := domain.RestoreChunk(
			id, documentID, text, tokenCount, position,
			domain.EmbeddingFromVector(vec.Slice()),
		)
		results = append(results, driven.ScoredChunk{Chunk: chunk, Score: clampScore(score)})
	}
	return results, rows.Err()
}

func (r *chunkRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// clampScore keeps float drift from pushing cosine scores outside [0, 1].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
