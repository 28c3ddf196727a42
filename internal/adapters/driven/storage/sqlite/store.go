// Package sqlite provides an embedded store backed by SQLite. Vectors are
// stored as little-endian float32 blobs and similarity search is an exact
// cosine scan in Go, which keeps the single-binary deployment free of
// native vector extensions.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/documentor-dev/documentor/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

var _ driven.UnitOfWork = (*Store)(nil)

// Store owns the database handle and hands out transactional repositories.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at the given path and applies
// pending migrations. Parent directories are created as needed.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "documentor.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode keeps readers from blocking the ingestion writer.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// Do runs fn inside one transaction, committing on nil and rolling back
// on error or panic.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos driven.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	repos := driven.Repositories{
		Documents: &documentRepository{tx: tx},
		Chunks:    &chunkRepository{tx: tx},
	}
	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type documentRepository struct {
	tx *sql.Tx
}

func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO documents (id, source, title, source_type, created_at, chunk_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Source, doc.Title, string(doc.SourceType),
		doc.CreatedAt.Format(time.RFC3339Nano), doc.ChunkCount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: source %q", domain.ErrDuplicateDocument, doc.Source)
		}
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.tx.QueryRowContext(ctx, `
		SELECT id, source, title, source_type, created_at, chunk_count
		FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

func (r *documentRepository) FindBySource(ctx context.Context, source string) (*domain.Document, error) {
	row := r.tx.QueryRowContext(ctx, `
		SELECT id, source, title, source_type, created_at, chunk_count
		FROM documents WHERE source = ?`, source)
	return scanDocument(row)
}

func (r *documentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	result := make(map[string]*domain.Document, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, source, title, source_type, created_at, chunk_count
		FROM documents WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("finding documents by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		result[doc.ID] = doc
	}
	return result, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

func (r *documentRepository) ListAll(ctx context.Context, offset, limit int) ([]*domain.Document, error) {
	// SQLite requires a LIMIT clause before OFFSET; -1 means unlimited.
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, source, title, source_type, created_at, chunk_count
		FROM documents ORDER BY created_at, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var sourceType, createdAt string
	err := row.Scan(&doc.ID, &doc.Source, &doc.Title, &sourceType, &createdAt, &doc.ChunkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return restoreDocument(&doc, sourceType, createdAt)
}

func scanDocumentRow(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var sourceType, createdAt string
	if err := rows.Scan(&doc.ID, &doc.Source, &doc.Title, &sourceType, &createdAt, &doc.ChunkCount); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return restoreDocument(&doc, sourceType, createdAt)
}

func restoreDocument(doc *domain.Document, sourceType, createdAt string) (*domain.Document, error) {
	doc.SourceType = domain.SourceType(sourceType)
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	doc.CreatedAt = ts
	return doc, nil
}

type chunkRepository struct {
	tx *sql.Tx
}

func (r *chunkRepository) SaveAll(ctx context.Context, chunks []*domain.Chunk) error {
	stmt, err := r.tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, text, token_count, position, embedding)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		var embedding []byte
		if chunk.HasEmbedding() {
			embedding = float32SliceToBytes(chunk.Embedding().Vector())
		}
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocumentID, chunk.Text, chunk.TokenCount, chunk.Position, embedding,
		); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}
	return nil
}

// SearchSimilar scans every embedded chunk and ranks by exact cosine
// similarity. Fine for the corpus sizes an embedded database serves.
func (r *chunkRepository) SearchSimilar(
	ctx context.Context, embedding domain.Embedding, topK int,
) ([]driven.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	query := embedding.Vector()

	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, document_id, text, token_count, position, embedding
		FROM chunks WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []driven.ScoredChunk
	for rows.Next() {
		var (
			id, documentID, text string
			tokenCount, position int
			blob                 []byte
		)
		if err := rows.Scan(&id, &documentID, &text, &tokenCount, &position, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		vector := bytesToFloat32Slice(blob)
		chunk := domain.RestoreChunk(
			id, documentID, text, tokenCount, position,
			domain.EmbeddingFromVector(vector),
		)
		results = append(results, driven.ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(query, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (r *chunkRepository) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if _, err := r.tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether the driver error is a UNIQUE
// constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity returns 1 - cosine distance, clamped to [0, 1].
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
