// Package memory provides an in-memory storage backend. It backs tests
// and the "memory" dev backend; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

// Ensure Store implements the unit-of-work port.
var _ driven.UnitOfWork = (*Store)(nil)

// Store is an in-memory unit of work over map-based repositories.
// Transactions are simulated with a whole-store snapshot: the scope
// holds the store lock, and an error or panic restores the snapshot.
type Store struct {
	mu        sync.Mutex
	documents map[string]domain.Document
	chunks    map[string]domain.Chunk
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string]domain.Chunk),
	}
}

// Do runs fn inside one transactional scope. The snapshot taken at entry
// is restored when fn returns an error or panics.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos driven.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docSnap := make(map[string]domain.Document, len(s.documents))
	for k, v := range s.documents {
		docSnap[k] = v
	}
	chunkSnap := make(map[string]domain.Chunk, len(s.chunks))
	for k, v := range s.chunks {
		chunkSnap[k] = v
	}

	restore := func() {
		s.documents = docSnap
		s.chunks = chunkSnap
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	repos := driven.Repositories{
		Documents: &documentRepository{store: s},
		Chunks:    &chunkRepository{store: s},
	}
	if err := fn(ctx, repos); err != nil {
		restore()
		return err
	}
	return nil
}

// DocumentCount reports how many documents are stored. Test helper.
func (s *Store) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}

// ChunkCount reports how many chunks are stored. Test helper.
func (s *Store) ChunkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// documentRepository implements driven.DocumentRepository over the store.
// Valid only inside the Do scope that created it.
type documentRepository struct {
	store *Store
}

var _ driven.DocumentRepository = (*documentRepository)(nil)

func (r *documentRepository) Save(_ context.Context, doc *domain.Document) error {
	for _, existing := range r.store.documents {
		if existing.Source == doc.Source && existing.ID != doc.ID {
			return fmt.Errorf("%w: source %q", domain.ErrDuplicateDocument, doc.Source)
		}
	}
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *documentRepository) FindByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := r.store.documents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return &doc, nil
}

func (r *documentRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Document, error) {
	found := make(map[string]*domain.Document, len(ids))
	for _, id := range ids {
		if doc, ok := r.store.documents[id]; ok {
			d := doc
			found[id] = &d
		}
	}
	return found, nil
}

func (r *documentRepository) FindBySource(_ context.Context, source string) (*domain.Document, error) {
	for _, doc := range r.store.documents {
		if doc.Source == source {
			d := doc
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: source %q", domain.ErrDocumentNotFound, source)
}

func (r *documentRepository) Delete(_ context.Context, id string) error {
	delete(r.store.documents, id)
	return nil
}

func (r *documentRepository) ListAll(_ context.Context, offset, limit int) ([]*domain.Document, error) {
	all := make([]*domain.Document, 0, len(r.store.documents))
	for id := range r.store.documents {
		doc := r.store.documents[id]
		all = append(all, &doc)
	}
	// UUIDv7 ids sort by creation time.
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*domain.Document{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// chunkRepository implements driven.ChunkRepository over the store.
type chunkRepository struct {
	store *Store
}

var _ driven.ChunkRepository = (*chunkRepository)(nil)

func (r *chunkRepository) SaveAll(_ context.Context, chunks []*domain.Chunk) error {
	for _, chunk := range chunks {
		r.store.chunks[chunk.ID] = *chunk
	}
	return nil
}

func (r *chunkRepository) SearchSimilar(
	_ context.Context, embedding domain.Embedding, topK int,
) ([]driven.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	query := embedding.Vector()

	scored := make([]driven.ScoredChunk, 0, len(r.store.chunks))
	for id := range r.store.chunks {
		chunk := r.store.chunks[id]
		if !chunk.HasEmbedding() {
			continue
		}
		score := cosineSimilarity(query, chunk.Embedding().Vector())
		scored = append(scored, driven.ScoredChunk{Chunk: &chunk, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (r *chunkRepository) DeleteByDocumentID(_ context.Context, documentID string) error {
	for id := range r.store.chunks {
		if r.store.chunks[id].DocumentID == documentID {
			delete(r.store.chunks, id)
		}
	}
	return nil
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
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, sim))
}
