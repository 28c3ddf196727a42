package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
	"github.com/documentor-dev/documentor/internal/core/ports/driving"
	"github.com/documentor-dev/documentor/internal/logger"
)

// Ensure QuestionService implements the interface.
var _ driving.QuestionService = (*QuestionService)(nil)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 5

// MinRelevanceScore is the similarity floor below which retrieved chunks
// are discarded.
const MinRelevanceScore = 0.3

// genericStreamFailure is what streaming clients see when generation
// breaks mid-stream. Provider error bodies never leak to callers.
const genericStreamFailure = "answer generation failed"

// QuestionService runs the question-answering pipeline:
// rewrite -> embed -> search -> filter -> generate.
type QuestionService struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	uow      driven.UnitOfWork
	topK     int
	minScore float64
}

// QuestionOption configures the question service.
type QuestionOption func(*QuestionService)

// WithTopK sets how many chunks similarity search returns.
func WithTopK(k int) QuestionOption {
	return func(s *QuestionService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithMinScore sets the relevance floor.
func WithMinScore(score float64) QuestionOption {
	return func(s *QuestionService) {
		if score >= 0 {
			s.minScore = score
		}
	}
}

// NewQuestionService creates a question service.
func NewQuestionService(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	uow driven.UnitOfWork,
	opts ...QuestionOption,
) *QuestionService {
	s := &QuestionService{
		embedder: embedder,
		llm:      llm,
		uow:      uow,
		topK:     DefaultTopK,
		minScore: MinRelevanceScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// retrieval is the shared outcome of pipeline steps 1-6: the validated
// question, the surviving chunks in rank order, and their sources.
type retrieval struct {
	question domain.Question
	chunks   []*domain.Chunk
	sources  []domain.SourceReference
}

// empty reports whether nothing survived the relevance filter.
func (r retrieval) empty() bool {
	return len(r.chunks) == 0
}

// Ask runs the full RAG pipeline and returns a complete answer.
func (s *QuestionService) Ask(ctx context.Context, req driving.AskRequest) (domain.Answer, error) {
	ret, err := s.retrieve(ctx, req)
	if err != nil {
		return domain.Answer{}, err
	}

	if ret.empty() {
		logger.Info("No relevant chunks; generation skipped")
		return domain.NoResultsAnswer(), nil
	}

	// The original question, not the rewritten query, frames generation.
	text, err := s.llm.Generate(ctx, ret.question, ret.chunks, req.History)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.NewAnswer(text, ret.sources)
}

// AskStream runs the same pipeline but streams the answer. Events arrive
// on the returned channel in protocol order: text* then sources then
// done, or a single terminal error event on failure. The channel is
// closed when the stream ends for any reason.
func (s *QuestionService) AskStream(ctx context.Context, req driving.AskRequest) (<-chan domain.AnswerEvent, error) {
	ret, err := s.retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	events := make(chan domain.AnswerEvent)

	if ret.empty() {
		logger.Info("No relevant chunks; generation skipped")
		go func() {
			defer close(events)
			emit(ctx, events, domain.TextEvent(domain.NoResultsText))
			emit(ctx, events, domain.SourcesEvent(nil))
			emit(ctx, events, domain.DoneEvent())
		}()
		return events, nil
	}

	stream, err := s.llm.GenerateStream(ctx, ret.question, ret.chunks, req.History)
	if err != nil {
		return nil, err
	}

	go func() {
		defer close(events)
		// Closing the provider stream on every exit path stops upstream
		// generation when the consumer goes away early.
		defer stream.Close()

		for {
			if ctx.Err() != nil {
				return
			}
			fragment, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				logger.Warn("Generation stream failed: %v", err)
				emit(ctx, events, domain.ErrorEvent(genericStreamFailure))
				return
			}
			if !emit(ctx, events, domain.TextEvent(fragment)) {
				return
			}
		}

		emit(ctx, events, domain.SourcesEvent(ret.sources))
		emit(ctx, events, domain.DoneEvent())
	}()

	return events, nil
}

// emit sends one event unless the consumer's context is gone.
func emit(ctx context.Context, events chan<- domain.AnswerEvent, ev domain.AnswerEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// retrieve performs validation, optional query rewriting, embedding,
// similarity search, relevance filtering, and batched title resolution.
func (s *QuestionService) retrieve(ctx context.Context, req driving.AskRequest) (retrieval, error) {
	logger.Section("Question Answering")

	question, err := domain.NewQuestion(req.Question)
	if err != nil {
		return retrieval{}, err
	}

	// Rewriting affects retrieval only; generation still sees the
	// user's literal question.
	searchQuery := question.Text()
	if len(req.History) > 0 {
		rewritten, err := s.llm.RewriteQuery(ctx, question, req.History)
		if err != nil {
			return retrieval{}, err
		}
		if rewritten != "" {
			searchQuery = rewritten
			logger.Debug("Query rewritten to %q", rewritten)
		}
	}

	embedding, err := s.embedder.Embed(ctx, searchQuery)
	if err != nil {
		return retrieval{}, err
	}

	ret := retrieval{question: question}
	err = s.uow.Do(ctx, func(ctx context.Context, repos driven.Repositories) error {
		results, err := repos.Chunks.SearchSimilar(ctx, embedding, s.topK)
		if err != nil {
			return fmt.Errorf("similarity search: %w", err)
		}
		logger.Debug("Search returned %d chunks", len(results))

		// Index order is authoritative; only the floor is applied.
		kept := results[:0]
		for _, r := range results {
			if r.Score >= s.minScore {
				kept = append(kept, r)
			}
		}
		logger.Debug("%d chunks above relevance floor %.2f", len(kept), s.minScore)
		if len(kept) == 0 {
			return nil
		}

		titles, err := s.resolveTitles(ctx, repos.Documents, kept)
		if err != nil {
			return err
		}

		for _, r := range kept {
			ref, err := domain.NewSourceReference(titles[r.Chunk.DocumentID], r.Chunk.Text, r.Score, r.Chunk.ID)
			if err != nil {
				return err
			}
			ret.chunks = append(ret.chunks, r.Chunk)
			ret.sources = append(ret.sources, ref)
		}
		return nil
	})
	if err != nil {
		return retrieval{}, err
	}

	return ret, nil
}

// resolveTitles looks up the distinct owning documents in one repository
// call. A missing title falls back to the document id.
func (s *QuestionService) resolveTitles(
	ctx context.Context, docs driven.DocumentRepository, results []driven.ScoredChunk,
) (map[string]string, error) {
	seen := make(map[string]bool, len(results))
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if !seen[r.Chunk.DocumentID] {
			seen[r.Chunk.DocumentID] = true
			ids = append(ids, r.Chunk.DocumentID)
		}
	}

	found, err := docs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve titles: %w", err)
	}

	titles := make(map[string]string, len(ids))
	for _, id := range ids {
		if doc, ok := found[id]; ok {
			titles[id] = doc.Title
		} else {
			titles[id] = id
		}
	}
	return titles, nil
}
