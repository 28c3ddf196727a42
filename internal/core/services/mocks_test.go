package services

import (
	"context"
	"io"
	"strings"

	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	content    string
	title      string
	sourceType domain.SourceType
	loadErr    error
	calls      int
}

func (m *mockLoader) Load(_ context.Context, _ string) (driven.LoadedDocument, error) {
	m.calls++
	if m.loadErr != nil {
		return driven.LoadedDocument{}, m.loadErr
	}
	st := m.sourceType
	if st == "" {
		st = domain.SourceTypeURL
	}
	return driven.LoadedDocument{Content: m.content, Title: m.title, SourceType: st}, nil
}

// mockEmbedder implements driven.EmbeddingService for testing.
// Each text embeds to a deterministic vector; token counts are word counts.
type mockEmbedder struct {
	embedErr    error
	batchErr    error
	queryVector []float32
	batchCalls  [][]string
	embedCalls  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.Embedding, error) {
	m.embedCalls = append(m.embedCalls, text)
	if m.embedErr != nil {
		return domain.Embedding{}, m.embedErr
	}
	if m.queryVector != nil {
		return domain.EmbeddingFromVector(m.queryVector), nil
	}
	return domain.EmbeddingFromVector([]float32{1, 0}), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([]domain.Embedding, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([]domain.Embedding, len(texts))
	for i := range texts {
		out[i] = domain.EmbeddingFromVector([]float32{float32(i + 1), 1})
	}
	return out, nil
}

func (m *mockEmbedder) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func (m *mockEmbedder) Dimensions() int {
	return 2
}

// mockStream implements driven.CompletionStream for testing.
type mockStream struct {
	fragments []string
	failAfter int // fail after this many fragments when >= 0
	err       error
	pos       int
	closed    bool
}

func (m *mockStream) Recv() (string, error) {
	if m.err != nil && m.failAfter >= 0 && m.pos >= m.failAfter {
		return "", m.err
	}
	if m.pos >= len(m.fragments) {
		return "", io.EOF
	}
	frag := m.fragments[m.pos]
	m.pos++
	return frag, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	answer      string
	rewritten   string
	generateErr error
	rewriteErr  error
	stream      *mockStream
	streamErr   error

	generateCalls  int
	streamCalls    int
	rewriteCalls   int
	lastQuestion   string
	lastChunks     []*domain.Chunk
	lastHistory    []domain.ConversationMessage
	rewriteHistory []domain.ConversationMessage
}

func (m *mockLLM) Generate(
	_ context.Context, q domain.Question, chunks []*domain.Chunk, history []domain.ConversationMessage,
) (string, error) {
	m.generateCalls++
	m.lastQuestion = q.Text()
	m.lastChunks = chunks
	m.lastHistory = history
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if m.answer == "" {
		return "mock answer", nil
	}
	return m.answer, nil
}

func (m *mockLLM) GenerateStream(
	_ context.Context, q domain.Question, chunks []*domain.Chunk, history []domain.ConversationMessage,
) (driven.CompletionStream, error) {
	m.streamCalls++
	m.lastQuestion = q.Text()
	m.lastChunks = chunks
	m.lastHistory = history
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	if m.stream == nil {
		m.stream = &mockStream{fragments: []string{"mock ", "answer"}, failAfter: -1}
	}
	return m.stream, nil
}

func (m *mockLLM) RewriteQuery(
	_ context.Context, q domain.Question, history []domain.ConversationMessage,
) (string, error) {
	m.rewriteCalls++
	m.rewriteHistory = history
	if m.rewriteErr != nil {
		return "", m.rewriteErr
	}
	if m.rewritten == "" {
		return q.Text(), nil
	}
	return m.rewritten, nil
}
