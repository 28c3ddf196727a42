package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

func testQuestion(t *testing.T, text string) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(text)
	require.NoError(t, err)
	return q
}

func testChunk(t *testing.T, text string) *domain.Chunk {
	t.Helper()
	chunk, err := domain.NewChunk("doc-1", text, 3, 0)
	require.NoError(t, err)
	return chunk
}

func newService(t *testing.T, url string) *LLMService {
	t.Helper()
	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: url})
	require.NoError(t, err)
	return svc
}

func TestGenerate(t *testing.T) {
	var captured messagesRequest
	var version string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get("anthropic-version")
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": "The answer."}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	answer, err := svc.Generate(
		context.Background(),
		testQuestion(t, "How do I install?"),
		[]*domain.Chunk{testChunk(t, "install with pip")},
		[]domain.ConversationMessage{{Role: domain.RoleUser, Content: "earlier"}},
	)
	require.NoError(t, err)

	assert.Equal(t, "The answer.", answer)
	assert.Equal(t, apiVersion, version)
	assert.Contains(t, captured.System, "install with pip")
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, message{Role: "user", Content: "earlier"}, captured.Messages[0])
	assert.Equal(t, message{Role: "user", Content: "How do I install?"}, captured.Messages[1])
	assert.Equal(t, DefaultMaxTokens, captured.MaxTokens)
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "bad request"}}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	_, err := svc.Generate(context.Background(), testQuestion(t, "q?"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrLLMGeneration)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	_, err := svc.Generate(context.Background(), testQuestion(t, "q?"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrLLMGeneration)
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "event: message_start\ndata: {\"type\":\"message_start\"}\n\n")
		_, _ = io.WriteString(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hello\"}}\n\n")
		_, _ = io.WriteString(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\" world\"}}\n\n")
		_, _ = io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	stream, err := svc.GenerateStream(context.Background(), testQuestion(t, "q?"), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "Hello", first)

	second, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, " world", second)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGenerateStream_MidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"partial\"}}\n\n")
		_, _ = io.WriteString(w, "data: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"overloaded\"}}\n\n")
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	stream, err := svc.GenerateStream(context.Background(), testQuestion(t, "q?"), nil, nil)
	require.NoError(t, err)
	defer stream.Close()

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "partial", first)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, domain.ErrLLMGeneration)
}

func TestRewriteQuery(t *testing.T) {
	var captured messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": "  standalone query  "}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	svc := newService(t, server.URL)
	history := []domain.ConversationMessage{{Role: domain.RoleUser, Content: "about Go modules"}}
	rewritten, err := svc.RewriteQuery(context.Background(), testQuestion(t, "how do I use them?"), history)
	require.NoError(t, err)

	assert.Equal(t, "standalone query", rewritten)
	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, "about Go modules")
}
