package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentor-dev/documentor/internal/core/domain"
)

type apiCall struct {
	authorization string
	request       embeddingRequest
}

// newTestServer returns a server that embeds each input as {index, 1}
// and records every call it receives.
func newTestServer(t *testing.T, calls *[]apiCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*calls = append(*calls, apiCall{
			authorization: r.Header.Get("Authorization"),
			request:       req,
		})

		resp := map[string]any{"data": []map[string]any{}}
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{
				"embedding": []float64{float64(i), 1},
				"index":     i,
			}
		}
		resp["data"] = data
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newService(t *testing.T, url string, maxBatch int) *EmbeddingService {
	t.Helper()
	svc, err := NewEmbeddingService(Config{
		APIKey:       "test-key",
		BaseURL:      url,
		MaxBatchSize: maxBatch,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbeddingService_Defaults(t *testing.T) {
	svc := newService(t, "http://example", 0)
	assert.Equal(t, 1536, svc.Dimensions())
	assert.Equal(t, DefaultMaxBatchSize, svc.maxBatchSize)
}

func TestEmbed_SingleText(t *testing.T) {
	var calls []apiCall
	server := newTestServer(t, &calls)
	defer server.Close()

	svc := newService(t, server.URL, 0)
	embedding, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1}, embedding.Vector())
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer test-key", calls[0].authorization)
	assert.Equal(t, []string{"hello"}, calls[0].request.Input)
}

func TestEmbedBatch_SplitsAtBatchLimit(t *testing.T) {
	var calls []apiCall
	server := newTestServer(t, &calls)
	defer server.Close()

	svc := newService(t, server.URL, 2)
	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	require.Len(t, embeddings, 5)
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"a", "b"}, calls[0].request.Input)
	assert.Equal(t, []string{"c", "d"}, calls[1].request.Input)
	assert.Equal(t, []string{"e"}, calls[2].request.Input)

	// Sub-batch results concatenate in input order: per-batch index, 1.
	assert.Equal(t, []float32{0, 1}, embeddings[0].Vector())
	assert.Equal(t, []float32{1, 1}, embeddings[1].Vector())
	assert.Equal(t, []float32{0, 1}, embeddings[2].Vector())
	assert.Equal(t, []float32{1, 1}, embeddings[3].Vector())
	assert.Equal(t, []float32{0, 1}, embeddings[4].Vector())
}

func TestEmbedBatch_RestoresProviderOrder(t *testing.T) {
	// The provider answers in reverse order; indexes must restore it.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"embedding": []float64{float64(i * 10), 1},
				"index":     i,
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
	}))
	defer server.Close()

	svc := newService(t, server.URL, 0)
	embeddings, err := svc.EmbedBatch(context.Background(), []string{"x", "y", "z"})
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1}, embeddings[0].Vector())
	assert.Equal(t, []float32{10, 1}, embeddings[1].Vector())
	assert.Equal(t, []float32{20, 1}, embeddings[2].Vector())
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	svc := newService(t, "http://unreachable.invalid", 0)
	embeddings, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestEmbedBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL, 0)
	_, err := svc.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingGeneration)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"embedding": [1, 0], "index": 0}]}`))
	}))
	defer server.Close()

	svc := newService(t, server.URL, 0)
	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingGeneration)
}

func TestCountTokens(t *testing.T) {
	svc := newService(t, "http://example", 0)

	count, err := svc.CountTokens("hello world")
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	empty, err := svc.CountTokens("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}
