// Package openai provides an LLM service adapter using the OpenAI chat API.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/documentor-dev/documentor/internal/adapters/driven/llm/prompt"
	"github.com/documentor-dev/documentor/internal/core/domain"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	streamDonePayload = "[DONE]"
)

// Config holds configuration for the OpenAI LLM service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// RewriteModel is the model used for query rewriting; falls back to
	// Model when empty.
	RewriteModel string

	// Timeout is the request timeout (default: 120s). Streaming responses
	// are bounded by the same timeout end to end.
	Timeout time.Duration
}

// LLMService generates answers using the OpenAI chat completions API.
type LLMService struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	model        string
	rewriteModel string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RewriteModel == "" {
		cfg.RewriteModel = cfg.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:       &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		rewriteModel: cfg.RewriteModel,
	}, nil
}

// Generate produces a complete answer grounded in the given chunks.
func (s *LLMService) Generate(
	ctx context.Context,
	question domain.Question,
	chunks []*domain.Chunk,
	history []domain.ConversationMessage,
) (string, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: buildMessages(question, chunks, history),
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrLLMGeneration, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrLLMGeneration, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrLLMGeneration, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrLLMGeneration, resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrLLMGeneration)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// GenerateStream produces an answer as a stream of text fragments.
func (s *LLMService) GenerateStream(
	ctx context.Context,
	question domain.Question,
	chunks []*domain.Chunk,
	history []domain.ConversationMessage,
) (driven.CompletionStream, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: buildMessages(question, chunks, history),
		Stream:   true,
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, streamStatusError(resp.StatusCode, body)
	}

	return &completionStream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// RewriteQuery rewrites a follow-up question into a standalone retrieval
// query using the conversation history.
func (s *LLMService) RewriteQuery(
	ctx context.Context,
	question domain.Question,
	history []domain.ConversationMessage,
) (string, error) {
	req := chatRequest{
		Model: s.rewriteModel,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.BuildQueryRewriteSystem()},
			{Role: "user", Content: prompt.BuildRewriteUser(question, history)},
		},
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrLLMGeneration, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrLLMGeneration, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrLLMGeneration, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrLLMGeneration, resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrLLMGeneration)
	}

	rewritten := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if rewritten == "" {
		// An unusable rewrite falls back to the literal question rather
		// than failing the whole ask.
		return question.Text(), nil
	}
	return rewritten, nil
}

func (s *LLMService) post(ctx context.Context, payload chatRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMGeneration, err)
	}
	return resp, nil
}

func buildMessages(
	question domain.Question,
	chunks []*domain.Chunk,
	history []domain.ConversationMessage,
) []chatMessage {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: prompt.BuildRAGSystem(chunks)})
	for _, msg := range history {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return append(messages, chatMessage{Role: "user", Content: question.Text()})
}

func streamStatusError(status int, body []byte) error {
	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err == nil && chatResp.Error != nil {
		return fmt.Errorf("%w: %s", domain.ErrLLMGeneration, chatResp.Error.Message)
	}
	return fmt.Errorf("%w: status %d", domain.ErrLLMGeneration, status)
}

// completionStream reads server-sent events from a chat completions
// response body. Lines look like "data: {json}" and the stream terminates
// with "data: [DONE]".
type completionStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

var _ driven.CompletionStream = (*completionStream)(nil)

// Recv returns the next non-empty text fragment, or io.EOF at stream end.
func (s *completionStream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == streamDonePayload {
			return "", io.EOF
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("%w: decode stream chunk: %w", domain.ErrLLMGeneration, err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: read stream: %w", domain.ErrLLMGeneration, err)
	}
	return "", io.EOF
}

// Close releases the underlying response body.
func (s *completionStream) Close() error {
	return s.body.Close()
}
