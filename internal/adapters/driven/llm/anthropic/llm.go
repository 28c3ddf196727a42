// Package anthropic provides an LLM service adapter using the Anthropic
// messages API.
package anthropic

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
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-5"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	apiVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-sonnet-4-5).
	Model string

	// MaxTokens caps the response length (default: 1024).
	MaxTokens int

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates answers using the Anthropic messages API.
type LLMService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
	Stream    bool      `json:"stream,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate produces a complete answer grounded in the given chunks.
func (s *LLMService) Generate(
	ctx context.Context,
	question domain.Question,
	chunks []*domain.Chunk,
	history []domain.ConversationMessage,
) (string, error) {
	req := messagesRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    prompt.BuildRAGSystem(chunks),
		Messages:  buildMessages(question, history),
	}
	return s.complete(ctx, req)
}

// GenerateStream produces an answer as a stream of text fragments.
func (s *LLMService) GenerateStream(
	ctx context.Context,
	question domain.Question,
	chunks []*domain.Chunk,
	history []domain.ConversationMessage,
) (driven.CompletionStream, error) {
	req := messagesRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    prompt.BuildRAGSystem(chunks),
		Messages:  buildMessages(question, history),
		Stream:    true,
	}

	resp, err := s.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, statusError(resp.StatusCode, body)
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
	req := messagesRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    prompt.BuildQueryRewriteSystem(),
		Messages: []message{
			{Role: "user", Content: prompt.BuildRewriteUser(question, history)},
		},
	}

	rewritten, err := s.complete(ctx, req)
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question.Text(), nil
	}
	return rewritten, nil
}

func (s *LLMService) complete(ctx context.Context, req messagesRequest) (string, error) {
	resp, err := s.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrLLMGeneration, err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrLLMGeneration, err)
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrLLMGeneration, msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrLLMGeneration, resp.StatusCode)
	}

	var text strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrLLMGeneration)
	}
	return text.String(), nil
}

func (s *LLMService) post(ctx context.Context, payload messagesRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMGeneration, err)
	}
	return resp, nil
}

// buildMessages folds the conversation history and the question into the
// messages array. Anthropic keeps the system prompt out of the array.
func buildMessages(question domain.Question, history []domain.ConversationMessage) []message {
	messages := make([]message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, message{Role: string(msg.Role), Content: msg.Content})
	}
	return append(messages, message{Role: "user", Content: question.Text()})
}

func statusError(status int, body []byte) error {
	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err == nil && msgResp.Error != nil {
		return fmt.Errorf("%w: %s", domain.ErrLLMGeneration, msgResp.Error.Message)
	}
	return fmt.Errorf("%w: status %d", domain.ErrLLMGeneration, status)
}

// completionStream reads server-sent events from a messages API response.
// Text arrives in content_block_delta events; message_stop ends the stream.
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

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return "", fmt.Errorf("%w: decode stream event: %w", domain.ErrLLMGeneration, err)
		}
		switch event.Type {
		case "content_block_delta":
			if event.Delta.Text != "" {
				return event.Delta.Text, nil
			}
		case "message_stop":
			return "", io.EOF
		case "error":
			if event.Error != nil {
				return "", fmt.Errorf("%w: %s", domain.ErrLLMGeneration, event.Error.Message)
			}
			return "", fmt.Errorf("%w: stream error", domain.ErrLLMGeneration)
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
