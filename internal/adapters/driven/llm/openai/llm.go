// Package openai provides a chat streamer for OpenAI-compatible APIs,
// including OpenRouter.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/finder/internal/adapters/driven/llm/stream"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

// Ensure Streamer implements the interface.
var _ driven.ChatStreamer = (*Streamer)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel             = "gpt-4o-mini"
	DefaultHeaderTimeout     = 60 * time.Second
)

// Config holds configuration for the streamer.
type Config struct {
	// Name labels errors and logs, e.g. "openai" or "openrouter".
	Name string

	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Headers are sent with every request. OpenRouter uses them for
	// app attribution.
	Headers map[string]string

	// HeaderTimeout bounds the wait for response headers. The body of a
	// stream has no deadline.
	HeaderTimeout time.Duration
}

// Streamer streams chat completions over server-sent events.
type Streamer struct {
	client  *http.Client
	name    string
	baseURL string
	apiKey  string
	model   string
	headers map[string]string
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	Stream      bool                `json:"stream"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamChunk is one "data:" payload of a streamed completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewStreamer creates a new streamer.
func NewStreamer(cfg Config) (*Streamer, error) {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HeaderTimeout == 0 {
		cfg.HeaderTimeout = DefaultHeaderTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.HeaderTimeout

	return &Streamer{
		client:  &http.Client{Transport: transport},
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		headers: cfg.Headers,
	}, nil
}

// StreamChat starts a streamed completion.
func (s *Streamer) StreamChat(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	chatMessages := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatCompletionMsg{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatCompletionRequest{
		Model:       s.model,
		Messages:    chatMessages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stream:      true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	s.authorise(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", s.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, stream.StatusError(s.name, resp, decodeError)
	}

	emitter := stream.NewEmitter(ctx)
	go s.read(resp.Body, emitter)
	return emitter.Events(), nil
}

// read forwards deltas until [DONE], a finish reason or end of body.
func (s *Streamer) read(body io.ReadCloser, emitter *stream.Emitter) {
	defer emitter.Close()
	defer body.Close()

	reader := stream.NewSSEReader(body)
	for {
		ev, err := reader.Next()
		if stream.IsEOF(err) {
			emitter.Done()
			return
		}
		if err != nil {
			emitter.Fail(fmt.Errorf("%s: read stream: %w", s.name, err))
			return
		}
		if string(ev.Data) == "[DONE]" {
			emitter.Done()
			return
		}

		var chunk streamChunk
		if err := json.Unmarshal(ev.Data, &chunk); err != nil {
			emitter.Fail(fmt.Errorf("%s: decode chunk: %w", s.name, err))
			return
		}
		if chunk.Error != nil {
			emitter.Fail(fmt.Errorf("%s error: %s", s.name, chunk.Error.Message))
			return
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if !emitter.Delta(chunk.Choices[0].Delta.Content) {
			return
		}
	}
}

func (s *Streamer) authorise(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
}

func decodeError(body []byte) string {
	var payload struct {
		Error *apiError `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil || payload.Error == nil {
		return ""
	}
	return payload.Error.Message
}

// ModelName returns the name of the model being used.
func (s *Streamer) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *Streamer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", s.name, err)
	}
	s.authorise(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stream.StatusError(s.name, resp, decodeError)
	}
	return nil
}

// Close releases resources.
func (s *Streamer) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
