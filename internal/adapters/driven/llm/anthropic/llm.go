// Package anthropic provides a chat streamer for the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/finder/internal/adapters/driven/llm/stream"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

// Ensure Streamer implements the interface.
var _ driven.ChatStreamer = (*Streamer)(nil)

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.anthropic.com"
	DefaultModel         = "claude-3-5-sonnet-latest"
	DefaultMaxTokens     = 4096
	DefaultHeaderTimeout = 60 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic streamer.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// HeaderTimeout bounds the wait for response headers (default: 60s).
	HeaderTimeout time.Duration
}

// Streamer streams answers from the Messages API.
type Streamer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	Stream      bool              `json:"stream"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamEvent covers the event payloads the streamer consumes.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewStreamer creates a new Anthropic streamer.
func NewStreamer(cfg Config) (*Streamer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
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
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// StreamChat starts a streamed answer. System messages are joined into
// the request's system field.
func (s *Streamer) StreamChat(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	var (
		system []string
		msgs   []messagesMessage
	)
	for _, msg := range messages {
		if msg.Role == driven.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		msgs = append(msgs, messagesMessage{Role: msg.Role, Content: msg.Content})
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	jsonBody, err := json.Marshal(messagesRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		System:      strings.Join(system, "\n\n"),
		Temperature: opts.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, stream.StatusError("anthropic", resp, decodeError)
	}

	emitter := stream.NewEmitter(ctx)
	go s.read(resp.Body, emitter)
	return emitter.Events(), nil
}

// read forwards text deltas until message_stop.
func (s *Streamer) read(body io.ReadCloser, emitter *stream.Emitter) {
	defer emitter.Close()
	defer body.Close()

	reader := stream.NewSSEReader(body)
	for {
		ev, err := reader.Next()
		if stream.IsEOF(err) {
			emitter.Fail(fmt.Errorf("anthropic: stream ended before message_stop"))
			return
		}
		if err != nil {
			emitter.Fail(fmt.Errorf("anthropic: read stream: %w", err))
			return
		}

		var payload streamEvent
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			emitter.Fail(fmt.Errorf("anthropic: decode event: %w", err))
			return
		}

		switch payload.Type {
		case "content_block_delta":
			if payload.Delta.Type == "text_delta" && !emitter.Delta(payload.Delta.Text) {
				return
			}
		case "message_stop":
			emitter.Done()
			return
		case "error":
			msg := "unknown error"
			if payload.Error != nil {
				msg = payload.Error.Message
			}
			emitter.Fail(fmt.Errorf("anthropic error: %s", msg))
			return
		}
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

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *Streamer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stream.StatusError("anthropic", resp, decodeError)
	}
	return nil
}

// Close releases resources.
func (s *Streamer) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
