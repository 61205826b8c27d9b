// Package ollama provides a chat streamer for a local Ollama instance.
package ollama

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
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"

	// DefaultHeaderTimeout is generous because the first request loads
	// the model into memory.
	DefaultHeaderTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama streamer.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// HeaderTimeout bounds the wait for response headers (default: 120s).
	HeaderTimeout time.Duration
}

// Streamer streams answers from /api/chat.
type Streamer struct {
	client  *http.Client
	baseURL string
	model   string
}

// options holds generation parameters.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatRequest is the /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatChunk is one line of a streamed /api/chat response.
type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// NewStreamer creates a new Ollama streamer.
func NewStreamer(cfg Config) *Streamer {
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
		model:   cfg.Model,
	}
}

// StreamChat starts a streamed answer.
func (s *Streamer) StreamChat(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   true,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, stream.StatusError("ollama", resp, decodeError)
	}

	emitter := stream.NewEmitter(ctx)
	go s.read(resp.Body, emitter)
	return emitter.Events(), nil
}

// read forwards message content until a chunk reports done.
func (s *Streamer) read(body io.ReadCloser, emitter *stream.Emitter) {
	defer emitter.Close()
	defer body.Close()

	reader := stream.NewLineReader(body)
	for {
		line, err := reader.Next()
		if stream.IsEOF(err) {
			emitter.Fail(fmt.Errorf("ollama: stream ended before done"))
			return
		}
		if err != nil {
			emitter.Fail(fmt.Errorf("ollama: read stream: %w", err))
			return
		}

		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			emitter.Fail(fmt.Errorf("ollama: decode chunk: %w", err))
			return
		}
		if chunk.Error != "" {
			emitter.Fail(fmt.Errorf("ollama error: %s", chunk.Error))
			return
		}
		if !emitter.Delta(chunk.Message.Content) {
			return
		}
		if chunk.Done {
			emitter.Done()
			return
		}
	}
}

func decodeError(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return payload.Error
}

// ModelName returns the name of the model being used.
func (s *Streamer) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *Streamer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stream.StatusError("ollama", resp, decodeError)
	}
	return nil
}

// Close releases resources.
func (s *Streamer) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
