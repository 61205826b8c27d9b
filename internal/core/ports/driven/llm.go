// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// ChatStreamer streams language model answers for the chat mode.
// This is an optional service - when nil, chat is unavailable and search
// keeps working.
//
// Implementations include:
//   - OpenRouter and OpenAI (server-sent events)
//   - Anthropic (server-sent events)
//   - Ollama (newline-delimited JSON)
type ChatStreamer interface {
	// StreamChat starts a streamed completion. Text increments arrive on
	// the returned channel in generation order. The channel is closed after
	// a terminal event (Done or Err) or once ctx is cancelled; a cancelled
	// stream may close without a terminal event.
	StreamChat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (<-chan StreamEvent, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// StreamEvent is one element of a chat stream.
type StreamEvent struct {
	// Delta is the next text increment. It may be empty on terminal events.
	Delta string

	// Done marks normal end of stream.
	Done bool

	// Err marks a transport failure. No events follow it.
	Err error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
