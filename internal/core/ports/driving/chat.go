package driving

import (
	"context"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// ChatService runs the streaming conversation about the corpus.
//
// All methods except Updates must be called from a single goroutine, the
// interactive main loop. Streamed text reaches the turn log only through
// Pump, so rendering always sees a consistent snapshot.
type ChatService interface {
	// Available returns true if a chat transport is configured.
	Available() bool

	// Send appends the user's message and starts streaming the answer.
	// Returns domain.ErrBusy while a previous answer is streaming and
	// domain.ErrLLMUnavailable without a transport.
	Send(ctx context.Context, message string) error

	// Cancel stops the in-flight stream, keeping the partial text.
	// Returns false if nothing was streaming.
	Cancel() bool

	// Pump applies streamed increments received since the last call.
	// Returns true if the turn log changed.
	Pump() bool

	// Updates signals that Pump has work. The channel holds at most one
	// pending signal.
	Updates() <-chan struct{}

	// Streaming returns true while an answer is in flight.
	Streaming() bool

	// Turns returns the chat log in order.
	Turns() []domain.Turn

	// LatestAnswer returns the most recent assistant turn.
	LatestAnswer() (domain.Turn, bool)
}
