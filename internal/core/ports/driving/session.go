package driving

import (
	"context"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// SessionService is the interactive session driven by a terminal UI.
// Every input flows through Handle; rendering reads the accessors.
type SessionService interface {
	// Handle routes one input event to the active mode.
	Handle(ctx context.Context, in domain.Input) domain.Effect

	// Pump applies streamed chat text. Returns true if anything changed.
	Pump() bool

	// Mode returns the active mode.
	Mode() domain.Mode

	// Notice returns the transient status message, if any.
	Notice() string

	// Query returns the search query.
	Query() string

	// Matches returns the ranked search results.
	Matches() []domain.Match

	// Selected returns the cursor in the active list, or -1 if it is empty.
	Selected() int

	// ChatInput returns the message being composed.
	ChatInput() string

	// ChatScroll returns how many lines the transcript is scrolled up.
	ChatScroll() int

	// ChatAvailable returns true if chat mode can be entered.
	ChatAvailable() bool

	// Streaming returns true while an answer is in flight.
	Streaming() bool

	// Turns returns the chat log.
	Turns() []domain.Turn

	// CitationQuery returns the citations filter.
	CitationQuery() string

	// Citations returns the filtered citations of the latest answer.
	Citations() []domain.CitationMatch

	// Preview returns the window around the selected line of the active
	// list, sized to height lines.
	Preview(height int) domain.PreviewWindow

	// Updates signals that streamed chat text is waiting for Pump.
	Updates() <-chan struct{}
}
