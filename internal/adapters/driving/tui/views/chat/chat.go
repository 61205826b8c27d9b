// Package chat provides the chat mode view for the TUI.
package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

const inputHeight = 3

const (
	placeholderIdle      = "ask about your notes"
	placeholderStreaming = "answering, ctrl+c to cancel"
)

// View renders the transcript above the message input.
type View struct {
	styles  *styles.Styles
	session driving.SessionService

	transcript *transcript.Transcript
	input      *input.Field

	width  int
	height int
}

// NewView creates a new chat view. markdownStyle names the glamour style
// used for finished answers; empty selects the default.
func NewView(s *styles.Styles, session driving.SessionService, markdownStyle string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:     s,
		session:    session,
		transcript: transcript.NewTranscript(s, markdownStyle),
		input:      input.NewField(s, "Ask: ", placeholderIdle),
	}
	v.SetDimensions(80, 24)
	return v
}

// View renders the chat view.
func (v *View) View() string {
	v.transcript.SetTurns(v.session.Turns(), v.session.ChatScroll())

	if v.session.Streaming() {
		v.input.SetPlaceholder(placeholderStreaming)
	} else {
		v.input.SetPlaceholder(placeholderIdle)
	}
	v.input.SetValue(v.session.ChatInput())

	return lipgloss.JoinVertical(lipgloss.Left, v.transcript.View(), v.input.View())
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.transcript.SetDimensions(width, max(height-inputHeight, 1))
	v.input.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}
