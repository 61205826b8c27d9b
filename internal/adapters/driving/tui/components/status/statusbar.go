// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateStreaming State = "streaming"
	StateNotice    State = "notice"
	StateError     State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	mode        domain.Mode
	state       State
	message     string
	resultCount int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		mode:   domain.ModeSearch,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateNotice:
		return s.styles.Warning.Render(s.message)
	case StateStreaming:
		return s.styles.Normal.Render("Answering...")
	case StateReady:
		if s.mode != domain.ModeChat && s.resultCount > 0 {
			return s.badge() + s.styles.Normal.Render(fmt.Sprintf(" · %d", s.resultCount))
		}
	}
	return s.badge()
}

func (s *Bar) badge() string {
	return s.styles.Mode(s.mode).Render(s.mode.String())
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateStreaming {
		bindings = []key.Binding{s.keymap.Cancel}
	} else {
		bindings = s.keymap.HelpFor(s.mode)
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetMode sets the mode the hints are shown for.
func (s *Bar) SetMode(mode domain.Mode) {
	s.mode = mode
}

// Mode returns the current mode.
func (s *Bar) Mode() domain.Mode {
	return s.mode
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
