// Package keymap defines keybindings for the TUI and translates key
// presses into session inputs.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// ForceQuit exits from any mode.
	ForceQuit key.Binding

	// Quit exits from search mode.
	Quit key.Binding

	// Back returns to the previous mode.
	Back key.Binding

	// Cancel stops a streaming answer, or behaves like Back.
	Cancel key.Binding

	// Activate opens the selected line or sends the chat message.
	Activate key.Binding

	// Backspace deletes the last character of the active input.
	Backspace key.Binding

	// Up navigates up in a list or scrolls the transcript back.
	Up key.Binding

	// Down navigates down in a list or scrolls the transcript forward.
	Down key.Binding

	// PageUp moves a page up.
	PageUp key.Binding

	// PageDown moves a page down.
	PageDown key.Binding

	// EnterChat switches from search to chat.
	EnterChat key.Binding

	// BrowseCitations lists the references of the latest answer.
	BrowseCitations key.Binding

	// Copy copies the selected line to the clipboard.
	Copy key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		EnterChat: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "chat"),
		),
		BrowseCitations: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("alt+c", "citations"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
	}
}

// HelpFor returns the bindings worth showing in the status bar for mode.
func (k *KeyMap) HelpFor(mode domain.Mode) []key.Binding {
	switch mode {
	case domain.ModeChat:
		send := k.Activate
		send.SetHelp("enter", "send")
		return []key.Binding{send, k.BrowseCitations, k.Cancel, k.Back}
	case domain.ModeCitations:
		return []key.Binding{k.Activate, k.Copy, k.Back}
	default:
		return []key.Binding{k.Activate, k.Copy, k.EnterChat, k.Back}
	}
}

// FullHelp returns the full list of keybindings.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Activate, k.Copy, k.EnterChat, k.BrowseCitations},
		{k.Back, k.Cancel, k.Quit, k.ForceQuit},
	}
}

// Inputs translates a key press in mode into session inputs. A paste
// yields one input per rune; unbound keys yield none.
func (k *KeyMap) Inputs(mode domain.Mode, msg tea.KeyMsg) []domain.Input {
	s := msg.String()

	bound := []struct {
		binding key.Binding
		kind    domain.InputKind
	}{
		{k.ForceQuit, domain.InputForceQuit},
		{k.Quit, domain.InputQuit},
		{k.Copy, domain.InputCopy},
		{k.Cancel, domain.InputCancel},
		{k.Back, domain.InputBack},
		{k.Activate, domain.InputActivate},
		{k.Backspace, domain.InputBackspace},
		{k.Up, domain.InputUp},
		{k.Down, domain.InputDown},
		{k.PageUp, domain.InputPageUp},
		{k.PageDown, domain.InputPageDown},
		{k.BrowseCitations, domain.InputBrowseCitations},
	}
	for _, b := range bound {
		if Matches(s, b.binding) {
			return []domain.Input{domain.Key(b.kind)}
		}
	}

	//nolint:exhaustive // only text-producing key types are handled
	switch msg.Type {
	case tea.KeySpace:
		return []domain.Input{domain.Char(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		if mode == domain.ModeSearch && !msg.Paste && Matches(s, k.EnterChat) {
			return []domain.Input{domain.Key(domain.InputEnterChat)}
		}
		inputs := make([]domain.Input, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r == '\n' || r == '\r' || r == '\t' {
				r = ' '
			}
			inputs = append(inputs, domain.Char(r))
		}
		return inputs
	}
	return nil
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
