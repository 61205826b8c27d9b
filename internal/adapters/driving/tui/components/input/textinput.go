// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
)

// Field renders a labelled single-line input. The text it shows is owned
// by the session; the field only mirrors it.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates a new input field.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	f := &Field{
		textinput: ti,
		styles:    s,
		label:     label,
	}
	f.SetWidth(50)
	return f
}

// View renders the field.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label)
	input := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// SetValue mirrors value with the cursor at its end.
func (f *Field) SetValue(value string) {
	if value == f.textinput.Value() {
		return
	}
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
}

// Value returns the mirrored value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetPlaceholder changes the text shown while the value is empty.
func (f *Field) SetPlaceholder(placeholder string) {
	f.textinput.Placeholder = placeholder
}

// SetWidth sets the total width of the field, label included.
func (f *Field) SetWidth(width int) {
	f.width = width
	// Account for label, border and padding
	inputWidth := width - lipgloss.Width(f.label) - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}
