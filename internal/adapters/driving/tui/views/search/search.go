// Package search provides the search mode view for the TUI.
package search

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/preview"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Layout constants.
const (
	inputHeight     = 3
	listShare       = 55 // percent of the width given to the result list
	minPreviewWidth = 24
)

// View renders the query input, the ranked matches and a preview of the
// selected line. All state is read from the session.
type View struct {
	styles  *styles.Styles
	session driving.SessionService

	input   *input.Field
	list    *list.ResultList
	preview *preview.Pane

	width  int
	height int
}

// NewView creates a new search view.
func NewView(s *styles.Styles, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:  s,
		session: session,
		input:   input.NewField(s, "Search: ", "type to search, ? to chat"),
		list:    list.NewResultList(s, "Matches"),
		preview: preview.NewPane(s),
	}
	v.SetDimensions(80, 24)
	return v
}

// View renders the search view.
func (v *View) View() string {
	v.input.SetValue(v.session.Query())

	matches := v.session.Matches()
	rows := make([]list.Row, len(matches))
	for i, m := range matches {
		rows[i] = list.Row{
			Label:     fmt.Sprintf("%s:%d", m.Path, m.Line),
			Text:      m.Text,
			Positions: m.Positions,
		}
	}
	if v.session.Query() == "" {
		v.list.SetEmptyText("Type to search every line of the corpus.")
	} else {
		v.list.SetEmptyText("No matches")
	}
	v.list.SetRows(rows, v.session.Selected())

	body := v.list.View()
	if v.preview.Width() >= minPreviewWidth {
		left := lipgloss.NewStyle().Width(v.list.Width()).Height(v.list.Height()).Render(body)
		right := v.preview.View(v.session.Preview(v.preview.LinesAvailable()))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, v.input.View(), body)
}

// SetDimensions sets the view size. The list and preview share the body
// side by side; the preview is dropped on narrow terminals.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)

	bodyHeight := max(height-inputHeight, 1)
	listWidth := width * listShare / 100
	previewWidth := width - listWidth - 1
	if previewWidth < minPreviewWidth {
		listWidth = width
		previewWidth = 0
	}
	v.list.SetDimensions(listWidth, bodyHeight)
	v.preview.SetDimensions(previewWidth, bodyHeight)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}
