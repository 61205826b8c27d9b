// Package citations provides the citations mode view for the TUI.
package citations

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/preview"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

const (
	inputHeight     = 3
	listShare       = 40
	minPreviewWidth = 24
)

// View lists the references of the latest answer under a filter, with a
// preview of the selected one.
type View struct {
	styles  *styles.Styles
	session driving.SessionService

	input   *input.Field
	list    *list.ResultList
	preview *preview.Pane

	width  int
	height int
}

// NewView creates a new citations view.
func NewView(s *styles.Styles, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:  s,
		session: session,
		input:   input.NewField(s, "Filter: ", "filter citations"),
		list:    list.NewResultList(s, "Citations"),
		preview: preview.NewPane(s),
	}
	v.list.SetEmptyText("No citation matches the filter")
	v.SetDimensions(80, 24)
	return v
}

// View renders the citations view.
func (v *View) View() string {
	v.input.SetValue(v.session.CitationQuery())

	cites := v.session.Citations()
	rows := make([]list.Row, len(cites))
	for i, c := range cites {
		rows[i] = list.Row{
			Label:     fmt.Sprintf("%d.", c.Index+1),
			Text:      c.Label,
			Positions: c.Positions,
		}
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

// SetDimensions sets the view size.
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
