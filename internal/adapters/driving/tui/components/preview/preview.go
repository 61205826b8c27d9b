// Package preview renders the document window around a selected line.
package preview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/domain"
)

// Pane shows a domain.PreviewWindow with a line-number gutter and the
// target line marked.
type Pane struct {
	styles *styles.Styles
	width  int
	height int
}

// NewPane creates a preview pane.
func NewPane(s *styles.Styles) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Pane{styles: s, width: 40, height: 10}
}

// LinesAvailable is the window height to request for this pane.
func (p *Pane) LinesAvailable() int {
	return max(p.height-1, 0)
}

// View renders w.
func (p *Pane) View(w domain.PreviewWindow) string {
	if w.Empty() {
		return p.styles.Muted.Render("No preview")
	}

	lines := make([]string, 0, len(w.Lines)+1)
	lines = append(lines, p.styles.Location.Render(runewidth.Truncate(w.Path, p.width, "…")))

	digits := len(strconv.Itoa(w.End))
	for _, l := range w.Lines {
		gutter := fmt.Sprintf("%*d │ ", digits, l.Number)
		room := max(p.width-runewidth.StringWidth(gutter), 1)
		text := runewidth.Truncate(strings.ReplaceAll(l.Text, "\t", "    "), room, "…")

		if l.Number == w.Target {
			lines = append(lines, p.styles.Target.Render(gutter+runewidth.FillRight(text, room)))
			continue
		}
		lines = append(lines, p.styles.LineNumber.Render(gutter)+p.styles.Normal.Render(text))
	}

	return strings.Join(lines, "\n")
}

// SetDimensions sets the pane size.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}

// Width returns the current width.
func (p *Pane) Width() int {
	return p.width
}

// Height returns the current height.
func (p *Pane) Height() int {
	return p.height
}
