// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
)

const ellipsis = "…"

// Row is one line of the list.
type Row struct {
	// Label is shown before the text, e.g. a path:line reference.
	Label string

	// Text is the row body.
	Text string

	// Positions are rune indices into Text to highlight, ascending.
	Positions []int
}

// ResultList displays rows in a scrolling window that keeps the
// selection visible. Selection is owned by the caller.
type ResultList struct {
	rows      []Row
	selected  int
	title     string
	emptyText string
	styles    *styles.Styles
	width     int
	height    int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles, title string) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		selected:  -1,
		title:     title,
		emptyText: "No results",
		styles:    s,
		width:     80,
		height:    10,
	}
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render(r.emptyText)
	}

	header := r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.title, len(r.rows)))
	lines := []string{header, ""}

	visible := r.height - len(lines)
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.rows))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i == r.selected, &r.rows[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderRow(selected bool, row *Row) string {
	base := r.styles.Normal
	hl := r.styles.Highlight
	label := r.styles.Location
	indicator := "  "
	if selected {
		base = r.styles.Selected
		hl = hl.Background(r.styles.Palette().Accent)
		label = label.Background(r.styles.Palette().Accent)
		indicator = "> "
	}

	prefix := indicator
	if row.Label != "" {
		prefix += row.Label + " "
	}
	room := r.width - runewidth.StringWidth(prefix)
	if room < 1 {
		room = 1
	}

	return base.Render(indicator) + label.Render(strings.TrimPrefix(prefix, indicator)) +
		Highlight(row.Text, row.Positions, room, base, hl)
}

// Highlight renders text within width cells, styling the runes at
// positions with hl and the rest with base. Leading whitespace is dropped
// and tabs are shown as spaces. Text that does not fit ends in an
// ellipsis.
func Highlight(text string, positions []int, width int, base, hl lipgloss.Style) string {
	runes := []rune(text)
	offset := 0
	for offset < len(runes) && unicode.IsSpace(runes[offset]) {
		offset++
	}
	runes = runes[offset:]
	for i, c := range runes {
		if c == '\t' {
			runes[i] = ' '
		}
	}

	truncated := runewidth.StringWidth(string(runes)) > width
	budget := width
	if truncated {
		budget = width - runewidth.StringWidth(ellipsis)
	}

	var (
		out     strings.Builder
		segment []rune
		marked  bool
		used    int
		next    int
	)
	flush := func() {
		if len(segment) == 0 {
			return
		}
		if marked {
			out.WriteString(hl.Render(string(segment)))
		} else {
			out.WriteString(base.Render(string(segment)))
		}
		segment = segment[:0]
	}

	for i, c := range runes {
		w := runewidth.RuneWidth(c)
		if used+w > budget {
			break
		}
		used += w

		for next < len(positions) && positions[next] < i+offset {
			next++
		}
		isMatch := next < len(positions) && positions[next] == i+offset
		if isMatch != marked {
			flush()
			marked = isMatch
		}
		segment = append(segment, c)
	}
	flush()

	if truncated {
		out.WriteString(base.Render(ellipsis))
	}
	return out.String()
}

// SetRows replaces the rows and the selected index (-1 for none).
func (r *ResultList) SetRows(rows []Row, selected int) {
	r.rows = rows
	r.selected = selected
}

// Rows returns the current rows.
func (r *ResultList) Rows() []Row {
	return r.rows
}

// Selected returns the index of the selected row, or -1.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetEmptyText sets the text shown when there are no rows.
func (r *ResultList) SetEmptyText(text string) {
	r.emptyText = text
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of rows.
func (r *ResultList) Count() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.rows) == 0
}
