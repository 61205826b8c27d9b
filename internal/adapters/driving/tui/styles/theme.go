// Package styles provides colour palettes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// Palette is the set of colours the styles are built from.
type Palette struct {
	Accent lipgloss.Color
	Info   lipgloss.Color
	Text   lipgloss.Color
	Dim    lipgloss.Color
	Rule   lipgloss.Color
	Bar    lipgloss.Color
	Warn   lipgloss.Color
	Fail   lipgloss.Color

	// Match colours the characters a query matched.
	Match lipgloss.Color

	// Dark reports whether the palette targets a dark terminal.
	Dark bool
}

// DarkPalette is used on dark terminals and when detection is not possible.
func DarkPalette() *Palette {
	return &Palette{
		Accent: lipgloss.Color("#7C3AED"),
		Info:   lipgloss.Color("#06B6D4"),
		Text:   lipgloss.Color("#CDD6F4"),
		Dim:    lipgloss.Color("#6C7086"),
		Rule:   lipgloss.Color("#45475A"),
		Bar:    lipgloss.Color("#181825"),
		Warn:   lipgloss.Color("#F9E2AF"),
		Fail:   lipgloss.Color("#F38BA8"),
		Match:  lipgloss.Color("#FAB387"),
		Dark:   true,
	}
}

// LightPalette is used on light terminals.
func LightPalette() *Palette {
	return &Palette{
		Accent: lipgloss.Color("#6D28D9"),
		Info:   lipgloss.Color("#0E7490"),
		Text:   lipgloss.Color("#1E1E2E"),
		Dim:    lipgloss.Color("#7C7F93"),
		Rule:   lipgloss.Color("#CCD0DA"),
		Bar:    lipgloss.Color("#E6E9EF"),
		Warn:   lipgloss.Color("#DF8E1D"),
		Fail:   lipgloss.Color("#D20F39"),
		Match:  lipgloss.Color("#FE640B"),
	}
}

// PaletteFor picks the palette for a terminal background.
func PaletteFor(dark bool) *Palette {
	if dark {
		return DarkPalette()
	}
	return LightPalette()
}

// Styles contains the lipgloss styles shared by views and components.
type Styles struct {
	palette *Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style

	// InputField frames the query and chat inputs.
	InputField lipgloss.Style

	StatusBar lipgloss.Style

	// Highlight marks matched characters.
	Highlight lipgloss.Style

	// Location renders path:line references.
	Location lipgloss.Style

	// LineNumber and Target render the preview gutter and its centre line.
	LineNumber lipgloss.Style
	Target     lipgloss.Style

	UserTurn      lipgloss.Style
	AssistantTurn lipgloss.Style

	modes map[domain.Mode]lipgloss.Style
}

// NewStyles builds styles from a palette. A nil palette means dark.
func NewStyles(p *Palette) *Styles {
	if p == nil {
		p = DarkPalette()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		palette: p,

		Title:    fg(p.Accent).Bold(true),
		Subtitle: fg(p.Info).Bold(true),
		Normal:   fg(p.Text),
		Muted:    fg(p.Dim),
		Selected: fg(p.Text).Background(p.Accent).Bold(true),
		Error:    fg(p.Fail),
		Warning:  fg(p.Warn),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Rule).
			Padding(0, 1),

		StatusBar: fg(p.Dim).Background(p.Bar).Padding(0, 1),

		Highlight:  fg(p.Match).Bold(true),
		Location:   fg(p.Info),
		LineNumber: fg(p.Dim),
		Target:     fg(p.Text).Background(p.Rule).Bold(true),

		UserTurn:      fg(p.Info).Bold(true),
		AssistantTurn: fg(p.Accent).Bold(true),

		modes: map[domain.Mode]lipgloss.Style{
			domain.ModeSearch:    fg(p.Info).Bold(true),
			domain.ModeChat:      fg(p.Accent).Bold(true),
			domain.ModeCitations: fg(p.Match).Bold(true),
		},
	}
}

// DefaultStyles returns styles on the dark palette.
func DefaultStyles() *Styles {
	return NewStyles(DarkPalette())
}

// AdaptiveStyles returns styles for the terminal's background colour.
func AdaptiveStyles() *Styles {
	return NewStyles(PaletteFor(lipgloss.HasDarkBackground()))
}

// Palette returns the colours these styles were built from.
func (s *Styles) Palette() *Palette {
	return s.palette
}

// Mode returns the badge style for a mode.
func (s *Styles) Mode(m domain.Mode) lipgloss.Style {
	if st, ok := s.modes[m]; ok {
		return st
	}
	return s.Muted
}

// MarkdownStyle is the glamour style matching the palette.
func (s *Styles) MarkdownStyle() string {
	if s.palette.Dark {
		return "dark"
	}
	return "light"
}
