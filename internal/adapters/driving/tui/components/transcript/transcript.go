// Package transcript renders the chat log in a scrollable viewport.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/logger"
)

const streamingCursor = "▌"

// Transcript shows chat turns bottom-anchored. Finished assistant turns
// are rendered as markdown; streaming text is shown as typed.
type Transcript struct {
	styles   *styles.Styles
	viewport viewport.Model

	markdownStyle string
	renderer      *glamour.TermRenderer
	rendered      map[string]string

	width  int
	height int
}

// NewTranscript creates a transcript rendering markdown with the named
// glamour style, or the one matching the styles' palette when empty.
func NewTranscript(s *styles.Styles, markdownStyle string) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if markdownStyle == "" {
		markdownStyle = s.MarkdownStyle()
	}

	t := &Transcript{
		styles:        s,
		viewport:      viewport.New(80, 20),
		markdownStyle: markdownStyle,
		rendered:      make(map[string]string),
	}
	t.SetDimensions(80, 20)
	return t
}

// SetDimensions sets the transcript size. A width change invalidates
// rendered markdown.
func (t *Transcript) SetDimensions(width, height int) {
	if width != t.width {
		t.renderer = nil
		t.rendered = make(map[string]string)
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
}

// SetTurns renders turns scrolled up by scroll lines from the bottom.
func (t *Transcript) SetTurns(turns []domain.Turn, scroll int) {
	if len(turns) == 0 {
		t.viewport.SetContent(t.styles.Muted.Render(
			"Ask a question about your notes. Answers cite lines as [path:line]."))
		t.viewport.SetYOffset(0)
		return
	}

	blocks := make([]string, 0, len(turns))
	for i := range turns {
		blocks = append(blocks, t.renderTurn(&turns[i]))
	}
	content := strings.Join(blocks, "\n\n")
	t.viewport.SetContent(content)

	total := strings.Count(content, "\n") + 1
	t.viewport.SetYOffset(max(total-t.height-scroll, 0))
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// AtBottom returns true if the newest text is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

func (t *Transcript) renderTurn(turn *domain.Turn) string {
	wrap := lipgloss.NewStyle().Width(max(t.width, 1))

	if turn.Role == domain.RoleUser {
		return t.styles.UserTurn.Render("You") + "\n" + wrap.Render(turn.Text)
	}

	var b strings.Builder
	b.WriteString(t.styles.AssistantTurn.Render("Assistant"))
	b.WriteString("\n")

	switch {
	case !turn.Final:
		b.WriteString(wrap.Render(turn.Text + streamingCursor))
	case turn.Text != "" && !turn.Failed() && !turn.Canceled:
		b.WriteString(t.markdown(turn))
	case turn.Text != "":
		b.WriteString(wrap.Render(turn.Text))
	}

	if turn.Canceled {
		b.WriteString("\n" + t.styles.Muted.Render("(cancelled)"))
	}
	if turn.Failed() {
		b.WriteString("\n" + t.styles.Error.Render("error: "+turn.Err))
	}
	if n := len(turn.Citations); n > 0 {
		noun := "citations"
		if n == 1 {
			noun = "citation"
		}
		b.WriteString("\n" + t.styles.Muted.Render(fmt.Sprintf("%d %s · alt+c to browse", n, noun)))
	}

	return b.String()
}

// markdown renders a finished answer once per width.
func (t *Transcript) markdown(turn *domain.Turn) string {
	if out, ok := t.rendered[turn.ID]; ok {
		return out
	}

	out := turn.Text
	if r := t.markdownRenderer(); r != nil {
		md, err := r.Render(turn.Text)
		if err != nil {
			logger.Debug("Rendering turn %s as markdown: %v", turn.ID, err)
		} else {
			out = strings.Trim(md, "\n")
		}
	}

	t.rendered[turn.ID] = out
	return out
}

func (t *Transcript) markdownRenderer() *glamour.TermRenderer {
	if t.renderer != nil {
		return t.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.markdownStyle),
		glamour.WithWordWrap(max(t.width-4, 20)),
	)
	if err != nil {
		logger.Warn("Markdown renderer unavailable: %v", err)
		return nil
	}
	t.renderer = r
	return r
}
