package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/domain"
)

func window() domain.PreviewWindow {
	return domain.PreviewWindow{
		Path:   "docs/guide.md",
		Start:  9,
		End:    11,
		Target: 10,
		Lines: []domain.Line{
			{Number: 9, Text: "before"},
			{Number: 10, Text: "the target line"},
			{Number: 11, Text: "after"},
		},
	}
}

func TestNewPane(t *testing.T) {
	p := NewPane(nil)

	require.NotNil(t, p)
	assert.NotNil(t, p.styles)
}

func TestPane_ViewEmpty(t *testing.T) {
	p := NewPane(nil)

	assert.Contains(t, p.View(domain.PreviewWindow{}), "No preview")
}

func TestPane_View(t *testing.T) {
	p := NewPane(nil)
	p.SetDimensions(40, 10)

	lines := strings.Split(p.View(window()), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "docs/guide.md", lines[0])
	assert.Equal(t, " 9 │ before", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "10 │ the target line"))
	assert.Equal(t, 40, len([]rune(lines[2])))
	assert.Equal(t, "11 │ after", lines[3])
}

func TestPane_ViewTruncatesLongLines(t *testing.T) {
	p := NewPane(nil)
	p.SetDimensions(12, 10)
	w := window()
	w.Lines[0].Text = "a very long line that cannot fit"

	lines := strings.Split(p.View(w), "\n")

	assert.Equal(t, " 9 │ a very…", lines[1])
}

func TestPane_LinesAvailable(t *testing.T) {
	p := NewPane(nil)

	p.SetDimensions(40, 12)
	assert.Equal(t, 11, p.LinesAvailable())

	p.SetDimensions(40, 0)
	assert.Equal(t, 0, p.LinesAvailable())
}
