package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/domain"
)

func TestPreviewWindow(t *testing.T) {
	doc := domain.NewDocument("a.md", numberedLines(100))

	tests := []struct {
		name   string
		target int
		height int
		start  int
		end    int
		want   int
	}{
		{"near top clamps to first line", 5, 10, 1, 10, 5},
		{"centred", 50, 10, 45, 54, 50},
		{"near bottom clamps to last line", 98, 10, 91, 100, 98},
		{"last line", 100, 10, 91, 100, 100},
		{"first line", 1, 10, 1, 10, 1},
		{"height one", 42, 1, 42, 42, 42},
		{"target past end is clamped", 500, 10, 91, 100, 100},
		{"target before start is clamped", -3, 10, 1, 10, 1},
		{"taller than document", 7, 300, 1, 100, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PreviewWindow(doc, tt.target, tt.height)

			assert.Equal(t, "a.md", w.Path)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
			assert.Equal(t, tt.want, w.Target)
			require.Len(t, w.Lines, tt.end-tt.start+1)
			assert.Equal(t, tt.start, w.Lines[0].Number)
			assert.Equal(t, tt.end, w.Lines[len(w.Lines)-1].Number)
			assert.LessOrEqual(t, w.Start, w.Target)
			assert.GreaterOrEqual(t, w.End, w.Target)
		})
	}
}

func TestPreviewWindow_Empty(t *testing.T) {
	doc := domain.NewDocument("a.md", numberedLines(10))

	assert.True(t, PreviewWindow(doc, 3, 0).Empty())
	assert.True(t, PreviewWindow(doc, 3, -1).Empty())
	assert.True(t, PreviewWindow(domain.NewDocument("empty.md", ""), 1, 10).Empty())
}
