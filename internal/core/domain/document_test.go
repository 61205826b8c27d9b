package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines []string
	}{
		{"empty", "", nil},
		{"single line", "hello", []string{"hello"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"windows endings", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument("notes.md", tt.text)
			require.Equal(t, len(tt.lines), doc.LineCount())
			for i, want := range tt.lines {
				assert.Equal(t, i+1, doc.Lines[i].Number)
				assert.Equal(t, want, doc.Lines[i].Text)
			}
		})
	}
}

func TestDocument_Line(t *testing.T) {
	doc := NewDocument("notes.md", "one\ntwo\nthree")

	text, ok := doc.Line(2)
	assert.True(t, ok)
	assert.Equal(t, "two", text)

	_, ok = doc.Line(0)
	assert.False(t, ok)

	_, ok = doc.Line(4)
	assert.False(t, ok)
}

func TestMatch_Location(t *testing.T) {
	m := Match{Path: "a.md", Line: 7}
	assert.Equal(t, Location{Path: "a.md", Line: 7}, m.Location())
}

func TestCitation_String(t *testing.T) {
	c := Citation{Path: "docs/guide.md", Line: 12, Label: "guide.md:12"}
	assert.Equal(t, "docs/guide.md:12", c.String())
	assert.Equal(t, Location{Path: "docs/guide.md", Line: 12}, c.Location())
}

func TestTurn_Failed(t *testing.T) {
	assert.False(t, Turn{Text: "ok"}.Failed())
	assert.True(t, Turn{Err: "connection reset"}.Failed())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "search", ModeSearch.String())
	assert.Equal(t, "chat", ModeChat.String())
	assert.Equal(t, "citations", ModeCitations.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestInputConstructors(t *testing.T) {
	assert.Equal(t, Input{Kind: InputChar, Char: 'x'}, Char('x'))
	assert.Equal(t, Input{Kind: InputBack}, Key(InputBack))
}

func TestPreviewWindow_Empty(t *testing.T) {
	assert.True(t, PreviewWindow{}.Empty())
	assert.False(t, PreviewWindow{Lines: []Line{{Number: 1}}}.Empty())
}
