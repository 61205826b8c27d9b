package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/domain"
)

var searchDocs = map[string]string{
	"install.md": "# Install\n\nRun go install to build finder.\n",
	"notes.md":   "gamma ray\nnothing here\n",
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	resetState(t)

	_, err := execute(t, "", "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_PrintsLocations(t *testing.T) {
	useCorpus(t, searchDocs)

	out, err := execute(t, "", "search", "gam")

	require.NoError(t, err)
	assert.Equal(t, "notes.md:1 gamma ray\n", out)
}

func TestSearchCmd_NoMatches(t *testing.T) {
	useCorpus(t, searchDocs)

	out, err := execute(t, "", "search", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No matches.")
}

func TestSearchCmd_Limit(t *testing.T) {
	useCorpus(t, map[string]string{"a.md": "ab\nab\nab\nab\n"})

	out, err := execute(t, "", "search", "--limit", "2", "ab")

	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("\n")))
}

func TestSearchCmd_JSON(t *testing.T) {
	useCorpus(t, searchDocs)

	out, err := execute(t, "", "search", "--json", "install")

	require.NoError(t, err)
	var results []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "install.md", r.Path)
		assert.Len(t, r.Positions, len("install"))
	}
}

func TestOutputSearchLines_Color(t *testing.T) {
	var buf bytes.Buffer
	matches := []domain.Match{{Path: "a.md", Line: 7, Text: "abc", Positions: []int{1}}}

	outputSearchLines(&buf, matches, true)

	assert.Contains(t, buf.String(), "\x1b[36ma.md:7\x1b[0m")
	assert.Contains(t, buf.String(), "a\x1b[33;1mb\x1b[0mc")
}

func TestHighlight(t *testing.T) {
	hl := color.New(color.FgYellow)
	hl.DisableColor()

	tests := []struct {
		name      string
		text      string
		positions []int
	}{
		{name: "no positions", text: "plain"},
		{name: "ascii", text: "abc", positions: []int{0, 2}},
		{name: "multibyte runes", text: "héllo wörld", positions: []int{1, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, highlight(tt.text, tt.positions, hl))
		})
	}
}

func TestColorEnabled_NotATerminal(t *testing.T) {
	assert.False(t, colorEnabled(new(bytes.Buffer)))
}
