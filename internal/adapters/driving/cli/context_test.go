package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCmd_PrintsCorpus(t *testing.T) {
	useCorpus(t, map[string]string{"a.md": "first\nsecond\n"})

	out, err := execute(t, "", "context")

	require.NoError(t, err)
	assert.Equal(t, "\n--- a.md ---\n[a.md:1] first\n[a.md:2] second\n", out)
}

func TestContextCmd_Stats(t *testing.T) {
	useCorpus(t, map[string]string{"a.md": "first\nsecond\n", "b.md": "third\n"})

	out, err := execute(t, "", "context", "--stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Root: /notes")
	assert.Contains(t, out, "Documents: 2")
	assert.Contains(t, out, "Lines: 3")
}
