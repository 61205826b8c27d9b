package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "finder")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("llm.max_tokens", 1024))
	require.NoError(t, store.Set("editor.exit_on_open", true))
	require.NoError(t, store.Set("corpus.extensions", []string{".md", ".txt"}))

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, 1024, store.GetInt("llm.max_tokens"))
	assert.True(t, store.GetBool("editor.exit_on_open"))
	assert.Equal(t, []string{".md", ".txt"}, store.GetStringSlice("corpus.extensions"))

	assert.Empty(t, store.GetString("llm.max_tokens"))
	assert.Zero(t, store.GetInt("llm.provider"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("llm.provider"))
}

func TestConfigStore_PersistsAsTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("corpus.root", "/notes"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[corpus]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reloaded.GetString("llm.provider"))
	assert.Equal(t, "/notes", reloaded.GetString("corpus.root"))
}

func TestConfigStore_LoadsNestedFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[llm]
provider = "openai"
max_tokens = 2048

[corpus]
extensions = [".md", ".rst"]
include_hidden = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 2048, store.GetInt("llm.max_tokens"))
	assert.Equal(t, []string{".md", ".rst"}, store.GetStringSlice("corpus.extensions"))
	assert.True(t, store.GetBool("corpus.include_hidden"))
	assert.Equal(t, []string{
		"corpus.extensions",
		"corpus.include_hidden",
		"llm.max_tokens",
		"llm.provider",
	}, store.Keys())
}

func TestConfigStore_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_Unset(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o"))
	require.NoError(t, store.Unset("llm.model"))

	_, ok := store.Get("llm.model")
	assert.False(t, ok)

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok = reloaded.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"c.d.e": "x",
		"c.f":   true,
	})

	assert.Equal(t, 1, nested["a"])
	c, ok := nested["c"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, c["f"])
	d, ok := c["d"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "x", d["e"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"llm": map[string]any{"provider": "ollama"},
		"top": "v",
	}, "")

	assert.Equal(t, map[string]any{"llm.provider": "ollama", "top": "v"}, flat)
}
