package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finder/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Equal(t, defaults.LLM.MaxTokens, settings.LLM.MaxTokens)
	assert.Equal(t, defaults.Corpus, settings.Corpus)
	assert.Empty(t, settings.Editor.Command)
	assert.False(t, settings.Editor.ExitOnOpen)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyLLMProvider:         "ollama",
		KeyLLMBaseURL:          "http://gpu-box:11434",
		KeyCorpusRoot:          "/notes",
		KeyCorpusExtensions:    []any{".md", ".markdown"},
		KeyCorpusIncludeHidden: false,
		KeyCorpusGitignore:     false,
		KeyCorpusMaxFileBytes:  int64(2048),
		KeyEditorCommand:       "code -g {path}:{line}",
		KeyEditorExitOnOpen:    true,
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model, "model defaults per provider")
	assert.Equal(t, "http://gpu-box:11434", settings.LLM.BaseURL)
	assert.Equal(t, "/notes", settings.Corpus.Root)
	assert.Equal(t, []string{".md", ".markdown"}, settings.Corpus.Extensions)
	assert.False(t, settings.Corpus.IncludeHidden, "stored false beats default true")
	assert.False(t, settings.Corpus.RespectGitignore)
	assert.Equal(t, int64(2048), settings.Corpus.MaxFileBytes)
	assert.Equal(t, "code -g {path}:{line}", settings.Editor.Command)
	assert.True(t, settings.Editor.ExitOnOpen)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyLLMProvider: "invalid_provider"})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenRouter, settings.LLM.Provider)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.Model = "claude-test"
	settings.LLM.APIKey = "sk-test"
	settings.Corpus.Root = "/docs"
	settings.Editor.ExitOnOpen = true

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_EmptyAPIKeyNotStored(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	_, exists := store.Get(KeyLLMAPIKey)
	assert.False(t, exists)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyLLMBaseURL: "http://old"})
	service := NewSettingsService(store)

	err := service.SetLLMProvider(domain.AIProviderOpenAI, "", "sk-openai")

	require.NoError(t, err)
	assert.Equal(t, "openai", store.GetString(KeyLLMProvider))
	assert.Equal(t, "gpt-4o-mini", store.GetString(KeyLLMModel))
	assert.Equal(t, "sk-openai", store.GetString(KeyLLMAPIKey))
	_, exists := store.Get(KeyLLMBaseURL)
	assert.False(t, exists, "base URL is reset with the provider")
}

func TestSettingsService_SetLLMProvider_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetLLMProvider("bogus", "", "")

	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
}

func TestSettingsService_SetValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  any
	}{
		{"string", KeyLLMModel, "gpt-4o", "gpt-4o"},
		{"int", KeyLLMMaxTokens, " 512 ", 512},
		{"bool", KeyEditorExitOnOpen, "true", true},
		{"list", KeyCorpusExtensions, ".md, .txt,,", []string{".md", ".txt"}},
		{"provider", KeyLLMProvider, "anthropic", "anthropic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			require.NoError(t, service.SetValue(tt.key, tt.value))

			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetValue_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"unknown key", "search.mode", "hybrid", domain.ErrInvalidInput},
		{"bad int", KeyLLMMaxTokens, "lots", domain.ErrInvalidInput},
		{"negative int", KeyCorpusMaxFileBytes, "-1", domain.ErrInvalidInput},
		{"bad bool", KeyCorpusIncludeHidden, "sometimes", domain.ErrInvalidInput},
		{"bad provider", KeyLLMProvider, "bogus", domain.ErrUnsupportedProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.SetValue(tt.key, tt.value)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Keys())
		})
	}
}

func TestSettingsService_UnsetValue(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyCorpusRoot: "/notes"})
	service := NewSettingsService(store)

	require.NoError(t, service.UnsetValue(KeyCorpusRoot))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCorpusRoot, settings.Corpus.Root)

	assert.ErrorIs(t, service.UnsetValue("nope"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Equal(t, KeyLLMProvider, keys[0])
	assert.Contains(t, keys, KeyEditorExitOnOpen)
	assert.Len(t, keys, len(settingKinds))
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{"defaults", nil, nil},
		{"bad provider", map[string]any{KeyLLMProvider: "bogus"}, domain.ErrUnsupportedProvider},
		{"empty extensions fall back", map[string]any{KeyCorpusExtensions: []string{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(tt.values))

			err := service.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
