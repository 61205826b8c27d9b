package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider         = "llm.provider"
	KeyLLMModel            = "llm.model"
	KeyLLMBaseURL          = "llm.base_url"
	KeyLLMAPIKey           = "llm.api_key"
	KeyLLMMaxTokens        = "llm.max_tokens"
	KeyCorpusRoot          = "corpus.root"
	KeyCorpusExtensions    = "corpus.extensions"
	KeyCorpusExcludeDirs   = "corpus.exclude_dirs"
	KeyCorpusIncludeHidden = "corpus.include_hidden"
	KeyCorpusGitignore     = "corpus.gitignore"
	KeyCorpusMaxFileBytes  = "corpus.max_file_bytes"
	KeyEditorCommand       = "editor.command"
	KeyEditorExitOnOpen    = "editor.exit_on_open"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindList
)

// settingKinds lists every recognised key in display order.
var settingKinds = []struct {
	key  string
	kind valueKind
}{
	{KeyLLMProvider, kindString},
	{KeyLLMModel, kindString},
	{KeyLLMBaseURL, kindString},
	{KeyLLMAPIKey, kindString},
	{KeyLLMMaxTokens, kindInt},
	{KeyCorpusRoot, kindString},
	{KeyCorpusExtensions, kindList},
	{KeyCorpusExcludeDirs, kindList},
	{KeyCorpusIncludeHidden, kindBool},
	{KeyCorpusGitignore, kindBool},
	{KeyCorpusMaxFileBytes, kindInt},
	{KeyEditorCommand, kindString},
	{KeyEditorExitOnOpen, kindBool},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Unset or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(KeyLLMProvider, defaults.LLM.Provider)
	model := s.configStore.GetString(KeyLLMModel)
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:  provider,
			Model:     model,
			BaseURL:   s.configStore.GetString(KeyLLMBaseURL), // No default - adapters know their endpoints
			APIKey:    s.configStore.GetString(KeyLLMAPIKey),
			MaxTokens: s.getInt(KeyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Corpus: domain.CorpusSettings{
			Root:          s.getString(KeyCorpusRoot, defaults.Corpus.Root),
			Extensions:    s.getList(KeyCorpusExtensions, defaults.Corpus.Extensions),
			ExcludeDirs:   s.getList(KeyCorpusExcludeDirs, defaults.Corpus.ExcludeDirs),
			IncludeHidden:    s.getBool(KeyCorpusIncludeHidden, defaults.Corpus.IncludeHidden),
			RespectGitignore: s.getBool(KeyCorpusGitignore, defaults.Corpus.RespectGitignore),
			MaxFileBytes:     int64(s.getInt(KeyCorpusMaxFileBytes, int(defaults.Corpus.MaxFileBytes))),
		},
		Editor: domain.EditorSettings{
			Command:    s.configStore.GetString(KeyEditorCommand),
			ExitOnOpen: s.getBool(KeyEditorExitOnOpen, defaults.Editor.ExitOnOpen),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMMaxTokens, settings.LLM.MaxTokens},
		{KeyCorpusRoot, settings.Corpus.Root},
		{KeyCorpusExtensions, settings.Corpus.Extensions},
		{KeyCorpusExcludeDirs, settings.Corpus.ExcludeDirs},
		{KeyCorpusIncludeHidden, settings.Corpus.IncludeHidden},
		{KeyCorpusGitignore, settings.Corpus.RespectGitignore},
		{KeyCorpusMaxFileBytes, int(settings.Corpus.MaxFileBytes)},
		{KeyEditorCommand, settings.Editor.Command},
		{KeyEditorExitOnOpen, settings.Editor.ExitOnOpen},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only persist API key if provided
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}

	return nil
}

// SetLLMProvider configures the chat provider. An empty model selects
// the provider's default; an empty key leaves discovery to the
// credential source.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	if err := s.configStore.Set(KeyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save %s: %w", KeyLLMProvider, err)
	}
	if err := s.configStore.Set(KeyLLMModel, model); err != nil {
		return fmt.Errorf("save %s: %w", KeyLLMModel, err)
	}
	// A base URL belongs to the previous provider.
	if err := s.configStore.Unset(KeyLLMBaseURL); err != nil {
		return fmt.Errorf("reset %s: %w", KeyLLMBaseURL, err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}
	return nil
}

// SetValue parses value according to the key's type and stores it.
// Lists are comma-separated.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%s expects a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, domain.ErrInvalidInput)
		}
		parsed = b
	case kindList:
		parsed = splitList(value)
	default:
		parsed = value
	}

	if key == KeyLLMProvider && !domain.AIProvider(value).IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, value)
	}

	return s.configStore.Set(key, parsed)
}

// UnsetValue removes a stored setting.
func (s *SettingsService) UnsetValue(key string) error {
	if _, ok := kindOf(key); !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	return s.configStore.Unset(key)
}

// Keys lists every recognised setting key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKinds))
	for i, k := range settingKinds {
		keys[i] = k.key
	}
	return keys
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	if v := s.configStore.GetString(KeyLLMProvider); v != "" && !domain.AIProvider(v).IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, v)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if len(settings.Corpus.Extensions) == 0 {
		return fmt.Errorf("%s must list at least one extension: %w", KeyCorpusExtensions, domain.ErrInvalidInput)
	}
	if settings.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%s must be positive: %w", KeyLLMMaxTokens, domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func kindOf(key string) (valueKind, bool) {
	for _, k := range settingKinds {
		if k.key == key {
			return k.kind, true
		}
	}
	return kindString, false
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
