package driving

import "github.com/custodia-labs/finder/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the chat provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetValue parses and stores a single setting by key.
	SetValue(key, value string) error

	// UnsetValue restores a single setting to its default.
	UnsetValue(key string) error

	// Keys lists every recognised setting key in display order.
	Keys() []string

	// Validate checks the stored settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
