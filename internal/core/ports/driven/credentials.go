package driven

import "github.com/custodia-labs/finder/internal/core/domain"

// CredentialSource discovers API keys for LLM providers outside the
// configuration file, such as environment variables and .env files.
type CredentialSource interface {
	// APIKey returns the key for provider and whether one was found.
	APIKey(provider domain.AIProvider) (string, bool)
}
