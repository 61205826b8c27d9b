// Package ai provides factory functions for creating chat transports.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/finder/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/finder/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/finder/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/finder/internal/adapters/driven/llm/resilient"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// openRouterHeaders attribute requests to finder on OpenRouter.
var openRouterHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/custodia-labs/finder",
	"X-Title":      "finder",
}

// pinger is implemented by streamers that can check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// ResolveAPIKey fills settings.APIKey from creds when it is empty.
func ResolveAPIKey(settings domain.LLMSettings, creds driven.CredentialSource) domain.LLMSettings {
	if settings.APIKey != "" || creds == nil || !settings.Provider.RequiresAPIKey() {
		return settings
	}
	if key, ok := creds.APIKey(settings.Provider); ok {
		settings.APIKey = key
	}
	return settings
}

// CreateChatStreamer creates the chat transport for settings, wrapped in a
// circuit breaker. Missing credentials are reported with
// domain.ErrCredentialMissing; callers treat that as chat being unavailable.
func CreateChatStreamer(settings domain.LLMSettings) (driven.ChatStreamer, error) {
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set %s or run 'finder settings api-key'",
			domain.ErrCredentialMissing, settings.Provider.APIKeyEnv())
	}

	var (
		inner driven.ChatStreamer
		err   error
	)
	switch settings.Provider {
	case domain.AIProviderOpenRouter:
		inner, err = createOpenAICompatible(settings, openaillm.DefaultOpenRouterBaseURL, openRouterHeaders)
	case domain.AIProviderOpenAI:
		inner, err = createOpenAICompatible(settings, openaillm.DefaultBaseURL, nil)
	case domain.AIProviderAnthropic:
		inner, err = anthropicllm.NewStreamer(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderOllama:
		inner = ollamallm.NewStreamer(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Chat transport: %s model %s", settings.Provider, inner.ModelName())
	return resilient.New(inner, resilient.Config{}), nil
}

// ValidateLLMConfig creates a streamer for settings and pings it.
// This is intended for 'finder settings check' to validate credentials.
func ValidateLLMConfig(ctx context.Context, settings domain.LLMSettings) error {
	svc, err := CreateChatStreamer(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	p, ok := svc.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

func createOpenAICompatible(
	settings domain.LLMSettings,
	defaultBaseURL string,
	headers map[string]string,
) (driven.ChatStreamer, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openaillm.NewStreamer(openaillm.Config{
		Name:    settings.Provider.String(),
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
		Model:   settings.Model,
		Headers: headers,
	})
}
