package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenRouter is the OpenRouter gateway (OpenAI-compatible).
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenRouter, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenRouter || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the conventional environment variable holding the
// provider's API key, or "" for providers without one.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenRouter:
		return "OpenRouter (cloud gateway)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey is the API key. When empty the credential source is asked.
	APIKey string

	// MaxTokens caps the length of a streamed answer.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// CorpusSettings controls which files form the corpus.
type CorpusSettings struct {
	// Root is the directory walked for documents.
	Root string

	// Extensions lists the file extensions included, with leading dot.
	Extensions []string

	// ExcludeDirs lists directory names that are never descended into.
	ExcludeDirs []string

	// IncludeHidden includes dot-files and dot-directories.
	IncludeHidden bool

	// RespectGitignore skips paths matched by .gitignore files found
	// in the walked directories.
	RespectGitignore bool

	// MaxFileBytes skips files larger than this.
	MaxFileBytes int64
}

// EditorSettings controls how a selected line is opened.
type EditorSettings struct {
	// Command is the editor command template. {path} and {line} are
	// substituted; without placeholders "+line path" is appended.
	// Empty means $VISUAL, then $EDITOR, then nvim.
	Command string

	// ExitOnOpen quits the TUI before launching the editor.
	ExitOnOpen bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds chat provider settings.
	LLM LLMSettings

	// Corpus holds corpus discovery settings.
	Corpus CorpusSettings

	// Editor holds editor launch settings.
	Editor EditorSettings
}

// Defaults for settings that have them.
const (
	DefaultLLMMaxTokens  = 4096
	DefaultMaxFileBytes  = 1 << 20
	DefaultCorpusRoot    = "."
	DefaultEditorCommand = "nvim"
)

// DefaultAppSettings returns settings with sensible defaults.
// Chat targets OpenRouter; it stays unavailable until an API key is found.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider:  AIProviderOpenRouter,
			Model:     DefaultLLMModels()[AIProviderOpenRouter],
			MaxTokens: DefaultLLMMaxTokens,
		},
		Corpus: CorpusSettings{
			Root:             DefaultCorpusRoot,
			Extensions:       []string{".md"},
			ExcludeDirs:      []string{".git", "node_modules", "vendor", "target"},
			IncludeHidden:    true,
			RespectGitignore: true,
			MaxFileBytes:     DefaultMaxFileBytes,
		},
	}
}

// AllLLMProviders returns providers that support chat.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenRouter,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenRouter: "google/gemini-3-flash-preview",
		AIProviderOllama:     "llama3.2",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
	}
}
