// Package env overlays FINDER_* environment variables on the settings
// loaded from the config file.
package env

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// Prefix is the environment variable prefix.
const Prefix = "FINDER"

// overlay mirrors the settings keys. Pointers distinguish unset from zero.
type overlay struct {
	LLMProvider  string `envconfig:"LLM_PROVIDER"`
	LLMModel     string `envconfig:"LLM_MODEL"`
	LLMBaseURL   string `envconfig:"LLM_BASE_URL"`
	LLMMaxTokens int    `envconfig:"LLM_MAX_TOKENS"`

	CorpusRoot          string   `envconfig:"CORPUS_ROOT"`
	CorpusExtensions    []string `envconfig:"CORPUS_EXTENSIONS"`
	CorpusExcludeDirs   []string `envconfig:"CORPUS_EXCLUDE_DIRS"`
	CorpusIncludeHidden *bool    `envconfig:"CORPUS_INCLUDE_HIDDEN"`
	CorpusGitignore     *bool    `envconfig:"CORPUS_GITIGNORE"`
	CorpusMaxFileBytes  int64    `envconfig:"CORPUS_MAX_FILE_BYTES"`

	EditorCommand    string `envconfig:"EDITOR_COMMAND"`
	EditorExitOnOpen *bool  `envconfig:"EDITOR_EXIT_ON_OPEN"`
}

// Apply overrides settings with the variables that are set.
func Apply(settings *domain.AppSettings) error {
	return ApplyPrefix(Prefix, settings)
}

// ApplyPrefix is Apply with a custom prefix.
func ApplyPrefix(prefix string, settings *domain.AppSettings) error {
	var o overlay
	if err := envconfig.Process(prefix, &o); err != nil {
		return fmt.Errorf("env override: %w", err)
	}

	if o.LLMProvider != "" {
		provider := domain.AIProvider(o.LLMProvider)
		if !provider.IsValid() {
			return fmt.Errorf("%s_LLM_PROVIDER: %w: %s", prefix, domain.ErrUnsupportedProvider, o.LLMProvider)
		}
		if provider != settings.LLM.Provider {
			settings.LLM.Provider = provider
			settings.LLM.Model = domain.DefaultLLMModels()[provider]
			settings.LLM.BaseURL = ""
		}
	}
	setString(&settings.LLM.Model, o.LLMModel)
	setString(&settings.LLM.BaseURL, o.LLMBaseURL)
	if o.LLMMaxTokens > 0 {
		settings.LLM.MaxTokens = o.LLMMaxTokens
	}

	setString(&settings.Corpus.Root, o.CorpusRoot)
	if len(o.CorpusExtensions) > 0 {
		settings.Corpus.Extensions = o.CorpusExtensions
	}
	if len(o.CorpusExcludeDirs) > 0 {
		settings.Corpus.ExcludeDirs = o.CorpusExcludeDirs
	}
	if o.CorpusIncludeHidden != nil {
		settings.Corpus.IncludeHidden = *o.CorpusIncludeHidden
	}
	if o.CorpusGitignore != nil {
		settings.Corpus.RespectGitignore = *o.CorpusGitignore
	}
	if o.CorpusMaxFileBytes > 0 {
		settings.Corpus.MaxFileBytes = o.CorpusMaxFileBytes
	}

	setString(&settings.Editor.Command, o.EditorCommand)
	if o.EditorExitOnOpen != nil {
		settings.Editor.ExitOnOpen = *o.EditorExitOnOpen
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
