// Command finder fuzzy-searches a markdown corpus and chats about it with
// an AI assistant whose answers cite corpus lines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/finder/internal/adapters/driven/ai"
	"github.com/custodia-labs/finder/internal/adapters/driven/config/env"
	"github.com/custodia-labs/finder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/finder/internal/adapters/driven/corpus/filesystem"
	"github.com/custodia-labs/finder/internal/adapters/driven/credentials"
	"github.com/custodia-labs/finder/internal/adapters/driven/editor"
	"github.com/custodia-labs/finder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finder/internal/adapters/driving/cli"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/core/services"
	"github.com/custodia-labs/finder/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// chatTemperature keeps answers close to the documents.
const chatTemperature = 0.2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetWiring(cli.Wiring{
		Settings:    openSettings,
		Environment: env.Apply,
		Services:    buildServices,
		CheckLLM:    checkLLM,
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		// Without a writable config directory settings last for this run.
		logger.Warn("Config unavailable, using defaults: %v", err)
		return services.NewSettingsService(memory.NewConfigStore()), nil
	}
	logger.Debug("Config: %s", store.Path())
	return services.NewSettingsService(store), nil
}

// buildServices loads the corpus and wires the core services. A missing
// API key leaves chat unavailable rather than failing.
func buildServices(ctx context.Context, configDir string, settings *domain.AppSettings) (*cli.Services, error) {
	source, err := filesystem.NewSource(settings.Corpus)
	if err != nil {
		return nil, err
	}
	corpus, err := services.LoadCorpus(ctx, source)
	if err != nil {
		return nil, err
	}

	streamer, err := newStreamer(settings.LLM)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(promptDir(configDir))
	if err != nil {
		return nil, err
	}

	var launcher driven.EditorLauncher
	if l, err := editor.NewLauncher(settings.Editor.Command, os.LookupEnv); err != nil {
		logger.Warn("Editor unavailable: %v", err)
	} else {
		launcher = l
	}

	search := services.NewSearchService(corpus)
	chat := services.NewChatService(corpus, streamer, prompts, driven.ChatOptions{
		MaxTokens:   settings.LLM.MaxTokens,
		Temperature: chatTemperature,
	})

	svc := &cli.Services{
		Search:   search,
		Corpus:   corpus,
		Session:  services.NewSession(search, corpus, chat),
		Actions:  services.NewResultActionService(corpus, launcher),
		Settings: settings,
	}
	if streamer != nil {
		svc.Close = streamer.Close
	}
	return svc, nil
}

// newStreamer returns nil when no API key can be found.
func newStreamer(settings domain.LLMSettings) (driven.ChatStreamer, error) {
	settings = ai.ResolveAPIKey(settings, credentials.NewSource(credentials.DefaultDirs()...))

	streamer, err := ai.CreateChatStreamer(settings)
	if errors.Is(err, domain.ErrCredentialMissing) {
		logger.Info("Chat disabled: %v", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat transport: %w", err)
	}
	return streamer, nil
}

func checkLLM(ctx context.Context, settings domain.LLMSettings) error {
	settings = ai.ResolveAPIKey(settings, credentials.NewSource(credentials.DefaultDirs()...))
	return ai.ValidateLLMConfig(ctx, settings)
}

func promptDir(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "prompts")
}
