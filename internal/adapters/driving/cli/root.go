// Package cli provides the cobra command tree for finder.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagLogFile   string
	flagDir       string
	flagProvider  string
	flagModel     string
	flagConfigDir string
)

// Services is the set of core services a command runs against.
type Services struct {
	Search   driving.SearchService
	Corpus   driving.CorpusService
	Session  driving.SessionService
	Actions  driving.ResultActionService
	Settings *domain.AppSettings

	// Close releases the chat transport. May be nil.
	Close func() error
}

// Wiring connects the command tree to the composition root. Services are
// built only after flags are parsed, so each hook receives the effective
// configuration.
type Wiring struct {
	// Settings opens the settings store in configDir, "" meaning the
	// default directory.
	Settings func(configDir string) (driving.SettingsService, error)

	// Environment overlays environment variables on settings.
	Environment func(settings *domain.AppSettings) error

	// Services loads the corpus and builds the core services.
	Services func(ctx context.Context, configDir string, settings *domain.AppSettings) (*Services, error)

	// CheckLLM resolves credentials for settings and pings the provider.
	CheckLLM func(ctx context.Context, settings domain.LLMSettings) error
}

var (
	wiring Wiring

	// built caches the services for the running command.
	built   *Services
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Fuzzy search and AI chat over your markdown notes",
	Long: `finder fuzzy-searches every line of the markdown files below the current
directory and lets you ask an AI assistant about them. Answers cite the
lines they draw on as [path:line], and every citation opens in your editor.

Run without a subcommand to start the interactive terminal UI.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	// Assigned here because setupLogging refers back to rootCmd.
	rootCmd.PersistentPreRunE = setupLogging

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&flagVerbose, "verbose", "V", false, "enable verbose logging")
	flags.StringVar(&flagLogFile, "log-file", "", "write logs to this file")
	flags.StringVarP(&flagDir, "dir", "d", "", "corpus root directory (default: current directory)")
	flags.StringVar(&flagProvider, "provider", "", "chat provider (openrouter, openai, anthropic, ollama)")
	flags.StringVar(&flagModel, "model", "", "chat model name")
	flags.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: ~/.finder)")
}

// SetWiring installs the composition root hooks.
func SetWiring(w Wiring) {
	wiring = w
}

// SetVersion sets the version reported by 'finder version' and --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the command tree and releases what the command opened.
func Execute(ctx context.Context) error {
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

// setupLogging routes logs away from the terminal when the TUI owns it.
func setupLogging(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		logger.SetOutput(f)
	case ownsTerminal(cmd):
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(cmd.ErrOrStderr())
	}
	return nil
}

func ownsTerminal(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}

// loadSettings returns the settings store and the effective settings:
// stored values, then environment, then flags.
func loadSettings() (driving.SettingsService, *domain.AppSettings, error) {
	if wiring.Settings == nil {
		return nil, nil, errors.New("settings service not configured")
	}

	svc, err := wiring.Settings(flagConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open settings: %w", err)
	}

	settings, err := svc.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if wiring.Environment != nil {
		if err := wiring.Environment(settings); err != nil {
			return nil, nil, err
		}
	}
	if err := applyFlags(settings); err != nil {
		return nil, nil, err
	}
	return svc, settings, nil
}

func applyFlags(settings *domain.AppSettings) error {
	if flagDir != "" {
		settings.Corpus.Root = flagDir
	}

	if flagProvider != "" {
		provider := domain.AIProvider(flagProvider)
		if !provider.IsValid() {
			return fmt.Errorf("--provider: %w: %s", domain.ErrUnsupportedProvider, flagProvider)
		}
		if provider != settings.LLM.Provider {
			settings.LLM.Provider = provider
			settings.LLM.Model = domain.DefaultLLMModels()[provider]
			settings.LLM.BaseURL = ""
		}
	}

	if flagModel != "" {
		settings.LLM.Model = flagModel
	}
	return nil
}

// loadServices builds the services once per process.
func loadServices(ctx context.Context) (*Services, error) {
	if built != nil {
		return built, nil
	}
	if wiring.Services == nil {
		return nil, errors.New("services not configured")
	}

	_, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	svc, err := wiring.Services(ctx, flagConfigDir, settings)
	if err != nil {
		return nil, err
	}
	if svc.Settings == nil {
		svc.Settings = settings
	}
	built = svc
	return built, nil
}

func cleanup() {
	if built != nil && built.Close != nil {
		if err := built.Close(); err != nil {
			logger.Warn("Closing services: %v", err)
		}
	}
	built = nil

	if logFile != nil {
		logger.SetOutput(os.Stderr)
		logFile.Close() //nolint:errcheck,gosec // nothing left to log to
		logFile = nil
	}
}
