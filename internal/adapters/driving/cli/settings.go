package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the chat provider, the corpus and the editor.

Settings live in ~/.finder/config.toml. FINDER_* environment variables and
the --dir, --provider and --model flags override them for a single run.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by key. Lists are comma-separated.

Examples:
  finder settings set corpus.extensions .md,.txt
  finder settings set editor.command "code --goto {path}:{line}"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the chat provider",
	Long:  `Choose the chat provider and model interactively, then check the connection.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsLLM,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Store the API key for the chat provider",
	Long: `Read an API key without echo and store it for the configured provider.
Without a stored key, finder reads FINDER_LLM_API_KEY, then the provider's
own variable (e.g. OPENROUTER_API_KEY), then .env files in the working and
home directories.`,
	Args: cobra.NoArgs,
	RunE: runSettingsAPIKey,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the chat provider connection",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, settings, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not stored, read from %s or .env)\n", settings.LLM.Provider.APIKeyEnv())
		}
	}
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Println()

	cmd.Println("[Corpus]")
	root := settings.Corpus.Root
	if root == "" {
		root = "(current directory)"
	}
	cmd.Printf("  Root: %s\n", root)
	cmd.Printf("  Extensions: %s\n", strings.Join(settings.Corpus.Extensions, ", "))
	cmd.Printf("  Excluded directories: %s\n", strings.Join(settings.Corpus.ExcludeDirs, ", "))
	cmd.Printf("  Include hidden: %s\n", yesNo(settings.Corpus.IncludeHidden))
	cmd.Printf("  Respect .gitignore: %s\n", yesNo(settings.Corpus.RespectGitignore))
	cmd.Printf("  Max file size: %d bytes\n", settings.Corpus.MaxFileBytes)
	cmd.Println()

	cmd.Println("[Editor]")
	editor := settings.Editor.Command
	if editor == "" {
		editor = "(from $VISUAL or $EDITOR, else " + domain.DefaultEditorCommand + ")"
	}
	cmd.Printf("  Command: %s\n", editor)
	cmd.Printf("  Exit on open: %s\n", yesNo(settings.Editor.ExitOnOpen))
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'finder settings unset <key>' to restore a default.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	svc, _, err := loadSettings()
	if err != nil {
		return err
	}
	for _, k := range svc.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, _, err := loadSettings()
	if err != nil {
		return err
	}
	if err := svc.SetValue(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	svc, _, err := loadSettings()
	if err != nil {
		return err
	}
	if err := svc.UnsetValue(args[0]); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	svc, _, err := loadSettings()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, svc, reader)
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	svc, settings, err := loadSettings()
	if err != nil {
		return err
	}
	if !settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("%s does not use an API key.\n", settings.LLM.Provider.Description())
		return nil
	}

	cmd.Printf("Enter API key for %s: ", settings.LLM.Provider.Description())
	apiKey := readPassword(cmd.InOrStdin(), bufio.NewReader(cmd.InOrStdin()))
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}

	if err := svc.SetLLMProvider(settings.LLM.Provider, settings.LLM.Model, apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Println("API key stored.")
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadSettings()
	if err != nil {
		return err
	}
	return checkLLM(cmd, settings.LLM)
}

func configureLLMProvider(cmd *cobra.Command, svc driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// An empty key leaves discovery to the environment and .env files.
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (blank to use %s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := svc.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := checkLLM(cmd, settings.LLM); err != nil {
		return err
	}

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// checkLLM pings the provider described by settings.
func checkLLM(cmd *cobra.Command, settings domain.LLMSettings) error {
	if wiring.CheckLLM == nil {
		return errors.New("provider check not configured")
	}

	cmd.Printf("Checking %s (%s)... ", settings.Provider.Description(), settings.Model)
	if err := wiring.CheckLLM(cmd.Context(), settings); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration check failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, else a plain line
// from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		password, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // fd fits in int
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
