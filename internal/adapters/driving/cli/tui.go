package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui"
	"github.com/custodia-labs/finder/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for finder.
This is also what 'finder' runs without a subcommand.

Search:
  type        - Filter every corpus line
  ↑/↓         - Navigate results
  Enter       - Open the line in your editor
  ctrl+y      - Copy the line
  ?           - Chat about your notes
  Esc         - Quit

Chat:
  Enter       - Send
  ctrl+c      - Cancel the answer, or return to search
  alt+c       - Browse the latest answer's citations
  Esc         - Back to search

Anywhere:
  ctrl+q      - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	svc, err := loadServices(cmd.Context())
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(svc.Session, svc.Actions), tui.Options{
		ExitOnOpen: svc.Settings.Editor.ExitOnOpen,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	logger.Section("TUI")
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// The editor takes over the terminal once the TUI has released it.
	if editor := app.OpenAfterExit(); editor != nil {
		logger.Debug("Opening editor: %v", editor.Args)
		if err := editor.Run(); err != nil {
			logger.Debug("Editor exited: %v", err)
		}
	}
	return nil
}
