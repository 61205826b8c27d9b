package driving

import (
	"context"
	"os/exec"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// ResultActionService provides actions on selected lines for external actors.
// This is used by the TUI and CLI adapters.
type ResultActionService interface {
	// CopyToClipboard copies the line's text to the system clipboard.
	CopyToClipboard(ctx context.Context, loc domain.Location) error

	// EditorCommand returns the command opening the line in the editor.
	// The caller decides how to run it (suspending a TUI, or after exit).
	EditorCommand(loc domain.Location) (*exec.Cmd, error)
}
