// Package editor builds the command that opens a corpus line in the
// user's editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

// Ensure Launcher implements the interface.
var _ driven.EditorLauncher = (*Launcher)(nil)

// Template placeholders.
const (
	placeholderPath = "{path}"
	placeholderLine = "{line}"
)

// Launcher expands an editor command template.
type Launcher struct {
	args []string
}

// NewLauncher creates a launcher for template. An empty template falls
// back to $VISUAL, then $EDITOR, then nvim. lookupEnv is os.LookupEnv
// outside tests.
func NewLauncher(template string, lookupEnv func(string) (string, bool)) (*Launcher, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate(lookupEnv)
	}

	args := strings.Fields(template)
	if len(args) == 0 {
		return nil, fmt.Errorf("empty editor command: %w", domain.ErrInvalidInput)
	}
	return &Launcher{args: args}, nil
}

func defaultTemplate(lookupEnv func(string) (string, bool)) string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return domain.DefaultEditorCommand
}

// Command returns the editor command for path at line. Without
// placeholders the arguments "+line path" are appended, which vi, vim,
// nvim, nano, emacs and helix all understand.
func (l *Launcher) Command(path string, line int) (*exec.Cmd, error) {
	if line < 1 {
		line = 1
	}
	lineArg := strconv.Itoa(line)

	args := make([]string, 0, len(l.args)+2)
	templated := false
	for _, a := range l.args {
		if strings.Contains(a, placeholderPath) || strings.Contains(a, placeholderLine) {
			templated = true
			a = strings.ReplaceAll(a, placeholderPath, path)
			a = strings.ReplaceAll(a, placeholderLine, lineArg)
		}
		args = append(args, a)
	}
	if !templated {
		args = append(args, "+"+lineArg, path)
	}

	//nolint:gosec // G204: the editor command is user configuration.
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Name returns the editor executable.
func (l *Launcher) Name() string {
	return l.args[0]
}
