package driven

import "os/exec"

// EditorLauncher builds the command that opens a file at a line.
// The caller runs the command; its exit status is not consumed.
type EditorLauncher interface {
	// Command returns an unstarted command opening path at the 1-based line.
	Command(path string, line int) (*exec.Cmd, error)
}
