// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/finder/internal/core/domain"
)

// ChatUpdated is sent when streamed chat text is waiting to be applied.
type ChatUpdated struct{}

// EditorFinished is sent when a suspended editor process exits.
type EditorFinished struct {
	Location domain.Location
	Err      error
}

// LineCopied is sent when a clipboard copy completes.
type LineCopied struct {
	Location domain.Location
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
