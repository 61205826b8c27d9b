package services

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on selected corpus lines.
type ResultActionService struct {
	corpus driving.CorpusService
	editor driven.EditorLauncher

	// clipboard is replaceable in tests.
	clipboard func(string) error
}

// NewResultActionService creates a new result action service.
func NewResultActionService(corpus driving.CorpusService, editor driven.EditorLauncher) *ResultActionService {
	return &ResultActionService{
		corpus:    corpus,
		editor:    editor,
		clipboard: clipboard.WriteAll,
	}
}

// CopyToClipboard copies the line's text to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, loc domain.Location) error {
	doc, err := s.corpus.Document(loc.Path)
	if err != nil {
		return err
	}
	text, ok := doc.Line(loc.Line)
	if !ok {
		return fmt.Errorf("line %d of %s: %w", loc.Line, loc.Path, domain.ErrNotFound)
	}
	return s.clipboard(strings.TrimSpace(text))
}

// EditorCommand returns the command opening the line in the editor.
// The corpus-relative path is resolved against the corpus root.
func (s *ResultActionService) EditorCommand(loc domain.Location) (*exec.Cmd, error) {
	if s.editor == nil {
		return nil, fmt.Errorf("no editor configured: %w", domain.ErrInvalidInput)
	}
	doc, err := s.corpus.Document(loc.Path)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.corpus.Root(), filepath.FromSlash(doc.Path))
	return s.editor.Command(path, loc.Line)
}
