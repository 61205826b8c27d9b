package services

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// mockEditor implements driven.EditorLauncher.
type mockEditor struct {
	path string
	line int
	err  error
}

func (m *mockEditor) Command(path string, line int) (*exec.Cmd, error) {
	m.path, m.line = path, line
	if m.err != nil {
		return nil, m.err
	}
	return exec.Command("true", path, strconv.Itoa(line)), nil
}

func newActionsFixture(editor *mockEditor) (*ResultActionService, *string) {
	corpus := newTestCorpus(map[string]string{
		"notes/todo.md": "# Todo\n   buy milk  \n",
	})
	var copied string
	svc := NewResultActionService(corpus, editor)
	svc.clipboard = func(text string) error {
		copied = text
		return nil
	}
	return svc, &copied
}

func TestResultActionService_CopyToClipboard(t *testing.T) {
	svc, copied := newActionsFixture(&mockEditor{})

	err := svc.CopyToClipboard(context.Background(), domain.Location{Path: "notes/todo.md", Line: 2})

	require.NoError(t, err)
	assert.Equal(t, "buy milk", *copied)
}

func TestResultActionService_CopyToClipboard_NotFound(t *testing.T) {
	tests := []struct {
		name string
		loc  domain.Location
	}{
		{"unknown path", domain.Location{Path: "missing.md", Line: 1}},
		{"line past end", domain.Location{Path: "notes/todo.md", Line: 3}},
		{"line zero", domain.Location{Path: "notes/todo.md", Line: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, copied := newActionsFixture(&mockEditor{})

			err := svc.CopyToClipboard(context.Background(), tt.loc)

			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Empty(t, *copied)
		})
	}
}

func TestResultActionService_CopyToClipboard_ClipboardError(t *testing.T) {
	svc, _ := newActionsFixture(&mockEditor{})
	svc.clipboard = func(string) error { return errors.New("no clipboard") }

	err := svc.CopyToClipboard(context.Background(), domain.Location{Path: "notes/todo.md", Line: 1})

	assert.EqualError(t, err, "no clipboard")
}

func TestResultActionService_EditorCommand(t *testing.T) {
	editor := &mockEditor{}
	svc, _ := newActionsFixture(editor)

	cmd, err := svc.EditorCommand(domain.Location{Path: "notes/todo.md", Line: 2})

	require.NoError(t, err)
	require.NotNil(t, cmd)
	assert.Equal(t, filepath.Join("/corpus", "notes", "todo.md"), editor.path)
	assert.Equal(t, 2, editor.line)
}

func TestResultActionService_EditorCommand_Errors(t *testing.T) {
	t.Run("unknown path", func(t *testing.T) {
		svc, _ := newActionsFixture(&mockEditor{})
		_, err := svc.EditorCommand(domain.Location{Path: "missing.md", Line: 1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("launcher error", func(t *testing.T) {
		svc, _ := newActionsFixture(&mockEditor{err: errors.New("no editor")})
		_, err := svc.EditorCommand(domain.Location{Path: "notes/todo.md", Line: 1})
		assert.EqualError(t, err, "no editor")
	})

	t.Run("no launcher", func(t *testing.T) {
		corpus := newTestCorpus(map[string]string{"a.md": "x"})
		svc := NewResultActionService(corpus, nil)
		_, err := svc.EditorCommand(domain.Location{Path: "a.md", Line: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
