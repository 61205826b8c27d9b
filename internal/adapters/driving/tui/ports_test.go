package tui

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// MockResultActionService implements driving.ResultActionService for testing.
type MockResultActionService struct {
	CopyToClipboardFunc func(ctx context.Context, loc domain.Location) error
	EditorCommandFunc   func(loc domain.Location) (*exec.Cmd, error)
}

func (m *MockResultActionService) CopyToClipboard(ctx context.Context, loc domain.Location) error {
	if m.CopyToClipboardFunc != nil {
		return m.CopyToClipboardFunc(ctx, loc)
	}
	return nil
}

func (m *MockResultActionService) EditorCommand(loc domain.Location) (*exec.Cmd, error) {
	if m.EditorCommandFunc != nil {
		return m.EditorCommandFunc(loc)
	}
	return exec.Command("true"), nil
}

var _ driving.ResultActionService = (*MockResultActionService)(nil)

func TestNewPorts(t *testing.T) {
	f := tuitest.New(nil, false)
	actions := &MockResultActionService{}

	ports := NewPorts(f.Session, actions)

	require.NotNil(t, ports)
	assert.Equal(t, f.Session, ports.Session)
	assert.Equal(t, actions, ports.ResultAction)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	f := tuitest.New(nil, false)

	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing session", &Ports{ResultAction: &MockResultActionService{}}, ErrMissingSessionService},
		{"missing actions", &Ports{Session: f.Session}, ErrMissingResultActionService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.ports.Validate(), tt.want)
		})
	}
}
