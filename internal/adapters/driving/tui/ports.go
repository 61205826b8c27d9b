// Package tui provides an interactive terminal user interface for finder.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the interactive state machine every key is routed through.
	Session driving.SessionService

	// ResultAction opens and copies selected lines.
	ResultAction driving.ResultActionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, resultAction driving.ResultActionService) *Ports {
	return &Ports{
		Session:      session,
		ResultAction: resultAction,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.ResultAction == nil {
		return ErrMissingResultActionService
	}
	return nil
}
