package mcp

import (
	"github.com/custodia-labs/finder/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides fuzzy search over corpus lines.
	Search driving.SearchService

	// Corpus exposes the loaded documents.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
