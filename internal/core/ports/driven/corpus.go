package driven

import (
	"context"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// CorpusSource enumerates the documents that form the corpus.
// The corpus is read once at start-up and not watched afterwards.
type CorpusSource interface {
	// Load returns every corpus document with its contents.
	Load(ctx context.Context) ([]domain.RawDocument, error)

	// Root returns the directory documents are relative to.
	Root() string
}
