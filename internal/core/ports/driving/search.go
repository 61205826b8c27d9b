package driving

import (
	"context"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// SearchService provides fuzzy search over corpus lines to external actors.
type SearchService interface {
	// Search ranks every corpus line containing the query as a
	// case-insensitive subsequence. An empty query returns no results;
	// whitespace is matched like any other character.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Match, error)
}

// CorpusService exposes the loaded corpus.
type CorpusService interface {
	// Documents returns every document ordered by path.
	Documents() []domain.Document

	// Document returns the document at path.
	// Returns domain.ErrNotFound if there is none.
	Document(path string) (*domain.Document, error)

	// Context renders the whole corpus in the line-addressed form sent to
	// the assistant.
	Context() string

	// Root returns the corpus root directory.
	Root() string
}
