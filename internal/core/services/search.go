package services

import (
	"context"
	"sort"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// cancelCheckInterval is how many entries are scanned between context checks.
const cancelCheckInterval = 4096

// SearchService ranks corpus lines against a fuzzy query.
type SearchService struct {
	corpus *CorpusIndex
}

// NewSearchService creates a new search service over corpus.
func NewSearchService(corpus *CorpusIndex) *SearchService {
	return &SearchService{corpus: corpus}
}

// Search returns every line containing the query as a case-insensitive
// subsequence, best first. Equal scores are ordered by ascending line
// number, then ascending document path. The query is matched as typed,
// spaces included; only the empty query returns no results.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Match, error) {
	if query == "" {
		return []domain.Match{}, nil
	}

	pattern := foldRunes(query)
	matches := make([]domain.Match, 0)

	for i := range s.corpus.entries {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		e := &s.corpus.entries[i]
		score, positions, ok := fuzzyScore(pattern, e.text, e.folded)
		if !ok {
			continue
		}
		matches = append(matches, domain.Match{
			Path:      s.corpus.docs[e.doc].Path,
			Line:      e.line,
			Text:      e.text,
			Score:     score,
			Positions: positions,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Path < b.Path
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	logger.Debug("Search %q: %d matches", query, len(matches))
	return matches, nil
}
