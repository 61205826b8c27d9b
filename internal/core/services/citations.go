package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/finder/internal/core/domain"
)

var (
	// bracketPattern finds candidate [ ... ] groups on a single line.
	bracketPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

	// referencePattern is one path:line or path:line-line reference.
	referencePattern = regexp.MustCompile(`^(.+?):(\d+)(?:\s*-\s*\d+)?$`)
)

// CitationExtractor finds [path:line] references in assistant text and
// keeps those that resolve to an existing corpus line.
type CitationExtractor struct {
	corpus *CorpusIndex
}

// NewCitationExtractor creates an extractor resolving against corpus.
func NewCitationExtractor(corpus *CorpusIndex) *CitationExtractor {
	return &CitationExtractor{corpus: corpus}
}

// Extract returns the resolvable citations of text in order of appearance.
// A bracket may hold several references separated by commas or
// semicolons. Ranges resolve to their first line. Duplicates are kept.
func (e *CitationExtractor) Extract(text string) []domain.Citation {
	var citations []domain.Citation

	for _, group := range bracketPattern.FindAllStringSubmatch(text, -1) {
		for _, ref := range strings.FieldsFunc(group[1], func(r rune) bool { return r == ',' || r == ';' }) {
			ref = strings.TrimSpace(ref)
			m := referencePattern.FindStringSubmatch(ref)
			if m == nil {
				continue
			}
			line, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			p := strings.Trim(strings.TrimSpace(m[1]), "`")
			loc, ok := e.corpus.Resolve(domain.Location{Path: p, Line: line})
			if !ok {
				continue
			}
			citations = append(citations, domain.Citation{
				Path:  loc.Path,
				Line:  loc.Line,
				Label: strings.ReplaceAll(ref, "`", ""),
			})
		}
	}

	return citations
}

// FilterCitations applies the fuzzy filter to citations. An empty query
// keeps every citation in prose order. Otherwise a citation is kept when
// the query matches its label or its path, ranked by score and then
// prose order.
func FilterCitations(citations []domain.Citation, query string) []domain.CitationMatch {
	result := make([]domain.CitationMatch, 0, len(citations))

	if query == "" {
		for i, c := range citations {
			result = append(result, domain.CitationMatch{Citation: c, Index: i})
		}
		return result
	}

	for i, c := range citations {
		score, positions, ok := matchString(query, c.Label)
		if !ok {
			if score, _, ok = matchString(query, c.Path); !ok {
				continue
			}
			positions = nil
		}
		result = append(result, domain.CitationMatch{
			Citation:  c,
			Index:     i,
			Score:     score,
			Positions: positions,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
