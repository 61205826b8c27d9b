package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure CorpusIndex implements the interface.
var _ driving.CorpusService = (*CorpusIndex)(nil)

// entry is one searchable corpus line.
type entry struct {
	doc    int
	line   int
	text   string
	folded []rune
}

// CorpusIndex holds the loaded documents and the flattened line list the
// matcher scans. It is built once and never mutated afterwards, so it is
// safe for concurrent readers.
type CorpusIndex struct {
	root    string
	docs    []domain.Document
	byPath  map[string]int
	entries []entry
	context string
}

// NewCorpusIndex builds the index from raw documents. Documents are
// ordered by path; blank lines are kept in documents but are not
// searchable entries.
func NewCorpusIndex(root string, raws []domain.RawDocument) *CorpusIndex {
	sorted := make([]domain.RawDocument, len(raws))
	copy(sorted, raws)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	idx := &CorpusIndex{
		root:   root,
		docs:   make([]domain.Document, 0, len(sorted)),
		byPath: make(map[string]int, len(sorted)),
	}

	for _, raw := range sorted {
		p := normalisePath(raw.Path)
		if _, dup := idx.byPath[p]; dup {
			logger.Warn("Duplicate corpus path %q ignored", p)
			continue
		}
		doc := domain.NewDocument(p, string(raw.Content))
		idx.byPath[p] = len(idx.docs)
		idx.docs = append(idx.docs, doc)
	}

	for d, doc := range idx.docs {
		for _, l := range doc.Lines {
			if strings.TrimSpace(l.Text) == "" {
				continue
			}
			idx.entries = append(idx.entries, entry{
				doc:    d,
				line:   l.Number,
				text:   l.Text,
				folded: foldRunes(l.Text),
			})
		}
	}

	idx.context = renderContext(idx.docs)
	return idx
}

// LoadCorpus reads every document from source and indexes it.
func LoadCorpus(ctx context.Context, source driven.CorpusSource) (*CorpusIndex, error) {
	logger.Section("Corpus")

	raws, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	idx := NewCorpusIndex(source.Root(), raws)
	logger.Info("Indexed %d documents, %d lines from %s", len(idx.docs), len(idx.entries), source.Root())
	return idx, nil
}

// Documents returns every document ordered by path.
func (c *CorpusIndex) Documents() []domain.Document {
	return c.docs
}

// Document returns the document at path.
func (c *CorpusIndex) Document(p string) (*domain.Document, error) {
	i, ok := c.byPath[normalisePath(p)]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", p, domain.ErrNotFound)
	}
	return &c.docs[i], nil
}

// Context renders the corpus in the line-addressed form sent to the
// assistant.
func (c *CorpusIndex) Context() string {
	return c.context
}

// Root returns the corpus root directory.
func (c *CorpusIndex) Root() string {
	return c.root
}

// LineCount returns the number of searchable lines.
func (c *CorpusIndex) LineCount() int {
	return len(c.entries)
}

// Resolve returns true if loc names an existing document line.
func (c *CorpusIndex) Resolve(loc domain.Location) (domain.Location, bool) {
	doc, err := c.Document(loc.Path)
	if err != nil {
		return domain.Location{}, false
	}
	if _, ok := doc.Line(loc.Line); !ok {
		return domain.Location{}, false
	}
	return domain.Location{Path: doc.Path, Line: loc.Line}, true
}

// renderContext produces, for each document, a "--- path ---" header
// followed by every line prefixed with its [path:n] reference.
func renderContext(docs []domain.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "\n--- %s ---\n", doc.Path)
		for _, l := range doc.Lines {
			fmt.Fprintf(&b, "[%s:%d] %s\n", doc.Path, l.Number, l.Text)
		}
	}
	return b.String()
}

// normalisePath maps user or model supplied paths onto corpus keys.
func normalisePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
