package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/finder/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	matches  []domain.Match
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.Match, error) {
	m.lastOpts = opts
	return m.matches, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	documents []domain.Document
}

func (m *mockCorpusService) Documents() []domain.Document {
	return m.documents
}

func (m *mockCorpusService) Document(path string) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].Path == path {
			return &m.documents[i], nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", path, domain.ErrNotFound)
}

func (m *mockCorpusService) Context() string {
	return ""
}

func (m *mockCorpusService) Root() string {
	return "/corpus"
}

func newCorpus() *mockCorpusService {
	return &mockCorpusService{documents: []domain.Document{
		domain.NewDocument("README.md", "# Finder\n\nInstall with go install.\n"),
		domain.NewDocument("docs/guide.md", "one\ntwo\nthree\nfour\nfive\nsix\nseven\n"),
	}}
}
