package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/finder/internal/core/domain"
)

const (
	defaultSearchLimit = 10
	defaultReadContext = 5
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"characters that must appear in order in a line, case-insensitive"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matching line.
type SearchResultOutput struct {
	Location string `json:"location"`
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
}

// ReadLinesInput is the input schema for the read_lines tool.
type ReadLinesInput struct {
	Path    string `json:"path" jsonschema:"document path relative to the corpus root"`
	Line    int    `json:"line" jsonschema:"1-based line to centre on"`
	Context int    `json:"context,omitempty" jsonschema:"lines to include either side (default 5)"`
}

// ReadLinesOutput is the output schema for the read_lines tool.
type ReadLinesOutput struct {
	Path  string       `json:"path"`
	Lines []LineOutput `json:"lines"`
}

// LineOutput is one numbered document line.
type LineOutput struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Fuzzy search every line of the local corpus",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_lines",
		Description: "Read the lines around path:line in a corpus document",
	}, s.handleReadLines)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit}
	matches, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(matches)),
		Count:   len(matches),
	}

	for i, m := range matches {
		output.Results[i] = SearchResultOutput{
			Location: fmt.Sprintf("%s:%d", m.Path, m.Line),
			Path:     m.Path,
			Line:     m.Line,
			Text:     m.Text,
			Score:    m.Score,
		}
	}

	return nil, output, nil
}

// handleReadLines handles the read_lines tool invocation.
func (s *Server) handleReadLines(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReadLinesInput,
) (*mcp.CallToolResult, ReadLinesOutput, error) {
	doc, err := s.ports.Corpus.Document(input.Path)
	if err != nil {
		return nil, ReadLinesOutput{}, err
	}
	if input.Line < 1 || input.Line > doc.LineCount() {
		return nil, ReadLinesOutput{}, fmt.Errorf("line %d of %s: %w", input.Line, doc.Path, domain.ErrNotFound)
	}

	radius := input.Context
	if radius <= 0 {
		radius = defaultReadContext
	}

	first := max(input.Line-radius, 1)
	last := min(input.Line+radius, doc.LineCount())

	output := ReadLinesOutput{Path: doc.Path}
	for _, l := range doc.Lines[first-1 : last] {
		output.Lines = append(output.Lines, LineOutput{Line: l.Number, Text: l.Text})
	}
	return nil, output, nil
}
