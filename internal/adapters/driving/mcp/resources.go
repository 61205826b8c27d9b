package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/finder/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for finder resources.
	uriScheme = "finder://"

	documentsURI = uriScheme + "documents"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Every document in the corpus with its line count",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsURI + "/{+path}",
		Name:        "document-content",
		Description: "Content of a corpus document",
		MIMEType:    "text/markdown",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource lists the corpus documents.
func (s *Server) handleDocumentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type docInfo struct {
		Path  string `json:"path"`
		Lines int    `json:"lines"`
		URI   string `json:"uri"`
	}

	docs := s.ports.Corpus.Documents()
	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			Path:  docs[i].Path,
			Lines: docs[i].LineCount(),
			URI:   documentURI(docs[i].Path),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the content of a single document.
func (s *Server) handleDocumentContentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	path := extractDocumentPath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Corpus.Document(path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	lines := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = l.Text
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     strings.Join(lines, "\n"),
		}},
	}, nil
}

func documentURI(path string) string {
	return documentsURI + "/" + path
}

// extractDocumentPath extracts the path from a URI like finder://documents/{path}.
func extractDocumentPath(uri string) string {
	const prefix = documentsURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
