package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentPath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "top-level document",
			uri:      "finder://documents/README.md",
			expected: "README.md",
		},
		{
			name:     "nested document",
			uri:      "finder://documents/docs/guide.md",
			expected: "docs/guide.md",
		},
		{
			name:     "document list",
			uri:      "finder://documents",
			expected: "",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/README.md",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentPath(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	server := newTestServer(t, &mockSearchService{})

	result, err := server.handleDocumentsResource(context.Background(), makeReadResourceRequest("finder://documents"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var infos []struct {
		Path  string `json:"path"`
		Lines int    `json:"lines"`
		URI   string `json:"uri"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "README.md", infos[0].Path)
	assert.Equal(t, 3, infos[0].Lines)
	assert.Equal(t, "finder://documents/README.md", infos[0].URI)
	assert.Equal(t, "docs/guide.md", infos[1].Path)
	assert.Equal(t, 7, infos[1].Lines)
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockSearchService{})

	t.Run("returns document text", func(t *testing.T) {
		uri := "finder://documents/README.md"
		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Equal(t, "# Finder\n\nInstall with go install.", result.Contents[0].Text)
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("finder://documents/nope.md"))

		require.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("other://x"))

		require.Error(t, err)
		assert.Nil(t, result)
	})
}
