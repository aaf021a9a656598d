// tools_documents.go implements the MCP tools and resource that create,
// deprecate and read document files.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyPath indicates a missing document path in a resource URI.
	ErrEmptyPath = errors.New("empty document path")
)

const documentURIPrefix = "d2cms://documents/"

// addDocument handles d2cms_add tool calls.
func (h *handlers) addDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx unused
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil //nolint:nilerr
	}
	ct, err := document.ParseContentType(getString(req, "content_type", string(document.Docs)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := document.TargetDir(h.root, ct, getString(req, "path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := document.Generate(document.TemplateOptions{
		Root:  h.root,
		Dir:   dir,
		Title: title,
		Tags:  getStrings(req, "tags"),
	})

	rel, _ := document.RelPath(h.root, path)
	log.Event("mcp:d2cms_add", "add").Path(rel).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s", rel)), nil
}

// deprecateDocument handles d2cms_deprecate tool calls.
func (h *handlers) deprecateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx unused
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	rel, err := sync.Deprecate(h.root, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	moved := make([]string, 0, len(rel.Moved))
	for _, p := range rel.Moved {
		r, _ := document.RelPath(h.root, p)
		moved = append(moved, r)
	}
	return jsonResult(map[string]any{
		"deprecated": path,
		"moved":      moved,
	})
}

// readDocument handles d2cms://documents/{path} resource requests.
func (h *handlers) readDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) { //nolint:revive // ctx unused
	uri := req.Params.URI
	path, err := parseDocumentURI(uri)
	if err != nil {
		return nil, err
	}

	full := h.abs(path)
	rel, err := filepath.Rel(h.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: %s", sync.ErrOutsideRoot, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     string(data),
		},
	}, nil
}

// parseDocumentURI extracts the document path from d2cms://documents/{path}.
func parseDocumentURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, documentURIPrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, documentURIPrefix)
	if rest == "" {
		return "", ErrEmptyPath
	}
	return rest, nil
}

// abs resolves a tool path against the docs root.
func (h *handlers) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(h.root, filepath.FromSlash(path))
}
