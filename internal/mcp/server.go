// Package mcp implements the Model Context Protocol server, exposing d2cms
// operations to LLMs. An assistant can check which documents are pending,
// create and deprecate documents and push the tree to WordPress.
package mcp

import (
	"context"
	"errors"

	"github.com/Dyc3r/docs2cms/internal/version"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ErrNoRemote is returned by tools that need WordPress when the server was
// started without a client.
const ErrNoRemote = "WordPress is not configured - set D2CMS_WP_API_ROOT, D2CMS_WP_API_USER and D2CMS_WP_API_KEY"

// Options configures the server.
type Options struct {
	Root   string        // docs root
	API    wordpress.API // nil disables d2cms_sync and d2cms_diff
	Logger *zap.Logger
}

// handlers provides MCP request handlers with access to the docs tree.
type handlers struct {
	root string
	api  wordpress.API
	log  *zap.Logger
}

// NewServer builds the MCP server with every d2cms tool registered.
func NewServer(opts Options) *server.MCPServer {
	h := &handlers{root: opts.Root, api: opts.API, log: opts.Logger}
	if h.log == nil {
		h.log = zap.NewNop()
	}

	s := server.NewMCPServer(
		"d2cms",
		version.Short(),
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)
	return s
}

// Serve runs the server over stdio until the client disconnects. Logs must
// go to stderr; stdout carries the JSON-RPC messages.
func Serve(opts Options) error {
	s := NewServer(opts)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("d2cms MCP server ready", zap.String("version", version.Short()), zap.String("transport", "stdio"))

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		log.Info("server stopped")
		return nil
	}
	return err
}

// requireRemote returns an error result if no WordPress client is set.
func (h *handlers) requireRemote() *mcp.CallToolResult {
	if h.api == nil {
		return mcp.NewToolResultError(ErrNoRemote)
	}
	return nil
}

// registerResources adds URI-based access to document sources.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"d2cms://documents/{path}",
			"Document",
			mcp.WithTemplateDescription("Read a document's markdown source by path relative to the docs root"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readDocument,
	)
}

// registerTools exposes d2cms operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("d2cms_status",
			mcp.WithDescription("List documents and whether the next sync would create, update, delete or skip them. Does not contact WordPress."),
			mcp.WithString("path", mcp.Description("Subdirectory or .md file relative to the docs root (default: whole tree)")),
			mcp.WithBoolean("pending", mcp.Description("Only list documents the next sync would act on")),
		),
		h.statusDocuments,
	)

	s.AddTool(
		mcp.NewTool("d2cms_sync",
			mcp.WithDescription("Push changed documents to WordPress. Failures are reported per document and never stop the run."),
			mcp.WithString("path", mcp.Description("Subdirectory or .md file relative to the docs root (default: whole tree)")),
			mcp.WithBoolean("force", mcp.Description("Sync every document even if unchanged")),
			mcp.WithBoolean("dry_run", mcp.Description("Report what would happen without contacting WordPress or writing files")),
		),
		h.syncDocuments,
	)

	s.AddTool(
		mcp.NewTool("d2cms_add",
			mcp.WithDescription("Create a new document from the template. The file is named after the title's slug."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
			mcp.WithString("content_type", mcp.Description("docs, pages or posts (default: docs)")),
			mcp.WithString("path", mcp.Description("Subdirectory inside the content type directory")),
			mcp.WithString("tags", mcp.Description("Comma-separated tag names")),
		),
		h.addDocument,
	)

	s.AddTool(
		mcp.NewTool("d2cms_deprecate",
			mcp.WithDescription("Mark a document for deletion on the next sync and move its children up one level"),
			mcp.WithString("path", mcp.Required(), mcp.Description(".md file relative to the docs root")),
		),
		h.deprecateDocument,
	)

	s.AddTool(
		mcp.NewTool("d2cms_diff",
			mcp.WithDescription("Compare a synced document's WordPress content with its local rendering"),
			mcp.WithString("path", mcp.Required(), mcp.Description(".md file relative to the docs root")),
		),
		h.diffDocument,
	)

	s.AddTool(
		mcp.NewTool("d2cms_guide",
			mcp.WithDescription("Get help on the document format and d2cms commands"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'format', 'sync') or empty for the index")),
		),
		h.getGuide,
	)
}
