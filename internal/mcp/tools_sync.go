// tools_sync.go implements the MCP tools that inspect and push the tree.

package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Dyc3r/docs2cms/internal/diff"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/mark3labs/mcp-go/mcp"
)

// statusDocuments handles d2cms_status tool calls.
func (h *handlers) statusDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx unused
	path := getString(req, "path", "")

	changes, err := sync.Detect(h.root, path)

	log.Event("mcp:d2cms_status", "status").Path(path).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if getBool(req, "pending", false) {
		changes.Statuses = changes.Pending()
	}
	return jsonResult(changes)
}

// syncDocuments handles d2cms_sync tool calls. Per-document output is collected and
// returned with the summary instead of going to stdout.
func (h *handlers) syncDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireRemote(); err != nil {
		return err, nil
	}

	opts := sync.Options{
		Path:   getString(req, "path", ""),
		Force:  getBool(req, "force", false),
		DryRun: getBool(req, "dry_run", false),
		Logger: h.log,
	}

	var buf bytes.Buffer
	result, err := sync.Run(ctx, &buf, h.root, h.api, opts)

	log.Event("mcp:d2cms_sync", "sync").Path(opts.Path).Detail("failed", result.Failed).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"result": result,
		"output": buf.String(),
	})
}

// diffDocument handles d2cms_diff tool calls.
func (h *handlers) diffDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireRemote(); err != nil {
		return err, nil
	}

	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil //nolint:nilerr
	}

	r, err := diff.Remote(ctx, h.api, h.root, h.abs(path))

	log.Event("mcp:d2cms_diff", "diff").Path(path).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !r.Changed {
		return mcp.NewToolResultText(fmt.Sprintf("no differences: %s matches WordPress", path)), nil
	}
	return mcp.NewToolResultText(r.Format(false)), nil
}
