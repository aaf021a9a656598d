// tools_guide.go implements the MCP tool for accessing help content.

package mcp

import (
	"context"
	"fmt"

	"github.com/Dyc3r/docs2cms/guide"
	"github.com/mark3labs/mcp-go/mcp"
)

// getGuide handles d2cms_guide tool calls. An unknown topic returns the list of
// available ones.
func (h *handlers) getGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) { //nolint:revive // ctx unused
	topic := getString(req, "topic", "")

	content, err := guide.Get(topic)
	if err != nil {
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return jsonResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	}
	return mcp.NewToolResultText(content), nil
}
