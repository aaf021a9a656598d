// serve.go implements the "d2cms serve" command.
//
// Unlike other commands, serve blocks until the MCP client disconnects.
// stdout carries JSON-RPC, so nothing else may print to it.

package core

import (
	"github.com/Dyc3r/docs2cms/internal/mcp"
	"github.com/spf13/cobra"
)

func (e *Extension) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long:  `Start an MCP (Model Context Protocol) server over stdio for LLM integration.`,
		Args:  cobra.NoArgs,
		RunE:  e.runServe,
	}
}

func (e *Extension) runServe(_ *cobra.Command, _ []string) error {
	api, err := e.ctx.API()
	if err != nil {
		return err
	}
	return mcp.Serve(mcp.Options{
		Root:   e.ctx.Root(),
		API:    api,
		Logger: e.ctx.Logger(),
	})
}
