// Package core provides the core extension for d2cms.
// It registers commands: config, guide, version, history, serve.
package core

import (
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct {
	ctx extension.Context
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Remote        = (*Extension)(nil)
	_ extension.Unconfigured  = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Init keeps the shared context for config and serve.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns the core commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newConfigCmd(),
		newGuideCmd(),
		newVersionCmd(),
		newHistoryCmd(),
		e.newServeCmd(),
	}
}

// RemoteCommands returns serve: the MCP sync tool pushes to WordPress.
func (e *Extension) RemoteCommands() []string {
	return []string{"serve"}
}

// UnconfiguredCommands returns the commands that must work before d2cms is
// set up: config shows what is missing, guide explains how to fix it.
func (e *Extension) UnconfiguredCommands() []string {
	return []string{"config", "guide", "version"}
}
