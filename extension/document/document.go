// Package document provides the document extension: commands that create,
// inspect and retire individual documents.
// Registers commands: add, status, preview, diff, deprecate.
package document

import (
	"path/filepath"

	"github.com/Dyc3r/docs2cms/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the document extension.
type Extension struct {
	ctx extension.Context
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Remote        = (*Extension)(nil)
)

// Name returns "document".
func (e *Extension) Name() string { return "document" }

// Init keeps the shared context.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns the document commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newAddCmd(),
		e.newStatusCmd(),
		e.newPreviewCmd(),
		e.newDiffCmd(),
		e.newDeprecateCmd(),
	}
}

// RemoteCommands returns diff, which fetches the WordPress copy.
func (e *Extension) RemoteCommands() []string {
	return []string{"diff"}
}

// abs resolves a path argument against the working directory.
func abs(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}
	return path
}
