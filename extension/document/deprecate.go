// deprecate.go implements the "d2cms deprecate" command.

package document

import (
	"fmt"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/spf13/cobra"
)

func (e *Extension) newDeprecateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deprecate <path>",
		Short: "Mark a document for deletion on the next sync",
		Long: `Set deprecated: true on a document and move the contents of the directory
it owns up one level. Direct children take the document's own parent_key.

The next sync deletes the WordPress item and the file.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runDeprecate,
	}
}

func (e *Extension) runDeprecate(_ *cobra.Command, args []string) error {
	root := e.ctx.Root()

	rel, err := sync.Deprecate(root, abs(args[0]))
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("deprecate %q: %w", args[0], err))
	}

	moved := make([]string, 0, len(rel.Moved))
	for _, p := range rel.Moved {
		r, _ := document.RelPath(root, p)
		moved = append(moved, r)
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"deprecated": args[0], "moved": moved})
	}
	fmt.Fprintf(cmd.Out(), "Deprecated %s\n", args[0])
	for _, m := range moved {
		fmt.Fprintf(cmd.Out(), "Moved: %s\n", m)
	}
	return nil
}
