// diff.go implements the "d2cms diff" command: the WordPress copy of a
// document against what the document renders to now.

package document

import (
	"fmt"
	"io"
	"os"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/diff"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/progress"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <path>",
		Short: "Compare a document with its WordPress copy",
		Long: `Fetch the WordPress item of a synced document and show how its content
differs from the HTML the document renders to now.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runDiff,
	}
	c.Flags().Bool(extension.FlagRaw, false, "Output without colour")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	api, err := e.ctx.API()
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	colour := !raw && cmd.Out() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))

	spin := progress.NewSpinner("Fetching")
	spin.Start()
	r, err := diff.Run(c.Context(), w, api, e.ctx.Root(), abs(args[0]), colour)
	spin.Stop()

	log.Event("cli:diff", "diff").Path(args[0]).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("diff %q: %w", args[0], err))
	}

	return cmd.PrintJSON(map[string]any{
		"old":     r.Old,
		"new":     r.New,
		"changed": r.Changed,
		"diff":    r.Format(false),
	})
}
