// status.go implements the "d2cms status" command: what the next sync
// would do, without contacting WordPress.

package document

import (
	"fmt"
	"io"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/spf13/cobra"
)

func (e *Extension) newStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Show which documents the next sync would act on",
		Long: `Classify every document as new, changed, unchanged, deprecated or invalid
by comparing its fingerprint with the stored document_hash.`,
		Args: cobra.NoArgs,
		RunE: e.runStatus,
	}
	c.Flags().StringP(extension.FlagPath, "p", "", "Subdirectory or document below the docs root")
	c.Flags().Bool(extension.FlagPending, false, "Hide unchanged documents")
	return c
}

func (e *Extension) runStatus(c *cobra.Command, _ []string) error {
	sub, _ := c.Flags().GetString(extension.FlagPath)
	pending, _ := c.Flags().GetBool(extension.FlagPending)

	changes, err := sync.Detect(e.ctx.Root(), sub)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("status: %w", err))
	}
	if pending {
		changes.Statuses = changes.Pending()
	}

	if cmd.JSON() {
		if changes.Statuses == nil {
			changes.Statuses = []sync.Status{}
		}
		return cmd.PrintJSON(changes)
	}
	writeStatus(cmd.Out(), changes)
	return nil
}

func writeStatus(w io.Writer, changes sync.Changes) {
	for _, st := range changes.Statuses {
		switch {
		case st.Error != "":
			fmt.Fprintf(w, "%-10s %s: %s\n", st.State, st.Path, st.Error)
		case st.WordPressID != 0:
			fmt.Fprintf(w, "%-10s %s (id %d)\n", st.State, st.Path, st.WordPressID)
		default:
			fmt.Fprintf(w, "%-10s %s\n", st.State, st.Path)
		}
	}
	if changes.Empty() {
		fmt.Fprintln(w, "Nothing to sync")
		return
	}
	fmt.Fprintf(w, "\n%d new, %d changed, %d deprecated, %d invalid\n",
		changes.Count(sync.StateNew), changes.Count(sync.StateChanged),
		changes.Count(sync.StateDeprecated), changes.Count(sync.StateInvalid))
}
