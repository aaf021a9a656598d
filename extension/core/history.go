// history.go implements the "d2cms history" command, a listing of the
// audit log for the current docs directory.

package core

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/duration"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Show recent d2cms actions",
		Long: `Show recent commands and per-document sync actions recorded for the
current docs directory, newest first.

  d2cms history -n 50
  d2cms history --since 7d`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", defaultHistoryLimit, "Number of entries to show")
	c.Flags().String(extension.FlagSince, "", "Only entries newer than this age (90m, 12h, 7d, 4w)")
	return c
}

func runHistory(c *cobra.Command, _ []string) error {
	limit, _ := c.Flags().GetInt(extension.FlagLimit)
	if limit <= 0 {
		return cmd.PrintJSONError(fmt.Errorf("limit must be > 0, got %d", limit))
	}

	var since time.Time
	if age, _ := c.Flags().GetString(extension.FlagSince); age != "" {
		var err error
		if since, err = duration.Since(age, time.Now()); err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	entries, err := log.RecentSince(limit, since)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("reading audit log: %w", err))
	}

	if cmd.JSON() {
		if entries == nil {
			entries = []log.Entry{}
		}
		return cmd.PrintJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.Out(), "No history")
		return nil
	}
	return writeHistory(cmd.Out(), entries)
}

func writeHistory(w io.Writer, entries []log.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "error: " + e.Error
		}
		target := e.Path
		if e.WordPressID != 0 {
			target = fmt.Sprintf("%s (id %d)", e.Path, e.WordPressID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			time.Unix(e.Start, 0).Format(time.DateTime), e.Source, e.Action, target, status)
	}
	return tw.Flush()
}
