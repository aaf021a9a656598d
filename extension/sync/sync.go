// Package sync provides the sync extension for d2cms.
// It registers commands: sync, watch.
package sync

import (
	"errors"
	"fmt"
	"io"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// ErrFailures is returned when a run completed with failed documents.
var ErrFailures = errors.New("some documents failed to sync")

// Extension implements the sync extension.
type Extension struct {
	ctx extension.Context
}

var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Remote        = (*Extension)(nil)
)

// Name returns "sync".
func (e *Extension) Name() string { return "sync" }

// Init keeps the shared context.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns sync and watch.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newSyncCmd(),
		e.newWatchCmd(),
	}
}

// RemoteCommands returns both commands; each pushes to WordPress.
func (e *Extension) RemoteCommands() []string {
	return []string{"sync", "watch"}
}

func (e *Extension) newSyncCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "sync",
		Short: "Push changed documents to WordPress",
		Long: `Walk the docs directory and create, update or delete the WordPress item of
every document whose fingerprint changed since its last sync.

A failing document never stops the run. Failures are written to
d2cms-sync-results/<timestamp>.csv and the command exits non-zero.

  d2cms sync
  d2cms sync --path docs/guides
  d2cms sync --dry-run`,
		Args: cobra.NoArgs,
		RunE: e.runSync,
	}
	c.Flags().BoolP(extension.FlagForce, "f", false, "Sync every document even if unchanged")
	c.Flags().StringP(extension.FlagPath, "p", "", "Subdirectory or document below the docs root")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show what would be synced without contacting WordPress")
	return c
}

func (e *Extension) runSync(c *cobra.Command, _ []string) error {
	opts := sync.Options{Logger: e.ctx.Logger()}
	opts.Force, _ = c.Flags().GetBool(extension.FlagForce)
	opts.Path, _ = c.Flags().GetString(extension.FlagPath)
	opts.DryRun, _ = c.Flags().GetBool(extension.FlagDryRun)

	api, err := e.ctx.API()
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := sync.Run(c.Context(), w, e.ctx.Root(), api, opts)

	log.Event("cli:sync", "sync").
		Path(opts.Path).
		Detail("force", opts.Force).
		Detail("dry_run", opts.DryRun).
		Detail("failed", result.Failed).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("sync: %w", err))
	}

	if cmd.JSON() {
		if err := cmd.PrintJSON(result); err != nil {
			return err
		}
	} else {
		writeSummary(cmd.Out(), result)
	}

	if result.Failed > 0 {
		if cmd.JSON() {
			cmd.ErrorReported()
		}
		if result.ReportPath != "" {
			return fmt.Errorf("%w: %d failed, see %s", ErrFailures, result.Failed, result.ReportPath)
		}
		return fmt.Errorf("%w: %d failed", ErrFailures, result.Failed)
	}
	return nil
}

func writeSummary(w io.Writer, r sync.Result) {
	prefix := "Synced"
	if r.DryRun {
		prefix = "Dry run"
	}
	fmt.Fprintf(w, "\n%s: %d created, %d updated, %d deleted, %d skipped, %d failed\n",
		prefix, r.Created, r.Updated, r.Deleted+r.Removed, r.Skipped, r.Failed)
}
