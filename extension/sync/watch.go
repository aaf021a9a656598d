// watch.go implements the "d2cms watch" command: sync the tree whenever
// documents change, until interrupted.

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/Dyc3r/docs2cms/internal/watch"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (e *Extension) newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever documents change",
		Long: `Sync the docs directory once, then watch it and sync again after every
burst of changes to .md files. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: e.runWatch,
	}
	c.Flags().Duration(extension.FlagDebounce, watch.DefaultDebounce, "Quiet period before syncing")
	return c
}

func (e *Extension) runWatch(c *cobra.Command, _ []string) error {
	debounce, _ := c.Flags().GetDuration(extension.FlagDebounce)
	root := e.ctx.Root()
	logger := e.ctx.Logger()

	api, err := e.ctx.API()
	if err != nil {
		return err
	}

	w, err := watch.New(root, watch.Options{Debounce: debounce, Logger: logger})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	out := cmd.Out()
	e.syncOnce(c.Context(), out, api, nil)

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", root)
	return w.Run(c.Context(), func(ctx context.Context, paths []string) {
		e.syncOnce(ctx, out, api, paths)
	})
}

// syncOnce runs a full sync and reports problems without stopping the
// watcher. A run that finds the tree locked is skipped; the next change
// triggers another.
func (e *Extension) syncOnce(ctx context.Context, w io.Writer, api wordpress.API, changed []string) {
	logger := e.ctx.Logger()
	logger.Debug("sync triggered", zap.Strings("changed", changed))

	result, err := sync.Run(ctx, w, e.ctx.Root(), api, sync.Options{Logger: logger})

	log.Event("cli:watch", "sync").
		Detail("changed", len(changed)).
		Detail("failed", result.Failed).
		Write(err)

	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, sync.ErrLocked):
		logger.Warn("sync skipped", zap.Error(err))
	case err != nil:
		logger.Error("sync failed", zap.Error(err))
	case result.Created+result.Updated+result.Deleted+result.Removed+result.Failed > 0:
		writeSummary(w, result)
		if result.ReportPath != "" {
			fmt.Fprintf(w, "Failures written to %s\n", result.ReportPath)
		}
	}
}
