// Package sync pushes a tree of markdown documents to WordPress.
//
// A run walks the docs root (or a subtree), handing every .md file to
// [Syncer.Document]. Each document is fingerprinted; unchanged documents are
// skipped, changed ones are created or updated remotely and their frontmatter
// is updated with the remote id and new fingerprint, and deprecated ones are
// deleted remotely and then locally. A failure is recorded in the run's
// report and never stops the remaining documents.
//
// Files in a directory are processed before its subdirectories, so a parent
// document "x.md" is always synced before the children in "x/". Runs hold an
// exclusive lock on the tree for their whole duration.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/progress"
	"github.com/Dyc3r/docs2cms/internal/report"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"go.uber.org/zap"
)

// Options configures a sync run.
type Options struct {
	Path   string      // subtree or single document to sync; empty means the whole root
	Force  bool        // sync documents even when their fingerprint matches
	DryRun bool        // decide what would happen without calling WordPress or writing files
	Logger *zap.Logger // run log; nil discards
	Now    func() time.Time
}

// Result summarises a run.
type Result struct {
	Created    int              `json:"created"`
	Updated    int              `json:"updated"`
	Deleted    int              `json:"deleted"`
	Removed    int              `json:"removed"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	DryRun     bool             `json:"dry_run,omitempty"`
	Failures   []report.Failure `json:"failures,omitempty"`
	ReportPath string           `json:"report_path,omitempty"`
}

// Total returns the number of documents visited.
func (r Result) Total() int {
	return r.Created + r.Updated + r.Deleted + r.Removed + r.Skipped + r.Failed
}

func (r *Result) add(o Outcome) {
	switch o.Action {
	case Created:
		r.Created++
	case Updated:
		r.Updated++
	case Deleted:
		r.Deleted++
	case Removed:
		r.Removed++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
	}
}

// Run syncs the docs tree at root, writing one line per document action to w.
// The failure report is saved under root unless the run is a dry run; its
// path is returned in Result.ReportPath. The returned error is reserved for
// problems that end the run early: the lock, an unreadable directory or ctx
// cancellation. Per-document failures only show up in the Result.
func Run(ctx context.Context, w io.Writer, root string, api wordpress.API, opts Options) (Result, error) {
	result := Result{DryRun: opts.DryRun}

	start, single, err := resolveStart(root, opts.Path)
	if err != nil {
		return result, err
	}

	unlock, err := Lock(root)
	if err != nil {
		return result, err
	}
	defer func() { _ = unlock() }()

	rep := report.New()
	s := New(root, api, rep, w, opts)

	var walkErr error
	if single {
		s.Document(ctx, start)
	} else {
		files, err := scanDir(start, 0)
		if err != nil {
			return result, err
		}
		s.progress = progress.New("Syncing", len(files))
		walkErr = s.Walk(ctx, start)
		s.progress.Done()
	}

	result = s.Result()
	result.Failures = rep.Failures()

	if !opts.DryRun {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		path, err := rep.Save(root, now())
		if err != nil {
			return result, errors.Join(walkErr, err)
		}
		result.ReportPath = path
	}

	log.Event("sync:run", "run").
		Path(opts.Path).
		Detail("created", result.Created).
		Detail("updated", result.Updated).
		Detail("deleted", result.Deleted+result.Removed).
		Detail("skipped", result.Skipped).
		Detail("failed", result.Failed).
		Detail("dry_run", opts.DryRun).
		Write(walkErr)

	return result, walkErr
}

// resolveStart returns the directory, or single document, a run starts from.
func resolveStart(root, sub string) (start string, single bool, err error) {
	if sub == "" {
		return root, false, nil
	}
	start = sub
	if !filepath.IsAbs(start) {
		start = filepath.Join(root, sub)
	}
	rel, err := filepath.Rel(root, start)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, fmt.Errorf("%w: %s", ErrOutsideRoot, sub)
	}
	info, err := os.Stat(start)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("sync path %s does not exist", sub)
	}
	if err != nil {
		return "", false, err
	}
	if info.IsDir() {
		return start, false, nil
	}
	if !document.IsMarkdown(start) {
		return "", false, fmt.Errorf("sync path %s is not a directory or .md file", sub)
	}
	return start, true, nil
}
