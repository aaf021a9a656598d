// sync_fs.go walks the docs tree and guards it with a lock file.

package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/report"
	"github.com/gofrs/flock"
)

// MaxScanDepth limits directory recursion.
const MaxScanDepth = 100

// StateDir is the hidden directory under the docs root holding the lock.
const StateDir = ".d2cms"

// Walk syncs every .md file in dir, then every subdirectory, depth first.
//
// dir is listed once. Subdirectories are checked again right before they are
// entered, since syncing a deprecated document may have removed one. The
// report directory and hidden directories are never entered. Entries are
// visited in the order os.ReadDir returns them (lexical), which callers
// should not rely on beyond files-before-directories.
//
// Errors listing a directory, and ctx cancellation, end the walk.
func (s *Syncer) Walk(ctx context.Context, dir string) error {
	return s.walk(ctx, dir, 0)
}

func (s *Syncer) walk(ctx context.Context, dir string, depth int) error {
	if depth > MaxScanDepth {
		return fmt.Errorf("directory depth exceeds limit of %d", MaxScanDepth)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	var subdirs []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := e.Name()
		switch {
		case e.IsDir():
			if !skipDir(name) {
				subdirs = append(subdirs, filepath.Join(dir, name))
			}
		case e.Type().IsRegular() && document.IsMarkdown(name) && !strings.HasPrefix(name, "."):
			s.Document(ctx, filepath.Join(dir, name))
		}
	}

	for _, sub := range subdirs {
		info, err := os.Stat(sub)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
			continue
		}
		if err != nil {
			return fmt.Errorf("checking %s: %w", sub, err)
		}
		if err := s.walk(ctx, sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// skipDir reports whether the walker stays out of a directory.
func skipDir(name string) bool {
	return name == report.DirName || strings.HasPrefix(name, ".")
}

// Lock takes the exclusive lock on the docs tree at root, failing with
// ErrLocked if another process holds it. The returned function releases it.
func Lock(root string) (func() error, error) {
	dir := filepath.Join(root, StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	lock := flock.New(filepath.Join(dir, "sync.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return lock.Unlock, nil
}
