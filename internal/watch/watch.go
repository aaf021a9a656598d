// Package watch reports changes to markdown files under a docs tree.
//
// fsnotify watches single directories, so every directory of the tree is
// registered up front and new directories are added as they appear. Events
// are debounced: a burst of saves produces one callback listing every
// changed path.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/report"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a callback fires.
const DefaultDebounce = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches a docs tree. Create with New, release with Close.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger
}

// New starts watching every directory under root.
func New(root string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		fsw:      fsw,
		debounce: opts.Debounce,
		log:      opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// changed .md paths after each quiet period. onChange runs on the Run
// goroutine, so events arriving meanwhile are batched into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, paths []string)) error {
	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			onChange(ctx, paths)
		}
	}
}

// handle registers new directories and reports whether event concerns a
// markdown document.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if ignored(w.root, event.Name) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}
	if !document.IsMarkdown(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && ignored(w.root, path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.log.Debug("watching", zap.String("dir", path))
		return nil
	})
}

// ignored reports whether path lies in a hidden or report directory, or is
// itself hidden.
func ignored(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") || part == report.DirName {
			return true
		}
	}
	return false
}
