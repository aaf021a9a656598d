// sync_detect.go classifies documents without contacting WordPress.
//
// Detection compares each document's stored document_hash with its current
// fingerprint, which is exactly the decision a sync run makes before any
// remote call. It backs the status command and the MCP status tool.

package sync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dyc3r/docs2cms/internal/document"
)

// State is the local sync state of a document.
type State string

const (
	StateNew        State = "new"        // never synced
	StateChanged    State = "changed"    // synced, edited since
	StateUnchanged  State = "unchanged"  // fingerprint matches
	StateDeprecated State = "deprecated" // will be deleted on the next sync
	StateInvalid    State = "invalid"    // cannot be synced as is
)

// Status is one classified document.
type Status struct {
	Path        string               `json:"path"`
	ContentType document.ContentType `json:"content_type,omitempty"`
	State       State                `json:"state"`
	WordPressID int                  `json:"wordpress_id,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Changes lists the statuses of a tree in walk order.
type Changes struct {
	Statuses []Status `json:"documents"`
}

// Pending returns the documents a non-forced sync would act on.
func (c Changes) Pending() []Status {
	var out []Status
	for _, st := range c.Statuses {
		if st.State != StateUnchanged {
			out = append(out, st)
		}
	}
	return out
}

// Count returns how many documents are in state.
func (c Changes) Count(state State) int {
	n := 0
	for _, st := range c.Statuses {
		if st.State == state {
			n++
		}
	}
	return n
}

// Empty reports whether nothing would be synced.
func (c Changes) Empty() bool {
	return len(c.Pending()) == 0
}

// Detect classifies every document under root, in the order a sync run
// would visit them. sub narrows the scan like Options.Path does.
func Detect(root, sub string) (Changes, error) {
	var changes Changes

	start, single, err := resolveStart(root, sub)
	if err != nil {
		return changes, err
	}
	if single {
		changes.Statuses = append(changes.Statuses, Classify(root, start))
		return changes, nil
	}

	files, err := scanDir(start, 0)
	if err != nil {
		return changes, err
	}
	for _, f := range files {
		changes.Statuses = append(changes.Statuses, Classify(root, f))
	}
	return changes, nil
}

// Classify returns the state of the document at path.
func Classify(root, path string) Status {
	rel, err := document.RelPath(root, path)
	if err != nil {
		rel = path
	}
	st := Status{Path: rel}
	invalid := func(err error) Status {
		st.State = StateInvalid
		st.Error = err.Error()
		return st
	}

	doc, err := document.Load(path)
	if err != nil {
		return invalid(err)
	}
	st.WordPressID = doc.WordPressID()

	ct, err := document.ContentTypeFromPath(root, path)
	if err != nil {
		return invalid(err)
	}
	st.ContentType = ct

	if doc.Deprecated() {
		st.State = StateDeprecated
		return st
	}

	fp, err := document.Fingerprint(doc, rel)
	if err != nil {
		return invalid(err)
	}
	switch {
	case doc.Hash() == fp:
		st.State = StateUnchanged
	case doc.WordPressID() == 0:
		st.State = StateNew
	default:
		st.State = StateChanged
	}
	return st
}

// scanDir lists the files Walk would visit, files before subdirectories.
func scanDir(dir string, depth int) ([]string, error) {
	if depth > MaxScanDepth {
		return nil, fmt.Errorf("directory depth exceeds limit of %d", MaxScanDepth)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files, subdirs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if !skipDir(name) {
				subdirs = append(subdirs, filepath.Join(dir, name))
			}
		} else if e.Type().IsRegular() && document.IsMarkdown(name) && !strings.HasPrefix(name, ".") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	for _, sub := range subdirs {
		nested, err := scanDir(sub, depth+1)
		if err != nil {
			return nil, err
		}
		files = append(files, nested...)
	}
	return files, nil
}
