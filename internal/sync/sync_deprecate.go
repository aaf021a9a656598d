// sync_deprecate.go marks a document for deletion on the next run.

package sync

import (
	"fmt"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/log"
)

// Deprecate sets deprecated: true on the document at path (absolute or
// relative to root) and moves its children up one level. It holds the sync
// lock so a run never sees the tree half relocated.
func Deprecate(root, path string) (document.Relocation, error) {
	var rel document.Relocation

	file, single, err := resolveStart(root, path)
	if err != nil {
		return rel, err
	}
	if !single {
		return rel, fmt.Errorf("deprecate path %s is not a .md file", path)
	}

	unlock, err := Lock(root)
	if err != nil {
		return rel, err
	}
	defer func() { _ = unlock() }()

	err = document.MarkDeprecated(file)
	if err == nil {
		rel, err = document.RelocateChildren(file)
	}

	log.Event("sync:deprecate", "deprecate").
		Path(path).
		Detail("moved", len(rel.Moved)).
		Write(err)

	return rel, err
}
