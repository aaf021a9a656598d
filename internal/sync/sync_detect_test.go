package sync_test

import (
	"testing"

	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	f := setup(t)
	f.write(t, "docs/new.md", "---\ntitle: New\n---\n")
	f.writeSynced(t, "docs/same.md", "---\ntitle: Same\nwordpress_id: 3\n---\n")
	f.write(t, "docs/edited.md", "---\ntitle: Edited\nwordpress_id: 4\ndocument_hash: old\n---\n")
	f.write(t, "docs/gone.md", "---\ntitle: Gone\ndeprecated: true\n---\n")
	f.write(t, "misc/bad.md", "---\ntitle: Bad\n---\n")
	f.write(t, "docs/broken.md", "---\ntitle: Broken\n")

	changes, err := sync.Detect(f.root, "")
	require.NoError(t, err)

	states := map[string]sync.State{}
	for _, st := range changes.Statuses {
		states[st.Path] = st.State
	}
	assert.Equal(t, map[string]sync.State{
		"docs/new.md":    sync.StateNew,
		"docs/same.md":   sync.StateUnchanged,
		"docs/edited.md": sync.StateChanged,
		"docs/gone.md":   sync.StateDeprecated,
		"misc/bad.md":    sync.StateInvalid,
		"docs/broken.md": sync.StateInvalid,
	}, states)

	assert.Equal(t, 1, changes.Count(sync.StateUnchanged))
	assert.Len(t, changes.Pending(), 5)
	assert.False(t, changes.Empty())
	assert.Empty(t, f.srv.Requests())
}

func TestDetectOrder(t *testing.T) {
	f := setup(t)
	f.write(t, "docs/guide/child.md", "---\ntitle: Child\n---\n")
	f.write(t, "docs/guide.md", "---\ntitle: Guide\n---\n")
	f.write(t, "docs/zeta.md", "---\ntitle: Zeta\n---\n")

	changes, err := sync.Detect(f.root, "docs")
	require.NoError(t, err)

	var paths []string
	for _, st := range changes.Statuses {
		paths = append(paths, st.Path)
	}
	assert.Equal(t, []string{"docs/guide.md", "docs/zeta.md", "docs/guide/child.md"}, paths)
}
