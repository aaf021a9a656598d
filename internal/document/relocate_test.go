package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relocationTree builds:
//
//	docs/parent.md          (parent_key: grand)
//	docs/parent/child.md    (parent_key: parent)
//	docs/parent/child/leaf.md
//	docs/parent/notes.txt
func relocationTree(t *testing.T, grand string) (root, parentFile string) {
	t.Helper()
	root = t.TempDir()
	docs := filepath.Join(root, "docs")

	parentFile = writeFile(t, filepath.Join(docs, "parent.md"),
		"---\ndocument_key: "+docKey+"\ntitle: Parent\nparent_key: "+grand+"\ndeprecated: false\n---\nParent body\n")
	writeFile(t, filepath.Join(docs, "parent", "child.md"),
		"---\ndocument_key: child-key\ntitle: Child\nparent_key: "+docKey+"\ndocument_hash: childhash\n---\nChild body\n")
	writeFile(t, filepath.Join(docs, "parent", "child", "leaf.md"),
		"---\ndocument_key: leaf-key\ntitle: Leaf\nparent_key: child-key\n---\nLeaf body\n")
	writeFile(t, filepath.Join(docs, "parent", "notes.txt"), "plain")
	return root, parentFile
}

func TestRelocateChildren(t *testing.T) {
	t.Run("moves children up and removes directory", func(t *testing.T) {
		root, parentFile := relocationTree(t, parentKey)
		docs := filepath.Join(root, "docs")

		result, err := document.RelocateChildren(parentFile)
		require.NoError(t, err)

		assert.NoDirExists(t, filepath.Join(docs, "parent"))
		assert.FileExists(t, filepath.Join(docs, "child.md"))
		assert.FileExists(t, filepath.Join(docs, "notes.txt"))
		assert.FileExists(t, filepath.Join(docs, "child", "leaf.md"))
		assert.ElementsMatch(t, []string{filepath.Join(docs, "child.md")}, result.Reparented)
		assert.Len(t, result.Moved, 3)
	})

	t.Run("children inherit grandparent key", func(t *testing.T) {
		root, parentFile := relocationTree(t, parentKey)
		_, err := document.RelocateChildren(parentFile)
		require.NoError(t, err)

		child, err := document.Load(filepath.Join(root, "docs", "child.md"))
		require.NoError(t, err)
		assert.Equal(t, parentKey, child.ParentKey())
		assert.Equal(t, "childhash", child.Hash(), "hash is left for the next sync to recompute")
		assert.Equal(t, "Child body\n", child.Body)
	})

	t.Run("children of a root document become roots", func(t *testing.T) {
		root, parentFile := relocationTree(t, "")
		_, err := document.RelocateChildren(parentFile)
		require.NoError(t, err)

		child, err := document.Load(filepath.Join(root, "docs", "child.md"))
		require.NoError(t, err)
		assert.Empty(t, child.ParentKey())
	})

	t.Run("nested documents untouched", func(t *testing.T) {
		root, parentFile := relocationTree(t, parentKey)
		leafBefore, err := os.ReadFile(filepath.Join(root, "docs", "parent", "child", "leaf.md"))
		require.NoError(t, err)

		_, err = document.RelocateChildren(parentFile)
		require.NoError(t, err)

		leafAfter, err := os.ReadFile(filepath.Join(root, "docs", "child", "leaf.md"))
		require.NoError(t, err)
		assert.Equal(t, leafBefore, leafAfter)
	})

	t.Run("owner unmodified", func(t *testing.T) {
		_, parentFile := relocationTree(t, parentKey)
		before, err := os.ReadFile(parentFile)
		require.NoError(t, err)

		_, err = document.RelocateChildren(parentFile)
		require.NoError(t, err)

		after, err := os.ReadFile(parentFile)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("no child directory", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "docs", "lonely.md"), "---\ntitle: Lonely\n---\n")
		result, err := document.RelocateChildren(path)
		require.NoError(t, err)
		assert.Empty(t, result.Moved)
	})

	t.Run("conflict moves nothing", func(t *testing.T) {
		root, parentFile := relocationTree(t, parentKey)
		writeFile(t, filepath.Join(root, "docs", "notes.txt"), "already here")

		_, err := document.RelocateChildren(parentFile)
		require.ErrorIs(t, err, document.ErrExists)
		assert.FileExists(t, filepath.Join(root, "docs", "parent", "child.md"))
		assert.NoFileExists(t, filepath.Join(root, "docs", "child.md"))
	})
}

func TestMarkDeprecated(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "docs", "old.md"),
		"---\ntitle: Old\ndeprecated: false\ncustom: x\n---\nBody\n")

	require.NoError(t, document.MarkDeprecated(path))

	doc, err := document.Load(path)
	require.NoError(t, err)
	assert.True(t, doc.Deprecated())
	assert.Equal(t, "x", doc.Metadata()["custom"])
	assert.Equal(t, "Body\n", doc.Body)
}

func TestParentKeyForDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "guide.md"), "---\ndocument_key: "+docKey+"\n---\n")

	key, err := document.ParentKeyForDir(root, filepath.Join(root, "docs", "guide"))
	require.NoError(t, err)
	assert.Equal(t, docKey, key)

	key, err = document.ParentKeyForDir(root, filepath.Join(root, "docs", "missing"))
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = document.ParentKeyForDir(root, root)
	require.NoError(t, err)
	assert.Empty(t, key)
}
