package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/Dyc3r/docs2cms/internal/wordpress/wptest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tool func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newHandlers(t *testing.T) (*handlers, *wptest.Server) {
	t.Helper()
	srv := wptest.New(t)
	api, err := wordpress.New(wordpress.Options{APIRoot: srv.URL(), User: "u", Key: "k"})
	require.NoError(t, err)
	h := &handlers{root: t.TempDir(), api: api}
	return h, srv
}

func call(t *testing.T, fn tool, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, res.IsError
}

func writeDoc(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer(Options{Root: t.TempDir()}))
}

func TestStatusTool(t *testing.T) {
	h, _ := newHandlers(t)
	writeDoc(t, h.root, "docs/a.md", "---\ntitle: A\n---\n")
	writeDoc(t, h.root, "misc/b.md", "---\ntitle: B\n---\n")

	out, isErr := call(t, h.statusDocuments, map[string]any{"pending": true})
	require.False(t, isErr, out)

	var got struct {
		Documents []struct {
			Path  string `json:"path"`
			State string `json:"state"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Documents, 2)
	assert.Equal(t, "docs/a.md", got.Documents[0].Path)
	assert.Equal(t, "new", got.Documents[0].State)
	assert.Equal(t, "invalid", got.Documents[1].State)
}

func TestSyncTool(t *testing.T) {
	h, srv := newHandlers(t)
	path := writeDoc(t, h.root, "docs/a.md", "---\ndocument_key: k1\ntitle: A\n---\nHello\n")

	out, isErr := call(t, h.syncDocuments, map[string]any{})
	require.False(t, isErr, out)

	var got struct {
		Result struct {
			Created int `json:"created"`
		} `json:"result"`
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Result.Created)
	assert.Contains(t, got.Output, "docs/a.md")

	doc, err := document.Load(path)
	require.NoError(t, err)
	assert.NotZero(t, doc.WordPressID())
	assert.Equal(t, 1, srv.Count("POST", "wp/v2/docs"))
}

func TestSyncToolDryRun(t *testing.T) {
	h, srv := newHandlers(t)
	writeDoc(t, h.root, "docs/a.md", "---\ntitle: A\n---\n")

	out, isErr := call(t, h.syncDocuments, map[string]any{"dry_run": true})
	require.False(t, isErr, out)
	assert.Empty(t, srv.Requests())
}

func TestRemoteToolsNeedClient(t *testing.T) {
	h := &handlers{root: t.TempDir()}

	out, isErr := call(t, h.syncDocuments, map[string]any{})
	assert.True(t, isErr)
	assert.Equal(t, ErrNoRemote, out)

	_, isErr = call(t, h.diffDocument, map[string]any{"path": "docs/a.md"})
	assert.True(t, isErr)
}

func TestDiffTool(t *testing.T) {
	h, _ := newHandlers(t)
	writeDoc(t, h.root, "docs/a.md", "---\ndocument_key: k1\ntitle: A\n---\nHello\n")
	_, isErr := call(t, h.syncDocuments, map[string]any{})
	require.False(t, isErr)

	out, isErr := call(t, h.diffDocument, map[string]any{"path": "docs/a.md"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "no differences")

	out, isErr = call(t, h.diffDocument, map[string]any{"path": "docs/missing.md"})
	assert.True(t, isErr, out)
}

func TestAddTool(t *testing.T) {
	h, _ := newHandlers(t)

	out, isErr := call(t, h.addDocument, map[string]any{
		"title":        "Hello World",
		"content_type": "posts",
		"path":         "news",
		"tags":         "go, cms",
	})
	require.False(t, isErr, out)
	assert.Equal(t, "created posts/news/hello-world.md", out)

	doc, err := document.Load(filepath.Join(h.root, "posts", "news", "hello-world.md"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "cms"}, doc.Tags())
	assert.NotEmpty(t, doc.Key())

	_, isErr = call(t, h.addDocument, map[string]any{"title": "Hello World", "content_type": "posts", "path": "news"})
	assert.True(t, isErr, "existing file is not overwritten")

	_, isErr = call(t, h.addDocument, map[string]any{"title": "X", "content_type": "videos"})
	assert.True(t, isErr)

	_, isErr = call(t, h.addDocument, map[string]any{})
	assert.True(t, isErr)
}

func TestDeprecateTool(t *testing.T) {
	h, _ := newHandlers(t)
	owner := writeDoc(t, h.root, "docs/guide.md", "---\ndocument_key: p\ntitle: Guide\n---\n")
	writeDoc(t, h.root, "docs/guide/intro.md", "---\ndocument_key: c\ntitle: Intro\nparent_key: p\n---\n")

	out, isErr := call(t, h.deprecateDocument, map[string]any{"path": "docs/guide.md"})
	require.False(t, isErr, out)

	var got struct {
		Moved []string `json:"moved"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"docs/intro.md"}, got.Moved)

	doc, err := document.Load(owner)
	require.NoError(t, err)
	assert.True(t, doc.Deprecated())
}

func TestGuideTool(t *testing.T) {
	h := &handlers{}

	out, isErr := call(t, h.getGuide, map[string]any{"topic": "format"})
	require.False(t, isErr)
	assert.Contains(t, out, "document_key")

	out, _ = call(t, h.getGuide, map[string]any{"topic": "nope"})
	assert.Contains(t, out, "available_topics")
}

func TestReadDocument(t *testing.T) {
	h, _ := newHandlers(t)
	writeDoc(t, h.root, "docs/a.md", "---\ntitle: A\n---\nBody\n")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "d2cms://documents/docs/a.md"
	contents, err := h.readDocument(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Body")

	req.Params.URI = "d2cms://documents/../secret.md"
	_, err = h.readDocument(context.Background(), req)
	assert.Error(t, err)
}

func TestParseDocumentURI(t *testing.T) {
	path, err := parseDocumentURI("d2cms://documents/posts/x.md")
	require.NoError(t, err)
	assert.Equal(t, "posts/x.md", path)

	_, err = parseDocumentURI("other://documents/x.md")
	assert.ErrorIs(t, err, ErrInvalidURI)

	_, err = parseDocumentURI("d2cms://documents/")
	assert.ErrorIs(t, err, ErrEmptyPath)
}
