package sync_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/report"
	"github.com/Dyc3r/docs2cms/internal/sync"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/Dyc3r/docs2cms/internal/wordpress/wptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	parentKey = "0195f1e2-0000-7000-8000-000000000001"
	childKey  = "0195f1e2-0000-7000-8000-000000000002"
)

type fixture struct {
	root string
	srv  *wptest.Server
	api  *wordpress.Client
}

func setup(t *testing.T) *fixture {
	t.Helper()
	srv := wptest.New(t)
	api, err := wordpress.New(wordpress.Options{APIRoot: srv.URL(), User: "u", Key: "k"})
	require.NoError(t, err)
	return &fixture{root: t.TempDir(), srv: srv, api: api}
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeSynced writes a document whose stored hash matches its fingerprint.
func (f *fixture) writeSynced(t *testing.T, rel, content string) string {
	t.Helper()
	path := f.write(t, rel, content)
	doc, err := document.Load(path)
	require.NoError(t, err)
	fp, err := document.Fingerprint(doc, rel)
	require.NoError(t, err)
	require.NoError(t, doc.Set(document.KeyDocumentHash, fp))
	require.NoError(t, doc.Save(path))
	return path
}

func (f *fixture) run(t *testing.T, opts sync.Options) (sync.Result, string) {
	t.Helper()
	var out bytes.Buffer
	result, err := sync.Run(context.Background(), &out, f.root, f.api, opts)
	require.NoError(t, err)
	return result, out.String()
}

func load(t *testing.T, path string) *document.Document {
	t.Helper()
	doc, err := document.Load(path)
	require.NoError(t, err)
	return doc
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSkipWhenUnchanged(t *testing.T) {
	f := setup(t)
	path := f.writeSynced(t, "docs/guide.md", "---\ntitle: Guide\nwordpress_id: 5\n---\nBody\n")
	before := read(t, path)

	result, _ := f.run(t, sync.Options{})

	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, f.srv.Requests())
	assert.Equal(t, before, read(t, path))
}

func TestForceBypassesFingerprint(t *testing.T) {
	f := setup(t)
	id := f.srv.AddItem("docs", "k")
	path := f.writeSynced(t, "docs/guide.md", "---\ntitle: Guide\nwordpress_id: "+itoa(id)+"\n---\nBody\n")

	result, _ := f.run(t, sync.Options{Force: true})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, wordpress.ItemRoute("docs", id)))
	assert.Equal(t, id, load(t, path).WordPressID())
}

func TestCreate(t *testing.T) {
	f := setup(t)
	path := f.write(t, "pages/about.md",
		"---\ndocument_key: "+parentKey+"\ntitle: About Us\nslug: about\norder: 2\ntags: [team]\ncustom: kept\n---\n# About Us\n\nHello **there**\n")

	result, out := f.run(t, sync.Options{})
	require.Equal(t, 1, result.Created, out)

	doc := load(t, path)
	require.NotZero(t, doc.WordPressID())
	assert.Equal(t, "kept", doc.Metadata()["custom"])

	fp, err := document.Fingerprint(doc, "pages/about.md")
	require.NoError(t, err)
	assert.Equal(t, fp, doc.Hash(), "stored hash matches the saved document")

	item, ok := f.srv.Item("pages", doc.WordPressID())
	require.True(t, ok)
	assert.Equal(t, "about", item["slug"])
	assert.Equal(t, "About Us", item["title"])
	assert.Equal(t, "publish", item["status"])
	assert.EqualValues(t, 2, item["menu_order"])
	assert.EqualValues(t, 0, item["parent"])
	assert.Contains(t, item["content"], "<strong>there</strong>")
	assert.NotContains(t, item["content"], "<h1>")
	meta := item["meta"].(map[string]any)
	assert.Equal(t, parentKey, meta["document_key"])
	assert.NotEmpty(t, meta["document_hash"])
	assert.Len(t, item["tags"], 1)

	assert.Contains(t, out, "Created: pages/about.md")

	t.Run("second run skips", func(t *testing.T) {
		writes := f.srv.Writes()
		result, _ := f.run(t, sync.Options{})
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, writes, f.srv.Writes())
	})
}

func TestUpdateRoutesToItem(t *testing.T) {
	f := setup(t)
	id := f.srv.AddItem("posts", "k")
	path := f.write(t, "posts/news.md", "---\ntitle: News\nwordpress_id: "+itoa(id)+"\ndocument_hash: stale\n---\nBody\n")

	result, _ := f.run(t, sync.Options{})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, wordpress.ItemRoute("posts", id)))
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, "wp/v2/posts"), "only the update call")
	assert.Equal(t, id, load(t, path).WordPressID())
	assert.NotEqual(t, "stale", load(t, path).Hash())
}

func TestParentSyncedBeforeChild(t *testing.T) {
	f := setup(t)
	parent := f.write(t, "docs/guide.md", "---\ndocument_key: "+parentKey+"\ntitle: Guide\n---\nParent\n")
	child := f.write(t, "docs/guide/install.md",
		"---\ndocument_key: "+childKey+"\ntitle: Install\nparent_key: "+parentKey+"\n---\nChild\n")

	result, out := f.run(t, sync.Options{})
	require.Equal(t, 2, result.Created, out)

	parentID := load(t, parent).WordPressID()
	childID := load(t, child).WordPressID()
	item, ok := f.srv.Item("docs", childID)
	require.True(t, ok)
	assert.EqualValues(t, parentID, item["parent"])
}

func TestMissingParentFails(t *testing.T) {
	f := setup(t)
	path := f.write(t, "docs/orphan.md", "---\ntitle: Orphan\nparent_key: "+childKey+"\n---\nBody\n")
	before := read(t, path)

	result, out := f.run(t, sync.Options{Now: fixedNow})

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "docs/orphan.md", result.Failures[0].Path)
	assert.Equal(t, "docs", result.Failures[0].ContentType)
	assert.Contains(t, result.Failures[0].Summary, childKey)
	assert.Zero(t, f.srv.Writes())
	assert.Equal(t, before, read(t, path))
	assert.Contains(t, out, "Failed: docs/orphan.md")

	assert.Equal(t, filepath.Join(f.root, report.DirName, "20260118T093000.csv"), result.ReportPath)
	assert.Contains(t, read(t, result.ReportPath), "docs/orphan.md,docs,,")
}

func TestDeprecated(t *testing.T) {
	t.Run("never synced is removed locally", func(t *testing.T) {
		f := setup(t)
		path := f.write(t, "docs/old.md", "---\ntitle: Old\ndeprecated: true\n---\n")

		result, _ := f.run(t, sync.Options{})

		assert.Equal(t, 1, result.Removed)
		assert.NoFileExists(t, path)
		assert.Empty(t, f.srv.Requests())
	})

	t.Run("synced is deleted remotely then locally", func(t *testing.T) {
		f := setup(t)
		id := f.srv.AddItem("docs", "k")
		path := f.write(t, "docs/old.md", "---\ntitle: Old\nwordpress_id: "+itoa(id)+"\ndeprecated: true\n---\n")

		result, _ := f.run(t, sync.Options{})

		assert.Equal(t, 1, result.Deleted)
		assert.NoFileExists(t, path)
		assert.Equal(t, 1, f.srv.Count(http.MethodDelete, wordpress.ItemRoute("docs", id)))
		_, ok := f.srv.Item("docs", id)
		assert.False(t, ok)
	})

	t.Run("failed delete keeps file", func(t *testing.T) {
		f := setup(t)
		id := f.srv.AddItem("docs", "k")
		f.srv.Fail(http.MethodDelete, wordpress.ItemRoute("docs", id), http.StatusInternalServerError)
		path := f.write(t, "docs/old.md", "---\ntitle: Old\nwordpress_id: "+itoa(id)+"\ndeprecated: true\n---\n")

		result, _ := f.run(t, sync.Options{})

		assert.Equal(t, 1, result.Failed)
		assert.FileExists(t, path)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, id, result.Failures[0].WordPressID)
	})
}

func TestPartialFailureIsolation(t *testing.T) {
	f := setup(t)
	badID := f.srv.AddItem("docs", "bad")
	f.srv.Fail(http.MethodPost, wordpress.ItemRoute("docs", badID), http.StatusInternalServerError)

	f.write(t, "docs/a.md", "---\ntitle: A\n---\nA\n")
	bad := f.write(t, "docs/b.md", "---\ntitle: B\nwordpress_id: "+itoa(badID)+"\n---\nB\n")
	f.write(t, "docs/c.md", "---\ntitle: C\n---\nC\n")
	f.write(t, "stray/d.md", "---\ntitle: D\n---\nD\n")
	f.write(t, "top.md", "---\ntitle: Top\n---\n")

	result, _ := f.run(t, sync.Options{Now: fixedNow})

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 3, result.Failed)
	assert.Empty(t, load(t, bad).Hash(), "failed document is not marked synced")

	paths := map[string]bool{}
	for _, fl := range result.Failures {
		paths[fl.Path] = true
	}
	assert.Equal(t, map[string]bool{"docs/b.md": true, "stray/d.md": true, "top.md": true}, paths)
	assert.FileExists(t, result.ReportPath)
}

func TestTagsCreatedOnce(t *testing.T) {
	f := setup(t)
	f.write(t, "posts/one.md", "---\ntitle: One\ntags: [go, cms]\n---\n")
	f.write(t, "posts/two.md", "---\ntitle: Two\ntags: [cms, go]\n---\n")

	result, _ := f.run(t, sync.Options{})
	require.Equal(t, 2, result.Created)

	assert.Len(t, f.srv.Tags(), 2)
	assert.Equal(t, 2, f.srv.Count(http.MethodPost, wordpress.TagsRoute))

	t.Run("across runs", func(t *testing.T) {
		f.write(t, "posts/three.md", "---\ntitle: Three\ntags: [go]\n---\n")
		_, _ = f.run(t, sync.Options{})
		assert.Len(t, f.srv.Tags(), 2)
	})
}

func TestDryRun(t *testing.T) {
	f := setup(t)
	id := f.srv.AddItem("docs", "k")
	created := f.write(t, "docs/new.md", "---\ntitle: New\ntags: [x]\n---\n")
	updated := f.write(t, "docs/edit.md", "---\ntitle: Edit\nwordpress_id: "+itoa(id)+"\n---\n")
	deleted := f.write(t, "docs/gone.md", "---\ntitle: Gone\nwordpress_id: "+itoa(id)+"\ndeprecated: true\n---\n")
	before := map[string]string{created: read(t, created), updated: read(t, updated), deleted: read(t, deleted)}

	result, out := f.run(t, sync.Options{DryRun: true})

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, f.srv.Requests())
	assert.Empty(t, result.ReportPath)
	for path, content := range before {
		assert.Equal(t, content, read(t, path))
	}
	assert.Contains(t, out, "Would create: docs/new.md")
	assert.Contains(t, out, "Would delete: docs/gone.md")
}

func TestWalkSkipsReportAndHiddenDirs(t *testing.T) {
	f := setup(t)
	f.write(t, report.DirName+"/docs/x.md", "---\ntitle: X\n---\n")
	f.write(t, "docs/.drafts/y.md", "---\ntitle: Y\n---\n")
	f.write(t, ".git/z.md", "---\ntitle: Z\n---\n")
	f.write(t, "docs/notes.txt", "not markdown")

	result, _ := f.run(t, sync.Options{})

	assert.Zero(t, result.Total())
}

// removingAPI deletes dir the first time anything is posted.
type removingAPI struct {
	wordpress.API
	t    *testing.T
	dir  string
	done bool
}

func (a *removingAPI) Post(ctx context.Context, route string, body, out any) error {
	if !a.done {
		a.done = true
		require.NoError(a.t, os.RemoveAll(a.dir))
	}
	return a.API.Post(ctx, route, body, out)
}

func TestWalkSkipsDirectoryRemovedDuringRun(t *testing.T) {
	f := setup(t)
	f.write(t, "docs/x.md", "---\ntitle: X\n---\n")
	f.write(t, "docs/x/child.md", "---\ntitle: Child\n---\n")
	api := &removingAPI{API: f.api, t: t, dir: filepath.Join(f.root, "docs", "x")}

	var out bytes.Buffer
	result, err := sync.Run(context.Background(), &out, f.root, api, sync.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Total(), "removed directory is not walked")
	assert.Zero(t, result.Failed)
	assert.NotContains(t, out.String(), "child.md")
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, "wp/v2/docs"))
}

func TestRunSubtree(t *testing.T) {
	f := setup(t)
	f.write(t, "docs/a.md", "---\ntitle: A\n---\n")
	f.write(t, "posts/b.md", "---\ntitle: B\n---\n")

	result, _ := f.run(t, sync.Options{Path: "posts"})
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, "wp/v2/posts"))

	single, _ := f.run(t, sync.Options{Path: "docs/a.md"})
	assert.Equal(t, 1, single.Created)

	var out bytes.Buffer
	_, err := sync.Run(context.Background(), &out, f.root, f.api, sync.Options{Path: "../elsewhere"})
	assert.ErrorIs(t, err, sync.ErrOutsideRoot)
}

func TestRunLocked(t *testing.T) {
	f := setup(t)
	unlock, err := sync.Lock(f.root)
	require.NoError(t, err)
	defer unlock()

	_, err = sync.Run(context.Background(), &bytes.Buffer{}, f.root, f.api, sync.Options{})
	assert.ErrorIs(t, err, sync.ErrLocked)
}

func TestRunCancelled(t *testing.T) {
	f := setup(t)
	f.write(t, "docs/a.md", "---\ntitle: A\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sync.Run(ctx, &bytes.Buffer{}, f.root, f.api, sync.Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.srv.Requests())
}

func TestDocumentOutcome(t *testing.T) {
	f := setup(t)
	path := f.write(t, "docs/a.md", "---\ntitle: A\n---\n")
	rep := report.New()
	s := sync.New(f.root, f.api, rep, nil, sync.Options{})

	o := s.Document(context.Background(), path)
	assert.Equal(t, sync.Created, o.Action)
	assert.Equal(t, "docs/a.md", o.Path)
	assert.Equal(t, document.Docs, o.ContentType)
	assert.NotZero(t, o.WordPressID)
	assert.NoError(t, o.Err)
	assert.False(t, rep.HasFailures())
	assert.Equal(t, 1, s.Result().Created)
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 18, 9, 30, 0, 0, time.UTC)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
