package log

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = orig
	})
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		SetProject("/test/docs")

		Log(Entry{
			Source:      "sync:document",
			Action:      "created",
			Path:        "docs/guide.md",
			Key:         "k1",
			WordPressID: 42,
			Success:     true,
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, action, path, key string
		var wpID, success int
		err = db.QueryRow("SELECT source, action, path, document_key, wordpress_id, success FROM log ORDER BY id DESC LIMIT 1").
			Scan(&source, &action, &path, &key, &wpID, &success)
		require.NoError(t, err)
		assert.Equal(t, "sync:document", source)
		assert.Equal(t, "created", action)
		assert.Equal(t, "docs/guide.md", path)
		assert.Equal(t, "k1", key)
		assert.Equal(t, 42, wpID)
		assert.Equal(t, 1, success)
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()
		Log(Entry{Source: "cli:test", Action: "test", Success: true})
	})

	t.Run("open is idempotent", func(t *testing.T) {
		require.NoError(t, Open())
		require.NoError(t, Open())
		Close()
	})
}

func TestBuilder(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())
	SetProject("/test/docs")

	Event("sync:document", "updated").Path("docs/a.md").WordPressID(7).Write(nil)
	Event("sync:document", "failed").Path("docs/b.md").Write(errors.New("HTTP 500"))
	Event("cli:sync", "run").Detail("created", 1).Detail("failed", 1).Write(nil)

	entries, err := Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "cli:sync", entries[0].Source)
	assert.EqualValues(t, 1, entries[0].Detail["created"])

	assert.Equal(t, "failed", entries[1].Action)
	assert.False(t, entries[1].Success)
	assert.Equal(t, "HTTP 500", entries[1].Error)

	assert.Equal(t, "docs/a.md", entries[2].Path)
	assert.Equal(t, 7, entries[2].WordPressID)
	assert.True(t, entries[2].Success)
}

func TestRecentScopedToProject(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())

	SetProject("/one")
	Event("cli:sync", "run").Write(nil)
	SetProject("/two")
	Event("cli:add", "create").Write(nil)
	Event("cli:add", "create").Write(nil)

	entries, err := Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	limited, err := Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecentSince(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())
	SetProject("/since")

	now := time.Now()
	Log(Entry{Source: "sync:document", Action: "created", Start: now.Add(-48 * time.Hour).Unix(), Success: true})
	Log(Entry{Source: "sync:document", Action: "updated", Start: now.Unix(), Success: true})

	entries, err := RecentSince(10, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "updated", entries[0].Action)

	all, err := RecentSince(10, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecentWithoutLogger(t *testing.T) {
	Close()
	entries, err := Recent(5)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHash(t *testing.T) {
	h1 := hash("/home/user/docs")
	h2 := hash("/home/user/docs")
	h3 := hash("/home/user/other")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 16)
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	orig := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = orig }()

	assert.Equal(t, filepath.Join(home, ".d2cms", "log", "d2cms-log.db"), DBPath())
}
