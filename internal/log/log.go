// Package log keeps an audit trail of d2cms operations. Entries are stored
// in ~/.d2cms/log/d2cms-log.db and record every CLI command, MCP tool call
// and per-document sync action across all docs trees on the machine.
//
// # Fluent API
//
//	log.Event("sync:document", "created").
//		Path("docs/guide.md").
//		Key(doc.Key()).
//		WordPressID(42).
//		Write(err)
//
//	log.Event("cli:sync", "run").
//		Detail("created", result.Created).
//		Detail("failed", result.Failed).
//		Write(err)
//
// The source is "{area}:{name}": "cli:{command}" for commands, "mcp:{tool}"
// for MCP tools and "sync:document" for engine actions.
//
// Logging is best effort. A failed write is reported on stderr and never
// fails the operation being logged.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry is a single audit record.
type Entry struct {
	ID          int64
	Source      string // e.g. "cli:sync", "mcp:d2cms_add", "sync:document"
	Action      string // verb: run, created, updated, deleted, removed, failed, ...
	Path        string // document path relative to the docs root
	Key         string // document_key, when known
	WordPressID int    // remote id, when known

	Start int64 // unix time when Event was called
	End   int64 // unix time when Write was called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs an Entry. Create with [Event], finish with [Builder.Write].
type Builder struct {
	entry Entry
}

// Event starts an entry for source and action.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Path sets the document path the operation affects.
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Key sets the document_key of the affected document.
func (b *Builder) Key(key string) *Builder {
	b.entry.Key = key
	return b
}

// WordPressID sets the remote id of the affected document.
func (b *Builder) WordPressID(id int) *Builder {
	b.entry.WordPressID = id
	return b
}

// Detail adds a key-value pair. Can be called repeatedly.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write records the entry, as a failure when err is non-nil.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Calling it again is a no-op.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject scopes subsequent entries, and Recent, to the docs tree at dir.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		global.project = hash(dir)
	}
}

// Log writes e. It is a no-op until Open succeeds.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns up to n entries for the current project, newest first.
// It returns nothing when the logger is not open.
func Recent(n int) ([]Entry, error) {
	return RecentSince(n, time.Time{})
}

// RecentSince is Recent limited to entries started at or after since. A zero
// since means no lower bound.
func RecentSince(n int, since time.Time) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	var from int64
	if !since.IsZero() {
		from = since.Unix()
	}
	return l.recent(n, from)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
