// log_storage.go persists audit entries in SQLite.
//
// The project column holds a short hash of the docs directory rather than
// the path itself, so logs from several trees share one database.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, action, path, document_key,
		                 wordpress_id, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.project, e.Source, e.Action,
		nilIfEmpty(e.Path), nilIfEmpty(e.Key), nilIfZero(e.WordPressID),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "d2cms: audit log write failed: %v\n", err)
	}
}

func (l *Logger) recent(n int, from int64) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := l.db.Query(`
		SELECT id, start, end, source, action, path, document_key, wordpress_id,
		       success, error, detail
		FROM log WHERE project = ? AND start >= ?
		ORDER BY id DESC LIMIT ?`, l.project, from, n)
	if err != nil {
		return nil, fmt.Errorf("querying log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			path, key, errMsg sql.NullString
			detail            sql.NullString
			wpID              sql.NullInt64
			success           int
		)
		if err := rows.Scan(&e.ID, &e.Start, &e.End, &e.Source, &e.Action,
			&path, &key, &wpID, &success, &errMsg, &detail); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		e.Path = path.String
		e.Key = key.String
		e.WordPressID = int(wpID.Int64)
		e.Success = success == 1
		e.Error = errMsg.String
		if detail.Valid {
			_ = json.Unmarshal([]byte(detail.String), &e.Detail)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// dbPathFunc returns the database path. Tests override it.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".d2cms", "log", "d2cms-log.db")
	}
	return filepath.Join(home, ".d2cms", "log", "d2cms-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash returns a 16 hex char BLAKE2b-64 digest of s.
func hash(s string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			start        INTEGER NOT NULL,
			end          INTEGER NOT NULL,
			project      TEXT NOT NULL,
			source       TEXT NOT NULL,
			action       TEXT NOT NULL,
			path         TEXT,
			document_key TEXT,
			wordpress_id INTEGER,
			success      INTEGER NOT NULL,
			error        TEXT,
			detail       TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_source ON log(source);
	`)
	return err
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
