// Package report collects per-document sync failures and writes them out as
// a CSV file once a run ends.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DirName is the directory, under the docs root, that holds report files.
// The directory walker never descends into it.
const DirName = "d2cms-sync-results"

// TimeFormat names report files, e.g. 20260118T093000.csv.
const TimeFormat = "20060102T150405"

// Header is the CSV column order.
var Header = []string{"doc_path", "content_type", "wordpress_id", "error_summary"}

// Failure is one document that could not be synced.
type Failure struct {
	Path        string `json:"doc_path"`
	ContentType string `json:"content_type,omitempty"`
	WordPressID int    `json:"wordpress_id,omitempty"`
	Summary     string `json:"error_summary"`
}

// Report is an append-only list of failures. The zero value is ready to use
// and safe for concurrent use.
type Report struct {
	mu       sync.Mutex
	failures []Failure
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Record appends a failure for the document at path (relative to the docs
// root). contentType may be empty and id zero when they are not known.
func (r *Report) Record(path, contentType string, id int, err error) {
	summary := ""
	if err != nil {
		summary = err.Error()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{
		Path:        path,
		ContentType: contentType,
		WordPressID: id,
		Summary:     summary,
	})
}

// HasFailures reports whether anything was recorded.
func (r *Report) HasFailures() bool {
	return r.Count() > 0
}

// Count returns the number of recorded failures.
func (r *Report) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

// Failures returns a copy of the recorded failures in insertion order.
func (r *Report) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

// WriteCSV writes the header and one row per failure. Unknown content types
// and ids are written as empty cells.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, f := range r.Failures() {
		id := ""
		if f.WordPressID != 0 {
			id = strconv.Itoa(f.WordPressID)
		}
		if err := cw.Write([]string{f.Path, f.ContentType, id, f.Summary}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the report to <root>/d2cms-sync-results/<timestamp>.csv and
// returns the file path. Nothing is written, and "" is returned, when the
// report is empty.
func (r *Report) Save(root string, now time.Time) (string, error) {
	if !r.HasFailures() {
		return "", nil
	}

	dir := filepath.Join(root, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, now.Format(TimeFormat)+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := r.WriteCSV(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
