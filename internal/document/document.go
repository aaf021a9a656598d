// Package document reads and writes the markdown files that d2cms syncs.
//
// A document is a UTF-8 text file made of a YAML frontmatter block delimited
// by "---" lines, followed by a markdown body. The frontmatter carries the
// document's identity and the state of its last sync:
//
//	---
//	document_key: 0195f1e2-8a4b-7c3d-9e8f-0a1b2c3d4e5f
//	title: Getting Started
//	slug: getting-started
//	parent_key: ""
//	tags: [setup, intro]
//	order: 0
//	wordpress_id: 42
//	document_hash: 9f86d08...
//	deprecated: false
//	---
//
// The content type (posts, pages, docs) is not stored; it is derived from
// the top-level directory the file lives in. See [ContentTypeFromPath].
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Frontmatter keys understood by d2cms. Unknown keys are preserved on write.
const (
	KeyDocumentKey  = "document_key"
	KeyTitle        = "title"
	KeySlug         = "slug"
	KeyOrder        = "order"
	KeyParentKey    = "parent_key"
	KeyTags         = "tags"
	KeyWordPressID  = "wordpress_id"
	KeyDocumentHash = "document_hash"
	KeyDeprecated   = "deprecated"
)

// Document is a parsed markdown file.
type Document struct {
	fm   *frontmatter
	Body string
}

// New returns an empty document with no frontmatter keys.
func New() *Document {
	return &Document{fm: newFrontmatter()}
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses raw file content. Content without a leading "---" line is
// treated as a body with empty frontmatter.
func Parse(data []byte) (*Document, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Document{fm: fm, Body: body}, nil
}

// Bytes serialises the document back to its on-disk form.
func (d *Document) Bytes() ([]byte, error) {
	return d.fm.join(d.Body)
}

// Save writes the document to path, replacing any existing file.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Remove deletes the document file at path. A file that is already gone is
// not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// Metadata returns a copy of the decoded frontmatter map.
func (d *Document) Metadata() map[string]any {
	out := make(map[string]any, len(d.fm.values))
	for k, v := range d.fm.values {
		out[k] = v
	}
	return out
}

// Has reports whether key is present in the frontmatter.
func (d *Document) Has(key string) bool {
	_, ok := d.fm.values[key]
	return ok
}

// Set assigns a frontmatter value, keeping the position of an existing key
// or appending a new one.
func (d *Document) Set(key string, value any) error {
	return d.fm.set(key, value)
}

// Key returns the document_key, or "" when unset.
func (d *Document) Key() string { return d.str(KeyDocumentKey) }

// Title returns the document title.
func (d *Document) Title() string { return d.str(KeyTitle) }

// Slug returns the stored slug, falling back to one derived from the title.
func (d *Document) Slug() string {
	if s := d.str(KeySlug); s != "" {
		return s
	}
	return Slugify(d.Title())
}

// ParentKey returns the parent_key, or "" for a root document.
func (d *Document) ParentKey() string { return d.str(KeyParentKey) }

// Hash returns the stored document_hash, or "" if never synced.
func (d *Document) Hash() string { return d.str(KeyDocumentHash) }

// Order returns the sort order, defaulting to 0.
func (d *Document) Order() int { return d.integer(KeyOrder) }

// WordPressID returns the remote id, or 0 if the document was never synced.
func (d *Document) WordPressID() int { return d.integer(KeyWordPressID) }

// Deprecated reports whether the document is marked for deletion.
func (d *Document) Deprecated() bool {
	switch v := d.fm.values[KeyDeprecated].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

// Tags returns the tag names in file order. A comma-separated string is
// accepted for documents written by hand.
func (d *Document) Tags() []string {
	var tags []string
	switch v := d.fm.values[KeyTags].(type) {
	case []any:
		for _, t := range v {
			if s := strings.TrimSpace(fmt.Sprint(t)); t != nil && s != "" {
				tags = append(tags, s)
			}
		}
	case string:
		for _, t := range strings.Split(v, ",") {
			if s := strings.TrimSpace(t); s != "" {
				tags = append(tags, s)
			}
		}
	}
	return tags
}

func (d *Document) str(key string) string {
	switch v := d.fm.values[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

func (d *Document) integer(key string) int {
	switch v := d.fm.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

// Slugify derives a URL slug from a title: lowercase, spaces become hyphens.
func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}
