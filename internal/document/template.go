// template.go creates new, never-synced documents.

package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TemplateOptions configures Generate.
type TemplateOptions struct {
	Root  string   // docs root, bounds the parent lookup
	Dir   string   // directory the new file is created in
	Title string   // document title, also the source of the slug and file name
	Tags  []string // initial tag names
}

// Generate writes a template document named <slug>.md into opts.Dir and
// returns its path. The document gets a fresh time-ordered document_key and,
// when opts.Dir has a sibling <dir>.md, that document's key as parent_key.
// An existing file is never overwritten.
func Generate(opts TemplateOptions) (string, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return "", errors.New("title is required")
	}
	slug := Slugify(title)

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", opts.Dir, err)
	}
	path := filepath.Join(opts.Dir, slug+".md")

	parentKey, err := ParentKeyForDir(opts.Root, opts.Dir)
	if err != nil {
		return "", err
	}

	key, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating document key: %w", err)
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := New()
	for _, kv := range []struct {
		k string
		v any
	}{
		{KeyDocumentKey, key.String()},
		{KeyTitle, title},
		{KeySlug, slug},
		{KeyParentKey, parentKey},
		{KeyTags, tags},
		{KeyOrder, 0},
		{KeyWordPressID, nil},
		{KeyDocumentHash, nil},
		{KeyDeprecated, false},
	} {
		if err := doc.Set(kv.k, kv.v); err != nil {
			return "", err
		}
	}
	doc.Body = fmt.Sprintf("\n# %s\n\nDoc content here\n", title)

	data, err := doc.Bytes()
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ParentKeyForDir returns the document_key of the document that owns dir,
// i.e. the sibling file <dir>.md. Returns "" when dir is root or has no
// owning document.
func ParentKeyForDir(root, dir string) (string, error) {
	if filepath.Clean(root) == filepath.Clean(dir) {
		return "", nil
	}
	owner := filepath.Clean(dir) + ".md"
	if _, err := os.Stat(owner); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	doc, err := Load(owner)
	if err != nil {
		return "", err
	}
	return doc.Key(), nil
}

// TargetDir returns the directory a new document of type ct is created in:
// <root>/<ct>/<sub>. sub may not climb out of the content type directory.
func TargetDir(root string, ct ContentType, sub string) (string, error) {
	base := filepath.Join(root, string(ct))
	dir := filepath.Join(base, sub)
	rel, err := filepath.Rel(base, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside %s/", sub, ct)
	}
	return dir, nil
}
