// relocate.go implements the local half of deprecating a document: marking
// it and moving its children out of the directory it owns.

package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Relocation describes what RelocateChildren changed.
type Relocation struct {
	Moved      []string // destination paths of every moved entry
	Reparented []string // destination paths of documents whose parent_key was rewritten
}

// MarkDeprecated sets deprecated: true on the document at path.
func MarkDeprecated(path string) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	if err := doc.Set(KeyDeprecated, true); err != nil {
		return err
	}
	return doc.Save(path)
}

// RelocateChildren moves everything inside the directory owned by file
// (file "x.md" owns directory "x/") up one level, next to file, then removes
// the emptied directory.
//
// Direct child documents inherit file's own parent_key (empty when file is a
// root document). Nested directories move as-is: their documents still point
// at the direct children, which keep their keys. The deprecated document
// itself is not modified. If any destination already exists nothing is moved.
func RelocateChildren(file string) (Relocation, error) {
	var result Relocation

	childDir := strings.TrimSuffix(file, filepath.Ext(file))
	info, err := os.Stat(childDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("checking %s: %w", childDir, err)
	}

	owner, err := Load(file)
	if err != nil {
		return result, err
	}
	newParent := owner.ParentKey()
	destDir := filepath.Dir(file)

	entries, err := os.ReadDir(childDir)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", childDir, err)
	}

	for _, e := range entries {
		dest := filepath.Join(destDir, e.Name())
		if _, err := os.Lstat(dest); err == nil {
			return result, fmt.Errorf("%w: cannot move %s to %s", ErrExists, e.Name(), dest)
		}
	}

	for _, e := range entries {
		src := filepath.Join(childDir, e.Name())
		dest := filepath.Join(destDir, e.Name())

		if e.Type().IsRegular() && IsMarkdown(e.Name()) {
			child, err := Load(src)
			if err != nil {
				return result, err
			}
			if err := child.Set(KeyParentKey, newParent); err != nil {
				return result, err
			}
			if err := child.Save(dest); err != nil {
				return result, err
			}
			if err := os.Remove(src); err != nil {
				return result, fmt.Errorf("removing %s: %w", src, err)
			}
			result.Reparented = append(result.Reparented, dest)
		} else if err := os.Rename(src, dest); err != nil {
			return result, fmt.Errorf("moving %s: %w", src, err)
		}
		result.Moved = append(result.Moved, dest)
	}

	if err := os.Remove(childDir); err != nil {
		return result, fmt.Errorf("removing %s: %w", childDir, err)
	}
	return result, nil
}

// IsMarkdown reports whether name has a .md extension.
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
