package document

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ContentType names the WordPress collection a document belongs to.
type ContentType string

const (
	Posts ContentType = "posts"
	Pages ContentType = "pages"
	Docs  ContentType = "docs"
)

// ContentTypes lists the recognised top-level directories.
var ContentTypes = []ContentType{Docs, Pages, Posts}

// ParseContentType validates a content type name given on the command line.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ContentTypes, ct) {
		return "", fmt.Errorf("%w: %q (expected docs/pages/posts)", ErrUnknownContentType, s)
	}
	return ct, nil
}

// ContentTypeFromPath derives the content type of file from the first
// directory below root. Files directly in root, or under any other directory,
// are rejected.
func ContentTypeFromPath(root, file string) (ContentType, error) {
	rel, err := RelPath(root, file)
	if err != nil {
		return "", err
	}
	top, _, nested := strings.Cut(rel, "/")
	if nested {
		if ct := ContentType(top); slices.Contains(ContentTypes, ct) {
			return ct, nil
		}
	}
	return "", fmt.Errorf("%w: %s must live under one of docs/pages/posts", ErrUnknownContentType, rel)
}

// RelPath returns file relative to root with forward slashes.
func RelPath(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", file, root, err)
	}
	return filepath.ToSlash(rel), nil
}
