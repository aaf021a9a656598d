package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fingerprint returns the SHA-256 hex digest of a document as it would be
// synced from relPath (relative to the docs root).
//
// The digest covers the slash-separated path, every frontmatter key except
// document_hash (serialised as YAML with sorted keys) and the body, joined by
// newlines. Moving a file therefore changes its fingerprint, while writing a
// new document_hash does not.
func Fingerprint(d *Document, relPath string) (string, error) {
	meta := d.Metadata()
	delete(meta, KeyDocumentHash)

	// yaml.v3 emits map keys in sorted order.
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("serialising metadata: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(filepath.ToSlash(relPath)))
	h.Write([]byte("\n"))
	h.Write(encoded)
	h.Write([]byte("\n"))
	h.Write([]byte(d.Body))
	return hex.EncodeToString(h.Sum(nil)), nil
}
