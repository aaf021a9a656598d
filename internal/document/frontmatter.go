// frontmatter.go splits, decodes and re-encodes the YAML header.
//
// The header is held twice: as a yaml.Node mapping, so rewriting a document
// keeps key order and comments intact, and as a decoded map used for reads
// and fingerprinting. set keeps both views in step.

package document

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

type frontmatter struct {
	node    *yaml.Node
	values  map[string]any
	present bool // file had a header block, even an empty one
}

func newFrontmatter() *frontmatter {
	return &frontmatter{
		node:   &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
		values: map[string]any{},
	}
}

// splitFrontmatter separates the header from the body. The body is returned
// byte-for-byte so that an untouched document round-trips exactly.
func splitFrontmatter(data []byte) (*frontmatter, string, error) {
	s := strings.TrimPrefix(string(data), "\ufeff")

	first, rest, ok := strings.Cut(s, "\n")
	if !ok || strings.TrimRight(first, "\r") != delimiter {
		return newFrontmatter(), s, nil
	}

	header, body, found := cutAtDelimiter(rest)
	if !found {
		return nil, "", ErrMissingDelimiter
	}

	fm := newFrontmatter()
	fm.present = true
	if strings.TrimSpace(header) == "" {
		return fm, body, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fm, body, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("%w: header is not a key-value map", ErrInvalidFrontmatter)
	}

	var values map[string]any
	if err := mapping.Decode(&values); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidFrontmatter, err)
	}
	if values != nil {
		fm.values = values
	}
	fm.node = mapping
	return fm, body, nil
}

// cutAtDelimiter finds the closing "---" line in s.
func cutAtDelimiter(s string) (header, body string, found bool) {
	offset := 0
	for {
		line := s[offset:]
		next := len(s)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		if strings.TrimRight(line, "\r") == delimiter {
			return s[:offset], s[next:], true
		}
		if next >= len(s) {
			return "", "", false
		}
		offset = next
	}
}

func (fm *frontmatter) set(key string, value any) error {
	var vn yaml.Node
	if err := vn.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	var decoded any
	if err := vn.Decode(&decoded); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}

	fm.values[key] = decoded
	for i := 0; i+1 < len(fm.node.Content); i += 2 {
		if fm.node.Content[i].Value == key {
			fm.node.Content[i+1] = &vn
			return nil
		}
	}
	fm.node.Content = append(fm.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&vn,
	)
	return nil
}

func (fm *frontmatter) join(body string) ([]byte, error) {
	if !fm.present && len(fm.node.Content) == 0 {
		return []byte(body), nil
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	if len(fm.node.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fm.node); err != nil {
			return nil, fmt.Errorf("encoding frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding frontmatter: %w", err)
		}
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
