package render

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// titleTransformer removes the first block of the document when it is a
// level-one heading whose text equals the title in the parser context.
type titleTransformer struct{}

func (t *titleTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	title, _ := pc.Get(titleKey).(string)
	if title == "" {
		return
	}
	h, ok := doc.FirstChild().(*ast.Heading)
	if !ok || h.Level != 1 {
		return
	}
	if strings.TrimSpace(plainText(h, reader.Source())) == title {
		doc.RemoveChild(doc, h)
	}
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// linkTransformer strips the .md extension from relative link destinations.
type linkTransformer struct{}

func (t *linkTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if link, ok := n.(*ast.Link); ok && entering {
			link.Destination = []byte(RewriteLink(string(link.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// RewriteLink returns dest without a trailing ".md" on its path when dest is
// a relative reference. Absolute URLs, including scheme-relative ones, are
// returned unchanged. Query and fragment are kept.
func RewriteLink(dest string) string {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(dest, "//") {
		return dest
	}

	path, suffix := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		path, suffix = dest[:i], dest[i:]
	}
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		return dest
	}
	return path[:len(path)-len(".md")] + suffix
}
