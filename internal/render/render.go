// Package render converts document bodies to the HTML sent to WordPress.
//
// Markdown is parsed with goldmark (GitHub-flavoured extensions enabled) and
// adjusted before rendering: a leading level-one heading that repeats the
// document title is dropped, since WordPress shows the title itself, and
// relative links to other .md files lose their extension so they resolve to
// the published permalinks. The result is passed through a bluemonday UGC
// policy.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var titleKey = parser.NewContextKey()

// Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New returns a Renderer with the standard d2cms pipeline.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&titleTransformer{}, 100),
				util.Prioritized(&linkTransformer{}, 200),
			),
		),
		// Raw HTML is kept here and filtered by the sanitiser below.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)

	return &Renderer{md: md, policy: policy}
}

// HTML renders body. When title is non-empty, a leading "# title" heading is
// omitted. An empty body renders to "".
func (r *Renderer) HTML(title, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	ctx := parser.NewContext()
	ctx.Set(titleKey, strings.TrimSpace(title))

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

var defaultRenderer = New()

// HTML renders body with a shared default Renderer.
func HTML(title, body string) (string, error) {
	return defaultRenderer.HTML(title, body)
}
