// Package diff compares a local document with the item WordPress holds for
// it, showing what the next sync would change in the remote content.
package diff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/render"
	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around a change.
const contextLines = 3

// ErrNotSynced means the document has no wordpress_id to compare against.
var ErrNotSynced = errors.New("document has never been synced")

// Result holds diff output.
type Result struct {
	Old     string `json:"old"`  // remote label
	New     string `json:"new"`  // local label
	Diff    string `json:"diff"` // plain diff text
	Changed bool   `json:"changed"`
}

// Run diffs the document at path (below root) against its remote item and
// writes the formatted diff to w.
func Run(ctx context.Context, w io.Writer, api wordpress.API, root, path string, colour bool) (Result, error) {
	r, err := Remote(ctx, api, root, path)
	if err != nil {
		return r, err
	}
	if !r.Changed {
		fmt.Fprintf(w, "%s: no differences\n", r.New)
		return r, nil
	}
	fmt.Fprint(w, r.Format(colour))
	return r, nil
}

// Remote fetches the remote item of the document at path and diffs its raw
// content against the HTML the document renders to now.
func Remote(ctx context.Context, api wordpress.API, root, path string) (Result, error) {
	doc, err := document.Load(path)
	if err != nil {
		return Result{}, err
	}
	ct, err := document.ContentTypeFromPath(root, path)
	if err != nil {
		return Result{}, err
	}
	rel, err := document.RelPath(root, path)
	if err != nil {
		return Result{}, err
	}
	id := doc.WordPressID()
	if id == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNotSynced, rel)
	}

	local, err := render.HTML(doc.Title(), doc.Body)
	if err != nil {
		return Result{}, err
	}

	item, err := wordpress.Fetch(ctx, api, string(ct), id)
	if err != nil {
		return Result{}, err
	}
	remote := item.Content.Raw
	if remote == "" {
		remote = item.Content.Rendered
	}

	return Compute(remote, local, fmt.Sprintf("wordpress %s/%d", ct, id), "local "+rel), nil
}

// Compute returns a diff between old and new content.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	// Line mode, so every -/+ row is a whole line.
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(normalise(oldContent), normalise(newContent))
	d := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, part := range d {
		if part.Type != diffmatchpatch.DiffEqual {
			changed = true
			break
		}
	}

	return Result{
		Old:     oldLabel,
		New:     newLabel,
		Diff:    format(d),
		Changed: changed,
	}
}

// normalise drops trailing whitespace, which WordPress does not preserve.
func normalise(s string) string {
	return strings.TrimRight(s, " \t\r\n") + "\n"
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the full diff with header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}
