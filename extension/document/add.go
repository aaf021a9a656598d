// add.go implements the "d2cms add" command, the document template
// generator.

package document

import (
	"fmt"
	"strings"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new document from the template",
		Long: `Create <docs>/<content-type>/<path>/<slug>.md with a fresh document_key.

If the target directory is owned by a document (posts/news is owned by
posts/news.md), the new document gets that document's key as parent_key.
Existing files are never overwritten.

  d2cms add "Getting Started"
  d2cms add "Release 1.2" --content-type posts --path news --tags release,go`,
		Args: cobra.ExactArgs(1),
		RunE: e.runAdd,
	}
	c.Flags().StringP(extension.FlagContentType, "t", string(document.Docs), "Content type: docs, pages or posts")
	c.Flags().StringP(extension.FlagPath, "p", "", "Subdirectory inside the content type directory")
	c.Flags().String(extension.FlagTags, "", "Comma-separated tag names")
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	typeName, _ := c.Flags().GetString(extension.FlagContentType)
	sub, _ := c.Flags().GetString(extension.FlagPath)
	tagList, _ := c.Flags().GetString(extension.FlagTags)

	ct, err := document.ParseContentType(typeName)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	dir, err := document.TargetDir(e.ctx.Root(), ct, sub)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	path, err := document.Generate(document.TemplateOptions{
		Root:  e.ctx.Root(),
		Dir:   dir,
		Title: args[0],
		Tags:  splitTags(tagList),
	})

	rel, _ := document.RelPath(e.ctx.Root(), path)
	log.Event("cli:add", "add").Path(rel).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("add %q: %w", args[0], err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"path": rel})
	}
	fmt.Fprintf(cmd.Out(), "Created %s\n", rel)
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
