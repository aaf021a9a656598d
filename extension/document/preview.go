// preview.go implements the "d2cms preview" command.
//
// On a terminal the body is rendered with glamour; otherwise the HTML that
// a sync would upload is printed.

package document

import (
	"fmt"
	"os"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/document"
	"github.com/Dyc3r/docs2cms/internal/render"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newPreviewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "preview <path>",
		Short: "Render a document",
		Long: `Render a document's body in the terminal. When output is not a terminal,
or with --raw, print the HTML that sync would send to WordPress.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runPreview,
	}
	c.Flags().Bool(extension.FlagRaw, false, "Print the WordPress HTML")
	return c
}

func (e *Extension) runPreview(c *cobra.Command, args []string) error {
	raw, _ := c.Flags().GetBool(extension.FlagRaw)

	doc, err := document.Load(abs(args[0]))
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	tty := cmd.Out() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
	if tty && !raw && !cmd.JSON() {
		rendered, err := glamour.Render(doc.Body, "dark")
		if err == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
	}

	html, err := render.HTML(doc.Title(), doc.Body)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("render %q: %w", args[0], err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"title": doc.Title(), "html": html})
	}
	fmt.Fprintln(cmd.Out(), html)
	return nil
}
