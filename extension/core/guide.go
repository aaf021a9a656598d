// guide.go implements the "d2cms guide" command.
//
// Terminal output is rendered with glamour; piped output stays raw markdown.

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/guide"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the d2cms usage guide",
		Long: `Outputs the d2cms guide.

  d2cms guide          # overview
  d2cms guide format   # document frontmatter
  d2cms guide sync     # how sync decides what to do`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
			}

			if cmd.Out() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(cmd.Out(), rendered)
					return nil
				}
			}

			fmt.Fprint(cmd.Out(), content)
			return nil
		},
	}
}
