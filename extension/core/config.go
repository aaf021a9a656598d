// config.go implements the "d2cms config" command.
//
// Configuration is read-only here: values come from flags, the environment,
// .env and .d2cms.yaml. The command shows what d2cms resolved and whether it
// is enough to sync.

package core

import (
	"fmt"

	"github.com/Dyc3r/docs2cms/cmd"
	"github.com/Dyc3r/docs2cms/internal/config"
	"github.com/spf13/cobra"
)

func (e *Extension) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [key]",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration. The API key is masked.

  d2cms config               # show every key
  d2cms config wp.api_root   # show one value

See 'd2cms guide config' for the environment variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runConfig,
	}
}

func (e *Extension) runConfig(_ *cobra.Command, args []string) error {
	cfg := e.ctx.Config()

	if len(args) == 1 {
		v, err := cfg.Get(args[0])
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.Out(), v)
		return nil
	}

	values := make(map[string]string, len(config.Keys()))
	for _, k := range config.Keys() {
		values[k], _ = cfg.Get(k)
	}

	problem := ""
	if err := cfg.ValidateRemote(); err != nil {
		problem = err.Error()
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{
			"config": values,
			"valid":  problem == "",
			"error":  problem,
		})
	}

	for _, k := range config.Keys() {
		fmt.Fprintf(cmd.Out(), "%s: %s\n", k, values[k])
	}
	if problem != "" {
		fmt.Fprintf(cmd.Out(), "\n%s\n", problem)
	}
	return nil
}
