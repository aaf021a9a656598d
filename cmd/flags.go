/*
Copyright © 2026 Dyc3r
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Extensions read flag values through the exported accessors rather than
// the variables, so they never depend on cobra wiring in this package.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Dyc3r/docs2cms/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validOutputFormats = []string{"json"}

var (
	output     string
	configFile string
	debug      bool
)

// settings holds flag, environment and file configuration.
var settings = config.NewViper()

var logger = zap.NewNop()

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// Output returns the output format flag value.
func Output() string { return output }

// Debug reports whether --debug was given.
func Debug() bool { return debug }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// errorReported is set once an error has been written as JSON, so Execute
// does not print it a second time.
var errorReported bool

// PrintJSONError prints an error in JSON format if output is JSON.
// It still returns err so the process exits non-zero.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	errorReported = true
	return err
}

// ErrorReported marks the command's error as already shown to the user,
// for commands whose JSON result carries the failure.
func ErrorReported() {
	errorReported = true
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&output, "output", "o", "", "Output format: json")
	flags.StringVar(&configFile, "config", "", "Config file (default .d2cms.yaml in the working directory)")
	flags.BoolVar(&debug, "debug", false, "Log every remote call to stderr")
	flags.String("docs-dir", "", "Docs directory (overrides D2CMS_DOCS_DIR)")

	_ = settings.BindPFlag(config.KeyDocsDir, flags.Lookup("docs-dir"))

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
