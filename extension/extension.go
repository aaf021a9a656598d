// Package extension provides the plugin architecture for d2cms. Extensions
// group related commands and register at init time, so the root command
// never has to know about them individually.
package extension

import "github.com/spf13/cobra"

// Extension defines the contract for d2cms extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command
}

// Initializable extensions receive the shared Context before any of their
// commands run.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Remote is implemented by extensions with commands that talk to WordPress.
// Those commands are refused unless the full WordPress configuration
// validates; every other command only needs the docs directory.
type Remote interface {
	RemoteCommands() []string
}

// Unconfigured is implemented by extensions with commands that must work
// without any configuration, such as help pages.
type Unconfigured interface {
	UnconfiguredCommands() []string
}
