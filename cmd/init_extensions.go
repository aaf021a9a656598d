/*
Copyright © 2026 Dyc3r
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until the root
// command has loaded configuration. The Context is created once and shared
// by every extension.

package cmd

import (
	"fmt"
	"sync"

	"github.com/Dyc3r/docs2cms/extension"
	"github.com/Dyc3r/docs2cms/internal/config"
	"go.uber.org/zap"
)

// unconfiguredCommands skip configuration validation entirely.
var unconfiguredCommands map[string]bool

// remoteCommands need the full WordPress configuration.
var remoteCommands map[string]bool

// buildCommandSets collects the validation requirements declared by
// extensions. help and completion are cobra's own commands.
func buildCommandSets() {
	unconfiguredCommands = map[string]bool{
		"help":       true,
		"completion": true,
	}
	remoteCommands = map[string]bool{}

	for _, ext := range extension.All() {
		if u, ok := ext.(extension.Unconfigured); ok {
			for _, name := range u.UnconfiguredCommands() {
				unconfiguredCommands[name] = true
			}
		}
		if r, ok := ext.(extension.Remote); ok {
			for _, name := range r.RemoteCommands() {
				remoteCommands[name] = true
			}
		}
	}
}

var (
	extContext extension.Context
	initOnce   sync.Once
	initErr    error
)

// initExtensions creates the shared context and injects it into extensions.
func initExtensions(cfg config.Config, logger *zap.Logger) error {
	initOnce.Do(func() {
		extContext = extension.NewContext(nil, cfg, logger)
		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}
		buildCommandSets()
	})
}
