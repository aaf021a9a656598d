/*
Copyright © 2026 Dyc3r
*/

// root.go defines the root command and CLI execution entry point.
//
// PersistentPreRunE loads configuration for every command, then validates
// only what the command needs: WordPress commands need the full remote
// settings, local commands need the docs directory, and help-style commands
// need nothing.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/Dyc3r/docs2cms/internal/config"
	"github.com/Dyc3r/docs2cms/internal/log"
	"github.com/Dyc3r/docs2cms/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "d2cms",
	Short: "Publish a directory of markdown documents to WordPress",
	Long: `d2cms keeps a tree of markdown documents in sync with a WordPress site.

Documents live under docs/, pages/ and posts/ in the docs directory. Each
sync creates, updates or deletes the matching WordPress items and records
the remote id back into the document.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		cfg, err := loadConfig()
		if err != nil {
			return PrintJSONError(err)
		}

		logger = logging.NewLogger(logging.Options{
			Level:  cfg.LogLevel,
			File:   cfg.LogFile,
			Stderr: os.Stderr,
		})

		name := topLevelCmdName(cmd)
		switch {
		case unconfiguredCommands[name]:
		case remoteCommands[name]:
			err = cfg.ValidateRemote()
		default:
			err = cfg.ValidateDocs()
		}
		if err != nil {
			return PrintJSONError(err)
		}

		if cfg.DocsDir != "" {
			log.SetProject(cfg.DocsDir)
		}

		if err := initExtensions(cfg, logger); err != nil {
			return fmt.Errorf("initialise extensions: %w", err)
		}
		return nil
	},
}

// loadConfig reads .env, the optional config file and the environment.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	if err := config.ReadFile(settings, configFile); err != nil {
		return config.Config{}, err
	}
	cfg := config.Load(settings)
	if debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "d2cms sync", returns "sync".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle. Interrupts
// cancel the command's context, so sync stops between documents and watch
// and serve shut down. Exit code 1 indicates error.
func Execute() {
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registerExtensions()
	rootCmd.SilenceErrors = true
	err := rootCmd.ExecuteContext(ctx)

	_ = logger.Sync()

	if err != nil {
		if !errorReported {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}

// Logger returns the run logger. It discards until the root command has run.
func Logger() *zap.Logger { return logger }
