// Package cmd wires cortex's cobra command tree. This is the thin
// adapter spec.md section 1 carves out of scope: argument parsing and
// human-formatted output live here, nothing else.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/config"
	"github.com/peniel-r/cortex/internal/logging"
	"github.com/peniel-r/cortex/pkg/version"
)

var (
	rootFlag  string
	debugFlag bool

	cfg    config.Config
	logger *slog.Logger
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "cortex",
		Short:   "Local knowledge graph engine for application lifecycle management",
		Version: version.Short(),
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return loadConfig()
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			if logCleanup != nil {
				logCleanup()
			}
		},
	}

	root.PersistentFlags().StringVar(&rootFlag, "root", "", "cortex root directory (default: search upward for cortex.json)")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	root.AddCommand(
		newSyncCmd(),
		newQueryCmd(),
		newStatusCmd(),
		newTransitionCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return root
}

var logCleanup func()

// loadConfig resolves the cortex root, loads cortex.json, and installs
// the rotating file logger. Every subcommand runs this via
// PersistentPreRunE before touching config/logger.
func loadConfig() error {
	dir := rootFlag
	if dir == "" {
		dir = "."
	}

	root, err := config.FindRoot(dir)
	if err != nil {
		return err
	}

	loaded, err := config.Load(root)
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := logging.DefaultConfig(cfg.Root)
	if debugFlag {
		logCfg.Level = "debug"
		logCfg.WriteToStderr = true
	}
	l, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	logger = l
	logCleanup = cleanup
	return nil
}
