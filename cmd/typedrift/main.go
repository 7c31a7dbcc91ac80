package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typedrift/internal/config"
	"typedrift/internal/logging"
)

var (
	// Global flags
	configPath   string
	snapshotPath string
	sourceRoot   string
	typeNames    []string
	suiteName    string
	logLevel     string
	verbose      bool

	// Report flags
	jsonOutput bool
	format     string
	watchMode  bool

	// Freeze flags
	freezeOutput string
	freezeWrite  bool

	cfg    *config.Config
	logger *zap.Logger
)

// exitError carries a process exit status. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "typedrift",
		Short: "Detect interface drift between frozen snapshots and current sources",
		Long: `typedrift verifies that the public data shape of a fixed registry of types
still matches the frozen declarations stored in a snapshot file.

For every registry type it locates the frozen <Type>Interface declaration in
the snapshot and the current top-level declaration under the source root,
extracts their public let/var members and reports missing, changed and
unexpected members.

Run without a subcommand to verify. Exit status is 0 when every type is
compatible and 1 on drift or failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRun()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runVerify,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default: ./"+config.DefaultConfigFile+" when present)")
	flags.StringVar(&snapshotPath, "snapshot", "", "Snapshot file holding the frozen declarations")
	flags.StringVar(&sourceRoot, "source", "", "Source root scanned for current declarations")
	flags.StringArrayVar(&typeNames, "type", nil, "Type to verify (repeatable, replaces the configured registry)")
	flags.StringVar(&suiteName, "suite", "", "Only use the named suite")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show scan statistics, definitions and diffs")
	flags.BoolVar(&jsonOutput, "json", false, "Output results as JSON (same as --format json)")
	flags.StringVar(&format, "format", "text", "Output format: text, json, prometheus")
	flags.BoolVar(&watchMode, "watch", false, "Re-run verification when sources or snapshots change")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the registry against the snapshot (default command)",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}

	freezeCmd := &cobra.Command{
		Use:   "freeze",
		Short: "Write a snapshot of the current public interfaces",
		Long: `Renders a snapshot file from the current sources. Each registry type is
written as a public struct <Type><Marker> holding its current public members.

By default the snapshot goes to stdout; use --output to write a file or
--write to replace the configured snapshot file of each suite.`,
		Args: cobra.NoArgs,
		RunE: runFreeze,
	}
	freezeCmd.Flags().StringVarP(&freezeOutput, "output", "o", "", "Write the snapshot to this file")
	freezeCmd.Flags().BoolVar(&freezeWrite, "write", false, "Overwrite each suite's configured snapshot file")
	freezeCmd.MarkFlagsMutuallyExclusive("output", "write")

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List the registry of each configured suite",
		Args:  cobra.NoArgs,
		RunE:  runTypes,
	}

	rootCmd.AddCommand(verifyCmd, freezeCmd, typesCmd)
	return rootCmd
}

// initRun loads the configuration and builds the logger.
func initRun() error {
	path := configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		}
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	applySuiteFlags(&cfg.SuiteConfig)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	base, err := logging.New(cfg.Logging.Options())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger, _ = logging.WithRunID(base)
	logging.For(logger, logging.CategoryBoot).Debug("configuration loaded",
		zap.String("config", path),
		zap.String("locator", cfg.Locator),
		zap.Int("suites", len(cfg.ResolvedSuites())))
	return nil
}

// execute runs the command tree and returns the process exit status.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "✗ Verification failed: %v\n", err)
	return 1
}

func main() {
	os.Exit(execute(newRootCmd()))
}
