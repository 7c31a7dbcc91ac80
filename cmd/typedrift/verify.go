package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typedrift/internal/config"
	"typedrift/internal/logging"
	"typedrift/internal/report"
	"typedrift/internal/signature"
	"typedrift/internal/verification"
	"typedrift/internal/watch"
)

// selectedSuites resolves the configured suites, narrows them to --suite
// and applies the command line overrides.
func selectedSuites() ([]config.SuiteConfig, error) {
	suites := cfg.ResolvedSuites()
	if suiteName != "" {
		s, err := cfg.Suite(suiteName)
		if err != nil {
			return nil, err
		}
		suites = []config.SuiteConfig{s}
	}

	for i := range suites {
		applySuiteFlags(&suites[i])
		if err := suites[i].Validate(); err != nil {
			return nil, fmt.Errorf("suite %s: %w", suites[i].Name, err)
		}
	}
	return suites, nil
}

// applySuiteFlags overrides a suite with --snapshot, --source and --type.
func applySuiteFlags(s *config.SuiteConfig) {
	if snapshotPath != "" {
		s.Snapshot = snapshotPath
	}
	if sourceRoot != "" {
		s.SourceRoot = sourceRoot
	}
	var types []string
	for _, t := range typeNames {
		types = append(types, config.SplitList(t)...)
	}
	if len(types) > 0 {
		s.Types = types
	}
}

// buildEngines creates one engine per selected suite sharing one locator.
func buildEngines() ([]*verification.Engine, []config.SuiteConfig, func(), error) {
	suites, err := selectedSuites()
	if err != nil {
		return nil, nil, nil, err
	}
	locator, closeLocator, err := signature.NewLocator(cfg.Locator)
	if err != nil {
		return nil, nil, nil, err
	}

	engines := make([]*verification.Engine, 0, len(suites))
	for _, s := range suites {
		engines = append(engines, verification.NewEngine(verification.SuiteFromConfig(s),
			verification.WithLocator(locator),
			verification.WithLogger(logger)))
	}
	return engines, suites, closeLocator, nil
}

func reportOptions() (report.Options, error) {
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Options{}, err
	}
	if jsonOutput {
		f = report.FormatJSON
	}
	return report.Options{Format: f, Verbose: verbose}, nil
}

// runVerify verifies every selected suite and reports. Drift exits 1.
func runVerify(cmd *cobra.Command, args []string) error {
	opts, err := reportOptions()
	if err != nil {
		return err
	}
	engines, suites, closeLocator, err := buildEngines()
	if err != nil {
		return err
	}
	defer closeLocator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := verifyOnce(ctx, engines, opts)
	if !watchMode {
		if err != nil {
			return err
		}
		if code != report.ExitCompatible {
			return &exitError{code: code}
		}
		return nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Verification failed: %v\n", err)
	}
	return watchAndVerify(ctx, engines, suites, opts)
}

func verifyOnce(ctx context.Context, engines []*verification.Engine, opts report.Options) (int, error) {
	results, err := verification.VerifyAll(ctx, engines)
	if err != nil {
		return 1, err
	}
	if err := report.Write(os.Stdout, results, opts); err != nil {
		return 1, fmt.Errorf("write report: %w", err)
	}
	logging.For(logger, logging.CategoryReport).Debug("report written",
		zap.String("format", string(opts.Format)),
		zap.Int("suites", len(results)))
	return report.ExitCode(results), nil
}

// watchAndVerify re-runs verification after changes until interrupted.
func watchAndVerify(ctx context.Context, engines []*verification.Engine, suites []config.SuiteConfig, opts report.Options) error {
	wopts := watch.Options{Suffix: cfg.SourceSuffix}
	for _, s := range suites {
		wopts.Roots = append(wopts.Roots, s.SourceRoot)
		wopts.Files = append(wopts.Files, s.Snapshot)
	}

	w, err := watch.New(wopts, logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")

	return w.Run(ctx, rerun(engines, opts))
}

// rerun returns the watch callback. Text reports are separated by a blank
// line; other formats are written back to back.
func rerun(engines []*verification.Engine, opts report.Options) func(context.Context) error {
	return func(ctx context.Context) error {
		if opts.Format == report.FormatText {
			fmt.Fprintln(os.Stdout)
		}
		_, err := verifyOnce(ctx, engines, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ Verification failed: %v\n", err)
		}
		return err
	}
}
