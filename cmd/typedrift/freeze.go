package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typedrift/internal/logging"
)

// runFreeze renders a snapshot from the current sources.
func runFreeze(cmd *cobra.Command, args []string) error {
	engines, suites, closeLocator, err := buildEngines()
	if err != nil {
		return err
	}
	defer closeLocator()

	if !freezeWrite && len(engines) > 1 {
		return errors.New("several suites are configured; select one with --suite or use --write")
	}

	ctx := context.Background()
	log := logging.For(logger, logging.CategoryReport)
	for i, e := range engines {
		data, err := e.Freeze(ctx)
		if err != nil {
			return fmt.Errorf("suite %s: %w", suites[i].Name, err)
		}

		target := freezeOutput
		if freezeWrite {
			target = suites[i].Snapshot
		}
		if target == "" || target == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		log.Info("snapshot written", zap.String("suite", suites[i].Name), zap.String("path", target))
		fmt.Fprintf(os.Stderr, "Wrote snapshot for %d types to %s\n", len(suites[i].Types), target)
	}
	return nil
}
