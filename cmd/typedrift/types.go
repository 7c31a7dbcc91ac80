package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runTypes lists the registry of each selected suite in verification order.
func runTypes(cmd *cobra.Command, args []string) error {
	suites, err := selectedSuites()
	if err != nil {
		return err
	}
	for i, s := range suites {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, "%s (snapshot %s, sources %s)\n", s.Name, s.Snapshot, s.SourceRoot)
		for _, name := range s.Types {
			fmt.Fprintf(os.Stdout, "  %s -> %s%s\n", name, name, s.SnapshotMarker)
		}
	}
	return nil
}
