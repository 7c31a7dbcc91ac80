// Package report renders verification results for humans (text), tools
// (JSON) and CI dashboards (Prometheus text exposition), and maps the
// verdict to a process exit status.
package report

import (
	"fmt"
	"io"
	"strings"

	"typedrift/internal/verification"
)

// Format selects a renderer.
type Format string

const (
	FormatText       Format = "text"
	FormatJSON       Format = "json"
	FormatPrometheus Format = "prometheus"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatPrometheus:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or prometheus)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format  Format
	Verbose bool
}

// Write renders results in the selected format.
func Write(w io.Writer, results []*verification.VerificationResult, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatPrometheus:
		return WritePrometheus(w, results)
	default:
		return WriteText(w, results, opts.Verbose)
	}
}

// Exit codes.
const (
	ExitCompatible = 0
	ExitDrift      = 1
)

// ExitCode maps the verdict to a process exit status: 0 only when every
// type of every result is compatible.
func ExitCode(results []*verification.VerificationResult) int {
	if len(results) > 0 && verification.AllCompatible(results) {
		return ExitCompatible
	}
	return ExitDrift
}
