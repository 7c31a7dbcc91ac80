package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"typedrift/internal/diff"
	"typedrift/internal/verification"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorFailure = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// styles are bound to the output writer so that colors are dropped when
// the writer is not a terminal.
type styles struct {
	ok      lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:      r.NewStyle().Foreground(colorSuccess).Bold(true),
		fail:    r.NewStyle().Foreground(colorFailure).Bold(true),
		warn:    r.NewStyle().Foreground(colorWarning),
		heading: r.NewStyle().Foreground(colorInfo).Bold(true),
		muted:   r.NewStyle().Faint(true),
		added:   r.NewStyle().Foreground(colorSuccess),
		removed: r.NewStyle().Foreground(colorFailure),
	}
}

// WriteText renders a human readable report. Verbose adds scan statistics,
// both definitions and their diff for each incompatible type.
func WriteText(w io.Writer, results []*verification.VerificationResult, verbose bool) error {
	tw := &textWriter{w: w, st: newStyles(w)}
	for i, r := range results {
		if i > 0 {
			tw.line("")
		}
		if len(results) > 1 {
			tw.line(tw.st.heading.Render(fmt.Sprintf("Suite %s", r.Suite)))
		}
		tw.result(r, verbose)
	}
	return tw.err
}

type textWriter struct {
	w   io.Writer
	st  styles
	err error
}

func (t *textWriter) line(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	if len(args) == 0 {
		_, t.err = io.WriteString(t.w, format+"\n")
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

// block writes multi-line text line by line with a fixed indent. Lines are
// styled one at a time; lipgloss pads multi-line blocks.
func (t *textWriter) block(indent, text string, style *lipgloss.Style) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if style != nil && l != "" {
			l = style.Render(l)
		}
		t.line("%s%s", indent, l)
	}
}

func (t *textWriter) result(r *verification.VerificationResult, verbose bool) {
	if verbose {
		t.line(t.st.muted.Render(fmt.Sprintf("Scanned %s %s (%s) under %s",
			humanize.Comma(int64(r.Scan.Files)), plural(r.Scan.Files, "file", "files"),
			humanize.Bytes(uint64(r.Scan.Bytes)), r.SourceDirectory)))
		t.line(t.st.muted.Render(fmt.Sprintf("Snapshot %s", r.SnapshotFile)))
		for _, warning := range r.Warnings {
			t.line(t.st.warn.Render("warning: " + warning))
		}
		t.line("")
	}

	for _, v := range r.Verifications {
		if v.IsCompatible {
			t.line("%s %s: compatible", t.st.ok.Render("✓"), v.TypeName)
		} else {
			t.line("%s %s: interface drift detected", t.st.fail.Render("✗"), v.TypeName)
		}
	}

	t.line("")
	t.line("Verification complete: %d/%d types compatible", r.CompatibleTypes, r.TotalTypes)
	if r.IsAllCompatible {
		t.line(t.st.ok.Render("All types are compatible with the frozen snapshot."))
		return
	}
	t.line(t.st.fail.Render(fmt.Sprintf("%d %s interface drift", r.IncompatibleTypes,
		plural(r.IncompatibleTypes, "type has", "types have"))))

	for _, v := range r.Incompatible() {
		t.line("")
		t.line("%s %s:", t.st.fail.Render("✗"), v.TypeName)
		for _, issue := range v.Issues {
			t.line("  • %s", issue)
		}
		if verbose {
			t.definitions(v)
		}
	}
}

func (t *textWriter) definitions(v verification.TypeVerification) {
	t.line("")
	t.line("  Snapshot definition (%s):", v.SnapshotLocation.File)
	t.block("    ", v.SnapshotDefinition, &t.st.muted)
	t.line("")
	t.line("  Current definition (%s):", v.SourceLocation.File)
	t.block("    ", v.CurrentDefinition, &t.st.muted)

	unified := diff.Unified("snapshot", "current", v.SnapshotDefinition, v.CurrentDefinition)
	if unified == "" {
		return
	}
	t.line("")
	t.line("  Diff:")
	for _, l := range strings.Split(strings.TrimRight(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(l, "+") && !strings.HasPrefix(l, "+++"):
			l = t.st.added.Render(l)
		case strings.HasPrefix(l, "-") && !strings.HasPrefix(l, "---"):
			l = t.st.removed.Render(l)
		}
		t.line("    %s", l)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
