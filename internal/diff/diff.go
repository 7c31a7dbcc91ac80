// Package diff renders line diffs between two definitions using the
// sergi/go-diff library.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a diff.
type Line struct {
	Op   Op
	Text string
}

// Hunk groups changed lines with their surrounding context. Starts are
// 1-based line numbers.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Differ computes line diffs.
type Differ struct {
	dmp *diffmatchpatch.DiffMatchPatch
	// Context is the number of unchanged lines kept around each change.
	Context int
}

// New returns a Differ with three lines of context.
func New() *Differ {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Differ{dmp: dmp, Context: 3}
}

// Lines returns the line-level edit script turning a into b.
func (d *Differ) Lines(a, b string) []Line {
	ca, cb, lineArray := d.dmp.DiffLinesToChars(a, b)
	diffs := d.dmp.DiffMain(ca, cb, false)
	diffs = d.dmp.DiffCharsToLines(diffs, lineArray)

	var out []Line
	for _, df := range diffs {
		op := Equal
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		}
		for _, text := range splitLines(df.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// position counts the old and new lines preceding a diff line.
type position struct {
	old, new int
}

// Hunks groups the edit script into hunks. Changes separated by no more
// than twice the context are merged into one hunk.
func (d *Differ) Hunks(a, b string) []Hunk {
	lines := d.Lines(a, b)

	pos := make([]position, len(lines)+1)
	for i, l := range lines {
		pos[i+1] = pos[i]
		if l.Op != Insert {
			pos[i+1].old++
		}
		if l.Op != Delete {
			pos[i+1].new++
		}
	}

	var hunks []Hunk
	for i := 0; i < len(lines); {
		if lines[i].Op == Equal {
			i++
			continue
		}
		start := max(0, i-d.Context)
		end := i
		for end < len(lines) {
			if lines[end].Op != Equal {
				end++
				continue
			}
			run := end
			for run < len(lines) && lines[run].Op == Equal {
				run++
			}
			if run == len(lines) || run-end > 2*d.Context {
				end = min(run, end+d.Context)
				break
			}
			end = run
		}
		hunks = append(hunks, newHunk(lines[start:end], pos[start], pos[end]))
		i = end
	}
	return hunks
}

func newHunk(lines []Line, from, to position) Hunk {
	h := Hunk{
		OldStart: from.old + 1,
		OldCount: to.old - from.old,
		NewStart: from.new + 1,
		NewCount: to.new - from.new,
		Lines:    lines,
	}
	if h.OldCount == 0 {
		h.OldStart = from.old
	}
	if h.NewCount == 0 {
		h.NewStart = from.new
	}
	return h
}

// Unified renders a unified diff of a and b, or "" when they are equal.
func (d *Differ) Unified(aName, bName, a, b string) string {
	hunks := d.Hunks(a, b)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", aName, bName)
	for _, h := range hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Op {
			case Insert:
				sb.WriteByte('+')
			case Delete:
				sb.WriteByte('-')
			default:
				sb.WriteByte(' ')
			}
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Unified renders a unified diff with the default Differ settings.
func Unified(aName, bName, a, b string) string {
	return New().Unified(aName, bName, a, b)
}
