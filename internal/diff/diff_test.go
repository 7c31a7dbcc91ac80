package diff

import (
	"strings"
	"testing"
)

func TestLines_SimpleAddition(t *testing.T) {
	lines := New().Lines("line1\nline2\nline3", "line1\nline2\nline2.5\nline3")

	hasAddition := false
	for _, l := range lines {
		if l.Op == Insert && l.Text == "line2.5" {
			hasAddition = true
		}
		if l.Op == Delete {
			t.Errorf("unexpected deletion %q", l.Text)
		}
	}
	if !hasAddition {
		t.Error("Expected to find added line 'line2.5'")
	}
}

func TestHunks_SimpleDeletion(t *testing.T) {
	hunks := New().Hunks("line1\nline2\nline3\nline4", "line1\nline2\nline4")
	if len(hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(hunks))
	}

	h := hunks[0]
	if h.OldStart != 1 || h.OldCount != 4 || h.NewStart != 1 || h.NewCount != 3 {
		t.Errorf("unexpected hunk header %+v", h)
	}

	hasRemoval := false
	for _, l := range h.Lines {
		if l.Op == Delete && l.Text == "line3" {
			hasRemoval = true
		}
	}
	if !hasRemoval {
		t.Error("Expected to find removed line 'line3'")
	}
}

func TestHunks_Identical(t *testing.T) {
	if hunks := New().Hunks("a\nb\n", "a\nb\n"); len(hunks) != 0 {
		t.Errorf("Expected no hunks, got %d", len(hunks))
	}
	if out := Unified("a", "b", "x\n", "x\n"); out != "" {
		t.Errorf("Expected empty diff, got %q", out)
	}
}

func TestHunks_DistantChangesSplit(t *testing.T) {
	var a, b []string
	for i := 0; i < 20; i++ {
		line := "line" + string(rune('a'+i))
		a = append(a, line)
		b = append(b, line)
	}
	b[1] = "changed-1"
	b[18] = "changed-18"

	hunks := New().Hunks(strings.Join(a, "\n")+"\n", strings.Join(b, "\n")+"\n")
	if len(hunks) != 2 {
		t.Fatalf("Expected 2 hunks, got %d", len(hunks))
	}
	if hunks[1].OldStart != 16 {
		t.Errorf("Expected second hunk at old line 16, got %d", hunks[1].OldStart)
	}
}

func TestUnified_Definition(t *testing.T) {
	expected := "public struct WidgetInterface {\n    public let id: String\n    public var count: Int\n}"
	current := "public struct Widget {\n    public let id: String\n    public var count: Double\n}"

	out := Unified("snapshot", "current", expected, current)

	for _, want := range []string{
		"--- snapshot\n+++ current\n",
		"-public struct WidgetInterface {\n",
		"+public struct Widget {\n",
		"     public let id: String\n",
		"-    public var count: Int\n",
		"+    public var count: Double\n",
		" }\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
}
