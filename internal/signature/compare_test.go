package signature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	frozen := Extract("public struct WidgetInterface {\n    public let id: String\n    public var count: Int\n}")

	tests := []struct {
		name    string
		current string
		want    []Issue
	}{
		{
			name:    "identical",
			current: "public struct Widget {\n    public let id: String\n    public var count: Int\n}",
		},
		{
			name:    "order and mutability ignored",
			current: "public struct Widget {\n    public var count: Int\n    public var id: String\n}",
		},
		{
			name:    "changed type",
			current: "public struct Widget {\n    public let id: String\n    public var count: Double\n}",
			want:    []Issue{{Kind: ChangedMember, Member: "count", Expected: "Int", Actual: "Double"}},
		},
		{
			name:    "missing member",
			current: "public struct Widget {\n    public let id: String\n}",
			want:    []Issue{{Kind: MissingMember, Member: "count", Expected: "Int"}},
		},
		{
			name:    "unexpected member",
			current: "public struct Widget {\n    public let id: String\n    public var count: Int\n    public let extra: Bool\n}",
			want:    []Issue{{Kind: UnexpectedMember, Member: "extra", Actual: "Bool"}},
		},
		{
			name:    "member made non-public",
			current: "public struct Widget {\n    public let id: String\n    var count: Int\n}",
			want:    []Issue{{Kind: MissingMember, Member: "count", Expected: "Int"}},
		},
		{
			name:    "issue order",
			current: "public struct Widget {\n    public let extra: Bool\n    public let id: Int\n}",
			want: []Issue{
				{Kind: ChangedMember, Member: "id", Expected: "String", Actual: "Int"},
				{Kind: MissingMember, Member: "count", Expected: "Int"},
				{Kind: UnexpectedMember, Member: "extra", Actual: "Bool"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(frozen, Extract(tt.current))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompare_OptionalSugarIsTextual(t *testing.T) {
	expected := NewSignatureSet(MemberSignature{Name: "name", Type: "String?"})
	actual := NewSignatureSet(MemberSignature{Name: "name", Type: "Optional<String>"})

	issues := Compare(expected, actual)
	assert.Len(t, issues, 1)
	assert.Equal(t, ChangedMember, issues[0].Kind)
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "Property 'count' signature changed: expected 'Int', found 'Double'",
		Issue{Kind: ChangedMember, Member: "count", Expected: "Int", Actual: "Double"}.String())
	assert.Equal(t, "Missing required property 'count' (expected 'Int')",
		Issue{Kind: MissingMember, Member: "count", Expected: "Int"}.String())
	assert.Equal(t, "Unexpected property 'extra' added ('Bool')",
		Issue{Kind: UnexpectedMember, Member: "extra", Actual: "Bool"}.String())
}
