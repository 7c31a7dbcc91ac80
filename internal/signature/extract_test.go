package signature

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []MemberSignature
	}{
		{
			name: "let and var",
			text: "public struct Widget {\n    public let id: String\n    public var count: Int\n}",
			want: []MemberSignature{
				{Name: "id", Type: "String", Mutability: "let"},
				{Name: "count", Type: "Int", Mutability: "var"},
			},
		},
		{
			name: "non-public members ignored",
			text: "public struct Widget {\n    let hidden: Int\n    private var secret: String\n    public let id: String\n}",
			want: []MemberSignature{{Name: "id", Type: "String", Mutability: "let"}},
		},
		{
			name: "default value and comment stripped",
			text: "public struct W {\n    public var count: Int = 0\n    public let tags: [String] // labels\n}",
			want: []MemberSignature{
				{Name: "count", Type: "Int", Mutability: "var"},
				{Name: "tags", Type: "[String]", Mutability: "let"},
			},
		},
		{
			name: "computed property",
			text: "public struct W {\n    public var total: Double { 1.0 }\n}",
			want: []MemberSignature{{Name: "total", Type: "Double", Mutability: "var"}},
		},
		{
			name: "whitespace normalized",
			text: "public struct W {\n    public let map:   [String :   Int]\n}",
			want: []MemberSignature{{Name: "map", Type: "[String : Int]", Mutability: "let"}},
		},
		{
			name: "commented out member",
			text: "public struct W {\n    // public let old: Int\n    /* public let older: Int */\n    public let id: String\n}",
			want: []MemberSignature{{Name: "id", Type: "String", Mutability: "let"}},
		},
		{
			name: "later duplicate wins",
			text: "public struct W {\n    public let id: String\n    public let id: UUID\n}",
			want: []MemberSignature{{Name: "id", Type: "UUID", Mutability: "let"}},
		},
		{
			name: "one line declaration",
			text: "public struct WidgetInterface { public let id: String; public let count: Int }",
			want: []MemberSignature{
				{Name: "id", Type: "String", Mutability: "let"},
				{Name: "count", Type: "Int", Mutability: "let"},
			},
		},
		{
			name: "trailing semicolon",
			text: "public struct W {\n    public let id: String;\n    public var count: Int = 0; // counter\n}",
			want: []MemberSignature{
				{Name: "id", Type: "String", Mutability: "let"},
				{Name: "count", Type: "Int", Mutability: "var"},
			},
		},
		{
			name: "type on the next line",
			text: "public struct W {\n    public let count:\n        Double\n}",
			want: []MemberSignature{{Name: "count", Type: "Double", Mutability: "let"}},
		},
		{
			name: "member inside string ignored",
			text: "public struct W {\n    public let label: String = \"{ public let fake: Int\"\n}",
			want: []MemberSignature{{Name: "label", Type: "String", Mutability: "let"}},
		},
		{
			name: "no members",
			text: "public struct W {}",
			want: []MemberSignature{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if diff := cmp.Diff(tt.want, got.Members()); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignatureSet(t *testing.T) {
	a := NewSignatureSet(
		MemberSignature{Name: "id", Type: "String"},
		MemberSignature{Name: "count", Type: "Int"},
	)
	b := NewSignatureSet(
		MemberSignature{Name: "count", Type: " Int "},
		MemberSignature{Name: "id", Type: "String"},
	)

	assert.True(t, a.Equal(b))
	assert.True(t, cmp.Equal(a, b))
	assert.Equal(t, 2, a.Len())

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"id","type":"String"},{"name":"count","type":"Int"}]`, string(data))

	var decoded SignatureSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(a))
}
