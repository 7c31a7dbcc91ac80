package report

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typedrift/internal/signature"
	"typedrift/internal/verification"
)

func span(name, file, text string) signature.DefinitionSpan {
	return signature.DefinitionSpan{Name: name, Kind: signature.KindStruct, File: file, End: len(text), Text: text}
}

func sampleResult(current string) *verification.VerificationResult {
	snapshot := "public struct WidgetInterface {\n    public let id: String\n    public var count: Int\n}"
	gadget := "public struct Gadget {\n    public let name: String\n}"
	return verification.NewVerificationResult("core", "Sources", "Sources/Core/Snapshot.swift",
		[]verification.TypeVerification{
			verification.NewTypeVerification("Widget",
				span("WidgetInterface", "Sources/Core/Snapshot.swift", snapshot),
				span("Widget", "Models/Widget.swift", current)),
			verification.NewTypeVerification("Gadget",
				span("GadgetInterface", "Sources/Core/Snapshot.swift", "public struct GadgetInterface {\n    public let name: String\n}"),
				span("Gadget", "Models/Gadget.swift", gadget)),
		},
		verification.ScanStats{Files: 2, Bytes: 2048},
		nil,
	)
}

const compatibleWidget = "public struct Widget {\n    public let id: String\n    public var count: Int\n}"
const driftedWidget = "public struct Widget {\n    public let id: String\n    public var count: Double\n}"

func TestWriteText_Compatible(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []*verification.VerificationResult{sampleResult(compatibleWidget)}, false))

	want := "✓ Widget: compatible\n" +
		"✓ Gadget: compatible\n" +
		"\n" +
		"Verification complete: 2/2 types compatible\n" +
		"All types are compatible with the frozen snapshot.\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_Drift(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []*verification.VerificationResult{sampleResult(driftedWidget)}, false))

	out := buf.String()
	assert.Contains(t, out, "✗ Widget: interface drift detected\n")
	assert.Contains(t, out, "✓ Gadget: compatible\n")
	assert.Contains(t, out, "Verification complete: 1/2 types compatible\n")
	assert.Contains(t, out, "1 type has interface drift\n")
	assert.Contains(t, out, "  • Property 'count' signature changed: expected 'Int', found 'Double'\n")
	assert.NotContains(t, out, "Diff:")
}

func TestWriteText_Verbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []*verification.VerificationResult{sampleResult(driftedWidget)}, true))

	out := buf.String()
	assert.Contains(t, out, "Scanned 2 files (2.0 kB) under Sources\n")
	assert.Contains(t, out, "  Snapshot definition (Sources/Core/Snapshot.swift):\n    public struct WidgetInterface {\n")
	assert.Contains(t, out, "  Current definition (Models/Widget.swift):\n    public struct Widget {\n")
	assert.Contains(t, out, "  Diff:\n")
	assert.Contains(t, out, "    -    public var count: Int\n")
	assert.Contains(t, out, "    +    public var count: Double\n")
}

func TestWriteText_MultipleSuites(t *testing.T) {
	a := sampleResult(compatibleWidget)
	b := sampleResult(driftedWidget)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []*verification.VerificationResult{a, b}, false))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("Suite core\n")))
}

func TestJSON_RoundTrip(t *testing.T) {
	results := []*verification.VerificationResult{sampleResult(driftedWidget)}

	var first, second bytes.Buffer
	require.NoError(t, WriteJSON(&first, results))
	require.NoError(t, WriteJSON(&second, results))
	assert.Equal(t, first.String(), second.String())

	out := first.String()
	for _, field := range []string{
		`"sourceDirectory": "Sources"`,
		`"snapshotFile": "Sources/Core/Snapshot.swift"`,
		`"totalTypes": 2`,
		`"compatibleTypes": 1`,
		`"incompatibleTypes": 1`,
		`"isAllCompatible": false`,
		`"typeName": "Widget"`,
		`"kind": "changed_member"`,
		`"snapshotDefinition"`,
	} {
		assert.Contains(t, out, field)
	}

	decoded, err := ReadJSON(&first)
	require.NoError(t, err)
	if diff := cmp.Diff(results, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_MultipleResults(t *testing.T) {
	results := []*verification.VerificationResult{sampleResult(compatibleWidget), sampleResult(driftedWidget)}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, results))
	assert.Equal(t, byte('['), buf.Bytes()[0])

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.True(t, decoded[0].IsAllCompatible)
	assert.False(t, decoded[1].IsAllCompatible)
}

func TestWritePrometheus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf, []*verification.VerificationResult{sampleResult(driftedWidget)}))

	out := buf.String()
	for _, line := range []string{
		"# TYPE typedrift_types_total gauge\n",
		`typedrift_types_total{suite="core"} 2` + "\n",
		`typedrift_types_compatible{suite="core"} 1` + "\n",
		`typedrift_types_incompatible{suite="core"} 1` + "\n",
		`typedrift_type_compatible{suite="core",type="Widget"} 0` + "\n",
		`typedrift_type_compatible{suite="core",type="Gadget"} 1` + "\n",
		`typedrift_type_issues{kind="changed_member",suite="core",type="Widget"} 1` + "\n",
		`typedrift_type_issues{kind="missing_member",suite="core",type="Widget"} 0` + "\n",
	} {
		assert.Contains(t, out, line)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitCompatible, ExitCode([]*verification.VerificationResult{sampleResult(compatibleWidget)}))
	assert.Equal(t, ExitDrift, ExitCode([]*verification.VerificationResult{sampleResult(driftedWidget)}))
	assert.Equal(t, ExitDrift, ExitCode([]*verification.VerificationResult{sampleResult(compatibleWidget), sampleResult(driftedWidget)}))
	assert.Equal(t, ExitDrift, ExitCode(nil))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "JSON": FormatJSON, "prometheus": FormatPrometheus} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
