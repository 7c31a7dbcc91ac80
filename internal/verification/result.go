package verification

import (
	"typedrift/internal/signature"
)

// Location records where a definition was found.
type Location struct {
	File  string         `json:"file"`
	Kind  signature.Kind `json:"kind"`
	Start int            `json:"start"`
	End   int            `json:"end"`
}

func locationOf(span signature.DefinitionSpan) Location {
	return Location{File: span.File, Kind: span.Kind, Start: span.Start, End: span.End}
}

// TypeVerification is the verdict for one registry type.
type TypeVerification struct {
	TypeName     string            `json:"typeName"`
	IsCompatible bool              `json:"isCompatible"`
	Issues       []signature.Issue `json:"issues"`

	Expected signature.SignatureSet `json:"expectedSignature"`
	Actual   signature.SignatureSet `json:"actualSignature"`

	SnapshotLocation   Location `json:"snapshotLocation"`
	SourceLocation     Location `json:"sourceLocation"`
	SnapshotDefinition string   `json:"snapshotDefinition"`
	CurrentDefinition  string   `json:"currentDefinition"`
}

// NewTypeVerification compares the two sets and records the verdict.
// IsCompatible is true exactly when there are no issues.
func NewTypeVerification(name string, snapshot, current signature.DefinitionSpan) TypeVerification {
	expected := signature.Extract(snapshot.Text)
	actual := signature.Extract(current.Text)
	issues := signature.Compare(expected, actual)
	if issues == nil {
		issues = []signature.Issue{}
	}
	return TypeVerification{
		TypeName:           name,
		IsCompatible:       len(issues) == 0,
		Issues:             issues,
		Expected:           expected,
		Actual:             actual,
		SnapshotLocation:   locationOf(snapshot),
		SourceLocation:     locationOf(current),
		SnapshotDefinition: snapshot.Text,
		CurrentDefinition:  current.Text,
	}
}

// ScanStats summarizes the collected sources.
type ScanStats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// VerificationResult is the outcome of verifying one suite. It is built by
// NewVerificationResult and must be treated as read-only afterwards.
type VerificationResult struct {
	Suite             string             `json:"suite"`
	SourceDirectory   string             `json:"sourceDirectory"`
	SnapshotFile      string             `json:"snapshotFile"`
	TotalTypes        int                `json:"totalTypes"`
	CompatibleTypes   int                `json:"compatibleTypes"`
	IncompatibleTypes int                `json:"incompatibleTypes"`
	IsAllCompatible   bool               `json:"isAllCompatible"`
	Verifications     []TypeVerification `json:"verifications"`
	Scan              ScanStats          `json:"scan"`
	Warnings          []string           `json:"warnings,omitempty"`
}

// NewVerificationResult derives the aggregate counts from verifications,
// which must be in registry order.
func NewVerificationResult(suite, sourceDir, snapshotFile string, verifications []TypeVerification, scan ScanStats, warnings []string) *VerificationResult {
	compatible := 0
	for _, v := range verifications {
		if v.IsCompatible {
			compatible++
		}
	}
	if verifications == nil {
		verifications = []TypeVerification{}
	}
	return &VerificationResult{
		Suite:             suite,
		SourceDirectory:   sourceDir,
		SnapshotFile:      snapshotFile,
		TotalTypes:        len(verifications),
		CompatibleTypes:   compatible,
		IncompatibleTypes: len(verifications) - compatible,
		IsAllCompatible:   compatible == len(verifications),
		Verifications:     verifications,
		Scan:              scan,
		Warnings:          warnings,
	}
}

// Incompatible returns the verifications that reported drift.
func (r *VerificationResult) Incompatible() []TypeVerification {
	var out []TypeVerification
	for _, v := range r.Verifications {
		if !v.IsCompatible {
			out = append(out, v)
		}
	}
	return out
}
