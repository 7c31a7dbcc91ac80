package verification

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"typedrift/internal/signature"
	"typedrift/internal/world"
)

const snapshotIndent = "    "

// Freeze renders a snapshot file for the engine's suite from the current
// sources. Every registry type becomes a `public struct <Type><Marker>`
// holding its current public members, wrapped in the suite's container
// type when one is configured. Verifying against the output immediately
// afterwards reports every type compatible.
func (e *Engine) Freeze(ctx context.Context) ([]byte, error) {
	scanner := world.NewScanner(world.ScannerConfig{
		Suffix:         e.suite.SourceSuffix,
		IgnorePatterns: e.suite.IgnorePatterns,
		MaxFileBytes:   e.maxFileBytes,
	}, e.logger)
	scan, err := scanner.Collect(ctx, e.suite.SourceRoot)
	if err != nil {
		return nil, err
	}

	files := scan.Files
	if abs, err := filepath.Abs(e.suite.SnapshotPath); err == nil {
		files = withoutFile(files, abs)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Snapshot of the public interface of suite %s.\n", e.suite.Name)
	buf.WriteString("// Generated by typedrift freeze. Verification compares current sources against it.\n\n")
	buf.WriteString("import Foundation\n\n")

	indent := ""
	if e.suite.Container != "" {
		fmt.Fprintf(&buf, "public struct %s {\n", e.suite.Container)
		indent = snapshotIndent
	}

	var errs *multierror.Error
	for i, name := range e.suite.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		span, err := e.locator.Locate(name, files, signature.ScopeTopLevel)
		if err != nil {
			errs = multierror.Append(errs, &Error{Side: SideCurrent, Type: name, Err: err})
			continue
		}
		members := signature.Extract(span.Text)
		e.logger.Debug("freezing type", zap.String("type", name), zap.Int("members", members.Len()))

		if i > 0 {
			buf.WriteString("\n")
		}
		writeFrozenType(&buf, indent, name+e.suite.Marker, span, members)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if e.suite.Container != "" {
		buf.WriteString("}\n")
	}
	return buf.Bytes(), nil
}

func writeFrozenType(buf *bytes.Buffer, indent, name string, span signature.DefinitionSpan, members signature.SignatureSet) {
	fmt.Fprintf(buf, "%s// %s %s in %s\n", indent, span.Kind, span.Name, span.File)
	fmt.Fprintf(buf, "%spublic struct %s {\n", indent, name)
	for _, m := range members.Members() {
		mutability := m.Mutability
		if mutability == "" {
			mutability = "let"
		}
		fmt.Fprintf(buf, "%s%spublic %s %s: %s\n", indent, snapshotIndent, mutability, m.Name, m.Type)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}
