package signature

import (
	"regexp"
	"strings"
)

// memberPattern matches `public let|var name: Type` at a statement start:
// a line start, or just after `;` or `{` on the same line. The type may
// start on the line after the colon and runs to `=`, `;`, a brace or the
// end of the line.
// Groups: 1 = mutability, 2 = name, 3 = raw type expression.
var memberPattern = regexp.MustCompile(`(?m)(?:^|[;{])[ \t]*(?:@\w+(?:\([^)\n]*\))?[ \t]+)*public[ \t]+(let|var)[ \t]+(\w+)[ \t]*:\s*([^=;{}\n]+)`)

// Extract returns the public stored/computed property signatures declared in
// a definition's text. Members without the public marker are ignored, and
// so are matches inside comments or string literals. Members of nested
// types inside the span are included. A repeated name keeps the later type.
func Extract(text string) SignatureSet {
	var set SignatureSet
	matches := memberPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return set
	}

	st := scanStructure(text)
	for _, m := range matches {
		if st.isMasked(m[4]) {
			continue
		}
		set.Add(MemberSignature{
			Name:       text[m[4]:m[5]],
			Type:       cleanTypeExpr(text[m[6]:m[7]]),
			Mutability: text[m[2]:m[3]],
		})
	}
	return set
}

// cleanTypeExpr drops a trailing comment from the text captured after the
// colon.
func cleanTypeExpr(expr string) string {
	if i := strings.Index(expr, "//"); i >= 0 {
		expr = expr[:i]
	}
	if i := strings.Index(expr, "/*"); i >= 0 {
		expr = expr[:i]
	}
	return NormalizeType(expr)
}
