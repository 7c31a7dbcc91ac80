package signature

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"typedrift/internal/world"
)

// Locator finds the declaration of a named type in a list of files.
//
// Files are tried in the given order and the first file that declares the
// name wins; later files are not examined. A type declared again in a later
// file (a re-declaration or a second definition behind a build flag) is
// therefore silently hidden.
type Locator interface {
	Locate(name string, files []world.SourceFile, scope Scope) (DefinitionSpan, error)
}

// NewLocator returns the locator registered under name ("pattern" or
// "treesitter"). The returned close func releases parser resources.
func NewLocator(name string) (Locator, func(), error) {
	switch name {
	case "", "pattern":
		return NewPatternLocator(), func() {}, nil
	case "treesitter":
		l := NewTreeSitterLocator()
		return l, l.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown locator %q", name)
	}
}

// PatternLocator locates declarations with anchored regular expressions and
// a brace scanner. It is safe for concurrent use.
type PatternLocator struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewPatternLocator creates a PatternLocator.
func NewPatternLocator() *PatternLocator {
	return &PatternLocator{patterns: make(map[string]*regexp.Regexp)}
}

// declaration pattern groups: 1 = modifiers, 2 = keyword.
//
// The match is anchored at a line start; leading indentation and attributes
// such as @frozen or @available(iOS 15, *) may precede the modifiers.
const declPrefix = `(?m)^[ \t]*(?:@\w+(?:\([^)\n]*\))?[ \t]+)*((?:[a-z]+(?:\([a-z]+\))?[ \t]+)*)`

func (l *PatternLocator) pattern(kind Kind, name string) *regexp.Regexp {
	key := string(kind) + " " + name
	l.mu.Lock()
	defer l.mu.Unlock()
	if re, ok := l.patterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(declPrefix + `(` + string(kind) + `)[ \t]+` + regexp.QuoteMeta(name) + `\b`)
	l.patterns[key] = re
	return re
}

// isPublic reports whether the modifier list marks the declaration as
// visible outside its module.
func isPublic(modifiers string, kind Kind) bool {
	for _, m := range strings.Fields(modifiers) {
		if m == "public" || (m == "open" && kind == KindClass) {
			return true
		}
	}
	return false
}

// Locate implements Locator. For each file in order it tries struct, class
// and protocol declarations of name.
func (l *PatternLocator) Locate(name string, files []world.SourceFile, scope Scope) (DefinitionSpan, error) {
	for _, f := range files {
		if span, ok := l.locateInFile(name, f, scope); ok {
			return span, nil
		}
	}
	return DefinitionSpan{}, &DefinitionNotFoundError{Name: name}
}

func (l *PatternLocator) locateInFile(name string, f world.SourceFile, scope Scope) (DefinitionSpan, bool) {
	src := f.Content
	if !strings.Contains(src, name) {
		return DefinitionSpan{}, false
	}

	var st *structure
	for _, kind := range SearchOrder {
		for _, m := range l.pattern(kind, name).FindAllStringSubmatchIndex(src, -1) {
			modifiers := src[m[2]:m[3]]
			if !isPublic(modifiers, kind) {
				continue
			}
			if st == nil {
				st = scanStructure(src)
			}
			keyword := m[4]
			if st.isMasked(keyword) {
				continue
			}
			if scope == ScopeTopLevel && st.depthAt(keyword) != 0 {
				continue
			}
			open := st.nextOpen(m[1])
			if open < 0 {
				continue
			}

			start := m[0] + len(src[m[0]:m[3]]) - len(strings.TrimLeft(src[m[0]:m[3]], " \t"))
			end := len(src)
			if closePos := st.matchClose(open); closePos >= 0 {
				end = closePos + 1
			}
			return DefinitionSpan{
				Name:  name,
				Kind:  kind,
				File:  f.Path,
				Start: start,
				End:   end,
				Text:  src[start:end],
			}, true
		}
	}
	return DefinitionSpan{}, false
}
