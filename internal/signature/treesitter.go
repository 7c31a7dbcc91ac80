package signature

import (
	"context"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"

	"typedrift/internal/world"
)

// TreeSitterLocator locates declarations using the tree-sitter Swift
// grammar. Spans, visibility rules and the first-file-wins policy match
// PatternLocator; only the way declarations are recognized differs.
type TreeSitterLocator struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewTreeSitterLocator creates a locator with its own parser.
func NewTreeSitterLocator() *TreeSitterLocator {
	parser := sitter.NewParser()
	parser.SetLanguage(swift.GetLanguage())
	return &TreeSitterLocator{parser: parser}
}

// Close releases the parser.
func (l *TreeSitterLocator) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.parser != nil {
		l.parser.Close()
		l.parser = nil
	}
}

// Locate implements Locator.
func (l *TreeSitterLocator) Locate(name string, files []world.SourceFile, scope Scope) (DefinitionSpan, error) {
	for _, f := range files {
		if !strings.Contains(f.Content, name) {
			continue
		}
		span, ok, err := l.locateInFile(name, f, scope)
		if err != nil {
			return DefinitionSpan{}, err
		}
		if ok {
			return span, nil
		}
	}
	return DefinitionSpan{}, &DefinitionNotFoundError{Name: name}
}

type tsDecl struct {
	kind Kind
	node *sitter.Node
}

func (l *TreeSitterLocator) locateInFile(name string, f world.SourceFile, scope Scope) (DefinitionSpan, bool, error) {
	content := []byte(f.Content)

	l.mu.Lock()
	tree, err := l.parser.ParseCtx(context.Background(), nil, content)
	l.mu.Unlock()
	if err != nil {
		return DefinitionSpan{}, false, err
	}
	defer tree.Close()

	var decls []tsDecl
	collectDecls(tree.RootNode(), content, name, scope, 0, &decls)

	for _, kind := range SearchOrder {
		for _, d := range decls {
			if d.kind != kind {
				continue
			}
			start, end := lineStart(f.Content, keywordOffset(d.node)), int(d.node.EndByte())
			return DefinitionSpan{
				Name:  name,
				Kind:  kind,
				File:  f.Path,
				Start: start,
				End:   end,
				Text:  f.Content[start:end],
			}, true, nil
		}
	}
	return DefinitionSpan{}, false, nil
}

// collectDecls gathers public declarations of name in document order.
// depth counts enclosing type declarations.
func collectDecls(node *sitter.Node, content []byte, name string, scope Scope, depth int, out *[]tsDecl) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_declaration", "protocol_declaration":
			kind, ok := declKind(child)
			if ok && declName(child, content) == name && (scope == ScopeAnyDepth || depth == 0) {
				if isPublic(modifierText(child, content), kind) {
					*out = append(*out, tsDecl{kind: kind, node: child})
				}
			}
			collectDecls(child, content, name, scope, depth+1, out)
		default:
			collectDecls(child, content, name, scope, depth, out)
		}
	}
}

// declKind reads the keyword token of a declaration node.
func declKind(node *sitter.Node) (Kind, bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "struct":
			return KindStruct, true
		case "class":
			return KindClass, true
		case "protocol":
			return KindProtocol, true
		}
	}
	return "", false
}

func declName(node *sitter.Node, content []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Content(content)
	}
	if n := childOfType(node, "type_identifier"); n != nil {
		return n.Content(content)
	}
	return ""
}

func modifierText(node *sitter.Node, content []byte) string {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return ""
	}
	var parts []string
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		m := mods.NamedChild(i)
		if m.Type() == "attribute" {
			continue
		}
		parts = append(parts, m.Content(content))
	}
	return strings.Join(parts, " ")
}

func keywordOffset(node *sitter.Node) int {
	for i := 0; i < int(node.ChildCount()); i++ {
		switch c := node.Child(i); c.Type() {
		case "struct", "class", "protocol":
			return int(c.StartByte())
		}
	}
	return int(node.StartByte())
}

// lineStart returns the first non-blank offset of the line containing pos.
func lineStart(src string, pos int) int {
	i := strings.LastIndexByte(src[:pos], '\n') + 1
	for i < pos && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func childOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
