// Package signature locates type declarations in source text and extracts
// and compares their public member signatures.
//
// The default path is a pattern scanner rather than a parser: declarations
// are found with anchored regular expressions and delimited by balancing
// braces, skipping comments and string literals. Comparison is textual.
package signature

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the declaration kind a definition was matched as.
type Kind string

const (
	KindStruct   Kind = "struct"   // aggregate/record
	KindClass    Kind = "class"    // reference type
	KindProtocol Kind = "protocol" // capability contract
)

// SearchOrder is the order in which kinds are tried within one file.
var SearchOrder = []Kind{KindStruct, KindClass, KindProtocol}

// Scope restricts which declarations a locator may return.
type Scope int

const (
	// ScopeTopLevel only accepts declarations outside any braces.
	ScopeTopLevel Scope = iota
	// ScopeAnyDepth also accepts declarations nested in other types,
	// as found in snapshot files.
	ScopeAnyDepth
)

// DefinitionSpan is the text of one located declaration.
type DefinitionSpan struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	File  string `json:"file"`
	Start int    `json:"start"` // byte offset in the file
	End   int    `json:"end"`   // exclusive
	Text  string `json:"-"`
}

// DefinitionNotFoundError is returned when no searched file declares Name.
type DefinitionNotFoundError struct {
	Name string
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("definition not found for type: %s", e.Name)
}

// MemberSignature is one publicly visible member.
// Mutability (let/var) is informational and never compared.
type MemberSignature struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Mutability string `json:"mutability,omitempty"`
}

// NormalizeType collapses whitespace runs to one space and trims the ends.
func NormalizeType(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}

// SignatureSet maps member names to signatures. Keys are case-sensitive and
// unique; adding a name twice keeps the later signature at the position of
// the first declaration.
type SignatureSet struct {
	members map[string]MemberSignature
	order   []string
}

// NewSignatureSet builds a set from members in declaration order.
func NewSignatureSet(members ...MemberSignature) SignatureSet {
	var s SignatureSet
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts or replaces a member. The type expression is normalized.
func (s *SignatureSet) Add(m MemberSignature) {
	if s.members == nil {
		s.members = make(map[string]MemberSignature)
	}
	m.Type = NormalizeType(m.Type)
	if _, exists := s.members[m.Name]; !exists {
		s.order = append(s.order, m.Name)
	}
	s.members[m.Name] = m
}

// Get looks up a member by name.
func (s SignatureSet) Get(name string) (MemberSignature, bool) {
	m, ok := s.members[name]
	return m, ok
}

// Len returns the number of members.
func (s SignatureSet) Len() int {
	return len(s.order)
}

// Members returns the members in declaration order.
func (s SignatureSet) Members() []MemberSignature {
	out := make([]MemberSignature, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.members[name])
	}
	return out
}

// Equal reports whether both sets hold the same members. Order is ignored.
func (s SignatureSet) Equal(other SignatureSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for name, m := range s.members {
		o, ok := other.members[name]
		if !ok || o != m {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an array in declaration order.
func (s SignatureSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Members())
}

// UnmarshalJSON decodes the array form written by MarshalJSON.
func (s *SignatureSet) UnmarshalJSON(data []byte) error {
	var members []MemberSignature
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewSignatureSet(members...)
	return nil
}
