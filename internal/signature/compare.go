package signature

import "fmt"

// IssueKind tags a drift issue.
type IssueKind string

const (
	MissingMember    IssueKind = "missing_member"
	ChangedMember    IssueKind = "changed_member"
	UnexpectedMember IssueKind = "unexpected_member"
)

// Issue is one structural difference between the frozen and current
// signature of a type. Expected is empty for UnexpectedMember and Actual is
// empty for MissingMember.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Member   string    `json:"member"`
	Expected string    `json:"expected,omitempty"`
	Actual   string    `json:"actual,omitempty"`
}

func (i Issue) String() string {
	switch i.Kind {
	case MissingMember:
		return fmt.Sprintf("Missing required property '%s' (expected '%s')", i.Member, i.Expected)
	case ChangedMember:
		return fmt.Sprintf("Property '%s' signature changed: expected '%s', found '%s'", i.Member, i.Expected, i.Actual)
	case UnexpectedMember:
		return fmt.Sprintf("Unexpected property '%s' added ('%s')", i.Member, i.Actual)
	default:
		return fmt.Sprintf("%s '%s'", i.Kind, i.Member)
	}
}

// Compare diffs the frozen (expected) and current (actual) sets.
//
// Expected members are visited in declaration order and reported missing
// or changed; then actual members absent from expected are reported as
// unexpected, also in declaration order. Type expressions are compared as
// normalized text only, so `String?` and `Optional<String>` differ.
func Compare(expected, actual SignatureSet) []Issue {
	if expected.Equal(actual) {
		return nil
	}

	var issues []Issue

	for _, want := range expected.Members() {
		got, ok := actual.Get(want.Name)
		switch {
		case !ok:
			issues = append(issues, Issue{Kind: MissingMember, Member: want.Name, Expected: want.Type})
		case NormalizeType(got.Type) != NormalizeType(want.Type):
			issues = append(issues, Issue{Kind: ChangedMember, Member: want.Name, Expected: want.Type, Actual: got.Type})
		}
	}

	for _, got := range actual.Members() {
		if _, ok := expected.Get(got.Name); !ok {
			issues = append(issues, Issue{Kind: UnexpectedMember, Member: got.Name, Actual: got.Type})
		}
	}

	return issues
}
