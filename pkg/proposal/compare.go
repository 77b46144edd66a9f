package proposal

import "strings"

// Policy controls how snippet suggestions are ordered relative to the rest.
type Policy int

const (
	// PolicyInline ranks snippets like any other suggestion.
	PolicyInline Policy = iota
	// PolicyTop ranks snippets before everything else.
	PolicyTop
	// PolicyBottom ranks snippets after everything else.
	PolicyBottom
	// PolicyHidden drops snippets entirely.
	PolicyHidden
)

var policyNames = map[Policy]string{
	PolicyInline: "inline",
	PolicyTop:    "top",
	PolicyBottom: "bottom",
	PolicyHidden: "hidden",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "inline"
}

// ParsePolicy maps a config string to a Policy, defaulting to inline.
func ParsePolicy(s string) Policy {
	switch s {
	case "top":
		return PolicyTop
	case "bottom":
		return PolicyBottom
	case "hidden":
		return PolicyHidden
	default:
		return PolicyInline
	}
}

// Compare returns the comparator for the given policy. Comparators report
// -1, 0 or 1; equal pairs keep their prior relative order under a stable
// sort. PolicyHidden shares the inline comparator, snippet items are dropped
// before sorting.
func Compare(policy Policy) func(a, b *Item) int {
	switch policy {
	case PolicyTop:
		return compareSnippetsUp
	case PolicyBottom:
		return compareSnippetsDown
	default:
		return compareByRank
	}
}

// compareByRank orders by sortText when both carry one, then by label.
func compareByRank(a, b *Item) int {
	if a.Suggestion.SortText != "" && b.Suggestion.SortText != "" {
		if c := strings.Compare(a.Suggestion.SortText, b.Suggestion.SortText); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Suggestion.Label, b.Suggestion.Label)
}

func compareSnippetsUp(a, b *Item) int {
	if c := snippetClass(a) - snippetClass(b); c != 0 {
		if c < 0 {
			return 1
		}
		return -1
	}
	return compareByRank(a, b)
}

func compareSnippetsDown(a, b *Item) int {
	if c := snippetClass(a) - snippetClass(b); c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	return compareByRank(a, b)
}

func snippetClass(x *Item) int {
	if x.Suggestion.Kind == Snippet {
		return 1
	}
	return 0
}
