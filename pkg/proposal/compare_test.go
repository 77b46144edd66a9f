package proposal

import (
	"sort"
	"testing"
)

func item(label, sortText string, kind Kind) *Item {
	return &Item{Suggestion: Suggestion{Label: label, SortText: sortText, Kind: kind}}
}

func sortWith(policy Policy, items []*Item) []string {
	cmp := Compare(policy)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})
	out := make([]string, len(items))
	for i, x := range items {
		out[i] = x.Suggestion.Label
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompareByRank(t *testing.T) {
	testCases := []struct {
		name     string
		items    []*Item
		expected []string
	}{
		{
			"Labels when no sortText",
			[]*Item{item("zoo", "", Text), item("bar", "", Text), item("Foo", "", Text)},
			[]string{"Foo", "bar", "zoo"},
		},
		{
			"SortText wins over label",
			[]*Item{item("aaa", "2", Text), item("zzz", "1", Text)},
			[]string{"zzz", "aaa"},
		},
		{
			"Label breaks sortText ties",
			[]*Item{item("bbb", "1", Text), item("aaa", "1", Text)},
			[]string{"aaa", "bbb"},
		},
		{
			"Missing sortText on one side falls back to labels",
			[]*Item{item("bbb", "", Text), item("aaa", "0", Text)},
			[]string{"aaa", "bbb"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := sortWith(PolicyInline, tc.items)
			if !equal(got, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCompareSnippetPolicies(t *testing.T) {
	build := func() []*Item {
		return []*Item{
			item("var1", "", Variable),
			item("snip1", "", Snippet),
			item("var2", "", Variable),
			item("snip2", "", Snippet),
		}
	}

	got := sortWith(PolicyTop, build())
	if !equal(got, []string{"snip1", "snip2", "var1", "var2"}) {
		t.Errorf("top: got %v", got)
	}

	got = sortWith(PolicyBottom, build())
	if !equal(got, []string{"var1", "var2", "snip1", "snip2"}) {
		t.Errorf("bottom: got %v", got)
	}

	// inline and hidden share the rank comparator
	got = sortWith(PolicyInline, build())
	if !equal(got, []string{"snip1", "snip2", "var1", "var2"}) {
		t.Errorf("inline: got %v", got)
	}
	got = sortWith(PolicyHidden, build())
	if !equal(got, []string{"snip1", "snip2", "var1", "var2"}) {
		t.Errorf("hidden: got %v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	testCases := []struct {
		in       string
		expected Policy
	}{
		{"top", PolicyTop},
		{"bottom", PolicyBottom},
		{"hidden", PolicyHidden},
		{"inline", PolicyInline},
		{"", PolicyInline},
		{"nonsense", PolicyInline},
	}
	for _, tc := range testCases {
		if got := ParsePolicy(tc.in); got != tc.expected {
			t.Errorf("ParsePolicy(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
	for _, p := range []Policy{PolicyInline, PolicyTop, PolicyBottom, PolicyHidden} {
		if ParsePolicy(p.String()) != p {
			t.Errorf("round trip failed for %v", p)
		}
	}
}

func TestItemTarget(t *testing.T) {
	x := item("<div", "", Property)
	if x.Target() != "<div" {
		t.Errorf("expected label, got %q", x.Target())
	}
	x.Suggestion.FilterText = "div"
	if x.Target() != "div" {
		t.Errorf("expected filterText, got %q", x.Target())
	}
}

type nopProvider struct{ id int }

func (p *nopProvider) Complete(prefix string, limit int) *Batch { return &Batch{} }

func TestWrapAndProviderSet(t *testing.T) {
	p1 := &nopProvider{id: 1}
	p2 := &nopProvider{id: 2}

	batch := &Batch{
		Suggestions: []Suggestion{{Label: "one"}, {Label: "two"}},
		Incomplete:  true,
	}
	items := Wrap(batch, p1, Position{Line: 3, Column: 7})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, x := range items {
		if x.Provider != Provider(p1) || !x.Incomplete {
			t.Errorf("item %q lost its batch attribution", x.Suggestion.Label)
		}
		if x.Position.Line != 3 || x.Position.Column != 7 {
			t.Errorf("item %q lost its position", x.Suggestion.Label)
		}
	}

	set := make(ProviderSet)
	set.Add(p1)
	if !set.Has(p1) || set.Has(p2) {
		t.Error("provider identity should be the set key")
	}
}
