package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LujunWeng/suggestd/pkg/proposal"
)

type stubProvider struct {
	name string
}

func (p *stubProvider) Complete(prefix string, limit int) *proposal.Batch {
	return &proposal.Batch{}
}

var defaultProvider = &stubProvider{name: "default"}

func newItem(label string, overwriteBefore int, kind proposal.Kind) *proposal.Item {
	return &proposal.Item{
		Suggestion: proposal.Suggestion{
			Label:           label,
			InsertText:      label,
			Kind:            kind,
			OverwriteBefore: overwriteBefore,
		},
		Position: proposal.Position{Line: 1, Column: 1},
		Provider: defaultProvider,
	}
}

func labels(items []*proposal.Item) []string {
	out := make([]string, len(items))
	for i, x := range items {
		out[i] = x.Suggestion.Label
	}
	return out
}

// sameSlice reports whether two non-empty slices share length and backing
// array, which is how the projection cache advertises "nothing changed".
func sameSlice(a, b []*proposal.Item) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func TestProjectionIdentity(t *testing.T) {
	items := []*proposal.Item{
		newItem("foo", 3, proposal.Property),
		newItem("Foo", 3, proposal.Property),
		newItem("foo", 2, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "foo"}, proposal.PolicyInline)

	first := m.Items()
	assert.Len(t, first, 3)

	// Reading again without touching the context returns the very same slice.
	assert.True(t, sameSlice(first, m.Items()))

	// A field-equal context assignment keeps the cache.
	m.SetLineContext(LineContext{LeadingLineContent: "foo"})
	assert.True(t, sameSlice(first, m.Items()))

	// A different context invalidates it.
	m.SetLineContext(LineContext{LeadingLineContent: "foo1", CharacterCountDelta: 1})
	assert.False(t, sameSlice(first, m.Items()))
}

func TestProjectionScoring(t *testing.T) {
	items := []*proposal.Item{
		newItem("foo", 3, proposal.Property),
		newItem("Foo", 3, proposal.Property),
		newItem("foo", 2, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "foo"}, proposal.PolicyInline)

	out := m.Items()
	if assert.Len(t, out, 3) {
		// exact-case full match, case-folded full match, then the item whose
		// overwrite window only covers "oo"
		assert.Equal(t, []string{"foo", "Foo", "foo"}, labels(out))
		assert.Greater(t, out[0].Score, out[1].Score)
		assert.Greater(t, out[1].Score, out[2].Score)
		assert.Equal(t, []int{0, 1, 2}, out[0].Matches)
		assert.Equal(t, []int{1, 2}, out[2].Matches)
	}
}

func TestAdoptCompleteBatches(t *testing.T) {
	complete := &stubProvider{name: "complete"}
	incomplete := &stubProvider{name: "incomplete"}

	a := newItem("foobar", 1, proposal.Property)
	a.Provider = complete
	a.Position = proposal.Position{Line: 1, Column: 2}
	b := newItem("foofoo", 1, proposal.Property)
	b.Provider = incomplete
	b.Incomplete = true
	b.Position = proposal.Position{Line: 1, Column: 2}

	m := New([]*proposal.Item{a, b}, 2, LineContext{LeadingLineContent: "f"}, proposal.PolicyInline)

	assert.Len(t, m.Items(), 2)
	inc := m.Incomplete()
	assert.Len(t, inc, 1)
	assert.True(t, inc.Has(incomplete))

	adopted := m.Adopt(inc)
	if assert.Len(t, adopted, 1) {
		assert.Equal(t, "foobar", adopted[0].Suggestion.Label)
	}

	// The model keeps only the incomplete batch, which still matches.
	assert.Equal(t, []string{"foofoo"}, labels(m.Items()))
	assert.Len(t, m.Incomplete(), 1)

	// Adopting again with the same set is a no-op.
	assert.Empty(t, m.Adopt(m.Incomplete()))
	assert.Len(t, m.Items(), 1)
}

func TestSnippetPolicyTop(t *testing.T) {
	items := []*proposal.Item{
		newItem("Snippet1", 1, proposal.Snippet),
		newItem("tnippet2", 1, proposal.Snippet),
		newItem("semver", 1, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "s"}, proposal.PolicyTop)

	out := m.Items()
	if assert.Len(t, out, 2) {
		assert.Equal(t, []string{"Snippet1", "semver"}, labels(out))
		// The snippet scores worse but the policy pins it first.
		assert.Less(t, out[0].Score, out[1].Score)
	}
}

func TestSnippetPolicyBottom(t *testing.T) {
	items := []*proposal.Item{
		newItem("snippet1", 1, proposal.Snippet),
		newItem("tnippet2", 1, proposal.Snippet),
		newItem("Semver", 1, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "s"}, proposal.PolicyBottom)

	out := m.Items()
	if assert.Len(t, out, 2) {
		assert.Equal(t, []string{"Semver", "snippet1"}, labels(out))
	}
}

func TestSnippetPolicyHidden(t *testing.T) {
	items := []*proposal.Item{
		newItem("snippet1", 1, proposal.Snippet),
		newItem("tnippet2", 1, proposal.Snippet),
		newItem("Semver", 1, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "s"}, proposal.PolicyHidden)

	out := m.Items()
	if assert.Len(t, out, 1) {
		assert.Equal(t, "Semver", out[0].Suggestion.Label)
	}
	for _, x := range out {
		assert.NotEqual(t, proposal.Snippet, x.Suggestion.Kind)
	}
}

// Typed patterns with one adjacent transposition still match, and equal sort
// texts let the score order the projection.
func TestRelaxedMatching(t *testing.T) {
	items := []*proposal.Item{
		newItem("result", 0, proposal.Property),
		newItem("replyToUser", 0, proposal.Property),
		newItem("randomLolut", 0, proposal.Property),
		newItem("car", 0, proposal.Property),
		newItem("foo", 0, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "rlut", CharacterCountDelta: 4}, proposal.PolicyInline)

	out := m.Items()
	if assert.Len(t, out, 3) {
		assert.Equal(t, []string{"result", "replyToUser", "randomLolut"}, labels(out))
	}
}

func TestNarrowThenWiden(t *testing.T) {
	items := []*proposal.Item{
		newItem("console", 0, proposal.Property),
		newItem("co_new", 0, proposal.Property),
		newItem("bar", 0, proposal.Property),
		newItem("car", 0, proposal.Property),
		newItem("foo", 0, proposal.Property),
	}
	m := New(items, 1, LineContext{}, proposal.PolicyInline)
	assert.Len(t, m.Items(), 5)

	m.SetLineContext(LineContext{LeadingLineContent: "c", CharacterCountDelta: 1})
	assert.Len(t, m.Items(), 3)

	m.SetLineContext(LineContext{LeadingLineContent: "cn", CharacterCountDelta: 2})
	assert.Equal(t, []string{"co_new", "console"}, labels(m.Items()))

	// Deleting back to the trigger point refilters the full batch, not just
	// the last narrowed set.
	m.SetLineContext(LineContext{})
	assert.Len(t, m.Items(), 5)
}

func TestWhitespacePrefix(t *testing.T) {
	items := []*proposal.Item{
		newItem("    </div", 4, proposal.Property),
		newItem("a", 0, proposal.Property),
		newItem("p", 0, proposal.Property),
		newItem("    </tag", 4, proposal.Property),
		newItem("    XYZ", 4, proposal.Property),
	}
	m := New(items, 1, LineContext{LeadingLineContent: "   <"}, proposal.PolicyInline)

	out := m.Items()
	if assert.Len(t, out, 4) {
		assert.Equal(t, []string{"    </div", "    </tag", "a", "p"}, labels(out))
	}
}

// A word of pure indentation keeps items that carry the same indentation in
// their label and drops the rest, without scoring anything.
func TestBlankWord(t *testing.T) {
	indented := newItem("    bar", 4, proposal.Property)
	plain := newItem("bar", 4, proposal.Property)
	m := New([]*proposal.Item{indented, plain}, 1, LineContext{LeadingLineContent: "    "}, proposal.PolicyInline)

	out := m.Items()
	if assert.Len(t, out, 1) {
		assert.Equal(t, "    bar", out[0].Suggestion.Label)
		assert.Equal(t, 0, out[0].Score)
		assert.Nil(t, out[0].Matches)
	}
}

func TestAlwaysShow(t *testing.T) {
	pinned := newItem("zzz", 1, proposal.Property)
	pinned.Suggestion.AlwaysShow = true
	m := New([]*proposal.Item{pinned, newItem("bar", 1, proposal.Property)}, 1,
		LineContext{LeadingLineContent: "b"}, proposal.PolicyInline)

	assert.Equal(t, []string{"bar", "zzz"}, labels(m.Items()))
}

// The overwrite window tracks the delta: a line too short for the window
// drops the item, deleting into the window shrinks it, deleting past it drops
// the item for good.
func TestOverwriteWindow(t *testing.T) {
	item := newItem("foobar", 3, proposal.Property)
	item.Position.Column = 4
	m := New([]*proposal.Item{item}, 4, LineContext{LeadingLineContent: "foo"}, proposal.PolicyInline)
	assert.Len(t, m.Items(), 1)

	// the window still spans 3 characters but only 2 remain
	m.SetLineContext(LineContext{LeadingLineContent: "fo"})
	assert.Empty(t, m.Items())

	m.SetLineContext(LineContext{LeadingLineContent: "f", CharacterCountDelta: -2})
	assert.Len(t, m.Items(), 1)

	m.SetLineContext(LineContext{LeadingLineContent: "", CharacterCountDelta: -4})
	assert.Empty(t, m.Items())
}

// Items produced at a later column than the trigger keep a consistent
// overwrite window.
func TestColumnAdjustment(t *testing.T) {
	late := newItem("foobar", 5, proposal.Property)
	late.Position = proposal.Position{Line: 1, Column: 6}
	m := New([]*proposal.Item{late}, 4, LineContext{LeadingLineContent: "foo"}, proposal.PolicyInline)

	// 5 + 0 - (6-4) leaves a window of 3: the whole line.
	out := m.Items()
	if assert.Len(t, out, 1) {
		assert.Equal(t, []int{0, 1, 2}, out[0].Matches)
	}
}

func TestFilterTextTarget(t *testing.T) {
	x := newItem("<div", 1, proposal.Property)
	x.Suggestion.FilterText = "div"
	m := New([]*proposal.Item{x}, 1, LineContext{LeadingLineContent: "d"}, proposal.PolicyInline)
	assert.Len(t, m.Items(), 1)

	y := newItem("<div", 1, proposal.Property)
	m2 := New([]*proposal.Item{y}, 1, LineContext{LeadingLineContent: "d"}, proposal.PolicyInline)
	assert.Len(t, m2.Items(), 1) // "d" is still a subsequence of "<div"

	z := newItem("<div", 1, proposal.Property)
	z.Suggestion.FilterText = "span"
	m3 := New([]*proposal.Item{z}, 1, LineContext{LeadingLineContent: "q"}, proposal.PolicyInline)
	assert.Empty(t, m3.Items())
}

func TestIncompleteTracksProjection(t *testing.T) {
	inc := &stubProvider{name: "inc"}
	a := newItem("console", 0, proposal.Property)
	a.Provider = inc
	a.Incomplete = true
	b := newItem("bar", 0, proposal.Property)
	b.Incomplete = true
	b.Provider = inc

	m := New([]*proposal.Item{a, b}, 1, LineContext{}, proposal.PolicyInline)
	assert.Len(t, m.Incomplete(), 1)

	// Once no item of the incomplete batch survives the filter, the provider
	// is no longer reported.
	m.SetLineContext(LineContext{LeadingLineContent: "zzz", CharacterCountDelta: 3})
	assert.Empty(t, m.Items())
	assert.Empty(t, m.Incomplete())
}
