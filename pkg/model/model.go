/*
Package model caches the filtered, scored view of a fixed batch of completion
items under a mutable line context.

A Model is created per completion session from the items the providers
returned at one trigger point. The UI then mutates the line context as the
user types; reading Items recomputes the projection lazily. The projection
slice is identity-stable: re-assigning an equal context returns the same
slice, so callers can elide re-renders with a pointer compare.

The model performs no I/O and never fails: ill-formed items are silently
excluded. It is owned by a single goroutine.
*/
package model

import (
	"sort"
	"strings"

	"github.com/LujunWeng/suggestd/internal/utils"
	"github.com/LujunWeng/suggestd/pkg/proposal"
	"github.com/LujunWeng/suggestd/pkg/scorer"
)

// LineContext is the text of the current line up to the caret plus the count
// of characters typed (positive) or deleted (negative) since the items were
// produced.
type LineContext struct {
	LeadingLineContent  string
	CharacterCountDelta int
}

// Model owns a fixed batch of items, sorted once at construction, and the
// derived filtered projection under the current line context.
type Model struct {
	items  []*proposal.Item
	column int
	policy proposal.Policy

	// uniform is true when every item carries the same sort text; under the
	// inline policy the projection is then re-ranked by score.
	uniform bool

	ctx LineContext

	projection  []*proposal.Item
	accepted    []*proposal.Item
	acceptedCtx LineContext
	incomplete  proposal.ProviderSet
}

// New builds a model over items produced at the 1-based trigger column.
// Items are sorted in place with the comparator for the policy; under
// PolicyHidden snippet items are dropped first. The projection is not
// computed until Items or Incomplete is read.
func New(items []*proposal.Item, column int, ctx LineContext, policy proposal.Policy) *Model {
	if policy == proposal.PolicyHidden {
		kept := items[:0]
		for _, x := range items {
			if x.Suggestion.Kind != proposal.Snippet {
				kept = append(kept, x)
			}
		}
		items = kept
	}

	cmp := proposal.Compare(policy)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})

	uniform := true
	for i := 1; i < len(items); i++ {
		if items[i].Suggestion.SortText != items[0].Suggestion.SortText {
			uniform = false
			break
		}
	}

	return &Model{
		items:   items,
		column:  column,
		policy:  policy,
		uniform: uniform,
		ctx:     ctx,
	}
}

// LineContext returns the current line context.
func (m *Model) LineContext() LineContext {
	return m.ctx
}

// SetLineContext replaces the line context. A field-equal assignment is a
// no-op and keeps the cached projection; anything else invalidates it.
func (m *Model) SetLineContext(ctx LineContext) {
	if ctx == m.ctx {
		return
	}
	m.ctx = ctx
	m.projection = nil
	m.incomplete = nil
}

// Items returns the filtered projection in the order established at
// construction (score-ranked under the inline policy when all items share a
// sort text). The returned slice keeps its identity until the line context
// changes or items are adopted away.
func (m *Model) Items() []*proposal.Item {
	m.ensure()
	return m.projection
}

// Incomplete returns the provider identities of currently accepted items
// that came from incomplete batches.
func (m *Model) Incomplete() proposal.ProviderSet {
	m.ensure()
	return m.incomplete
}

// Adopt returns, and removes from the model, every item whose provider is
// not in the given set: the items from batches that are already complete.
// The UI calls this before re-querying incomplete providers, merging the
// returned items with the freshly fetched ones into a new model.
func (m *Model) Adopt(incomplete proposal.ProviderSet) []*proposal.Item {
	var kept, adopted []*proposal.Item
	for _, x := range m.items {
		if incomplete.Has(x.Provider) {
			kept = append(kept, x)
		} else {
			adopted = append(adopted, x)
		}
	}
	m.items = kept
	m.projection = nil
	m.accepted = nil
	m.incomplete = nil
	return adopted
}

// ensure recomputes the projection when the cache is invalid.
//
// When the context only grew (the new leading content starts with the one
// the last acceptance set was computed for, and the delta did not shrink),
// filtering runs over the previous acceptance set: every new acceptance is
// also a previous one. Otherwise the full batch is refiltered.
func (m *Model) ensure() {
	if m.projection != nil {
		return
	}

	candidates := m.items
	if m.accepted != nil &&
		strings.HasPrefix(m.ctx.LeadingLineContent, m.acceptedCtx.LeadingLineContent) &&
		m.ctx.CharacterCountDelta >= m.acceptedCtx.CharacterCountDelta {
		candidates = m.accepted
	}

	accepted := make([]*proposal.Item, 0, len(candidates))
	incomplete := make(proposal.ProviderSet)
	for _, x := range candidates {
		if m.filter(x) {
			accepted = append(accepted, x)
			if x.Incomplete {
				incomplete.Add(x.Provider)
			}
		}
	}

	m.accepted = accepted
	m.acceptedCtx = m.ctx
	m.incomplete = incomplete

	projection := make([]*proposal.Item, len(accepted))
	copy(projection, accepted)

	// The comparator owns the ordering; score only breaks ties when the
	// inline policy is active and no sort text can tell items apart.
	if m.policy == proposal.PolicyInline && m.uniform {
		sort.SliceStable(projection, func(i, j int) bool {
			return projection[i].Score > projection[j].Score
		})
	}
	m.projection = projection
}

// filter decides whether x is displayable under the current context and, on
// acceptance, writes its score and match positions.
func (m *Model) filter(x *proposal.Item) bool {
	// Scale the overwrite region to the current context. Items produced at a
	// column other than the trigger column keep a consistent window.
	overwrite := x.Suggestion.OverwriteBefore + m.ctx.CharacterCountDelta - (x.Position.Column - m.column)
	if overwrite < 0 {
		// The user deleted past the region this item may replace.
		return false
	}

	line := m.ctx.LeadingLineContent
	if len(line) < overwrite {
		return false
	}
	word := line[len(line)-overwrite:]

	if x.Suggestion.AlwaysShow {
		x.Score = 0
		x.Matches = nil
		return true
	}

	if len(word) == 0 {
		x.Score = 0
		x.Matches = nil
		return true
	}

	if utils.IsBlank(word) {
		// Keeps e.g. "    </div" completions visible while the caret sits
		// after indentation; items without that indentation are dropped.
		if !strings.HasPrefix(x.Suggestion.Label, word) {
			return false
		}
		x.Score = 0
		x.Matches = nil
		return true
	}

	score, matches, ok := scorer.ScoreTransposed(word, x.Target())
	if !ok {
		return false
	}
	x.Score = score
	x.Matches = matches
	return true
}
