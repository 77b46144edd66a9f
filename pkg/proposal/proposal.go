// Package proposal defines the completion proposal types shared by providers
// and the ranking model: raw suggestions, provider batches, the item wrapper
// and the snippet-policy comparators.
package proposal

// Kind classifies a suggestion. The set is closed; providers must not invent
// values outside of it.
type Kind int

const (
	Text Kind = iota
	Keyword
	Variable
	Function
	Method
	Constructor
	Field
	Property
	Class
	Interface
	Module
	Unit
	Value
	Enum
	Color
	File
	Folder
	Reference
	Snippet
)

var kindNames = map[Kind]string{
	Text:        "text",
	Keyword:     "keyword",
	Variable:    "variable",
	Function:    "function",
	Method:      "method",
	Constructor: "constructor",
	Field:       "field",
	Property:    "property",
	Class:       "class",
	Interface:   "interface",
	Module:      "module",
	Unit:        "unit",
	Value:       "value",
	Enum:        "enum",
	Color:       "color",
	File:        "file",
	Folder:      "folder",
	Reference:   "reference",
	Snippet:     "snippet",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "text"
}

// TextEdit is an additional edit applied alongside the main insert.
type TextEdit struct {
	Line    int
	Column  int
	Length  int
	NewText string
}

// Suggestion is a raw completion proposal as produced by a provider.
// OverwriteBefore is the number of characters left of the trigger column the
// suggestion replaces on acceptance.
type Suggestion struct {
	Label               string
	InsertText          string
	Kind                Kind
	OverwriteBefore     int
	FilterText          string
	SortText            string
	AdditionalTextEdits []TextEdit
	AlwaysShow          bool
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Batch is the set of suggestions returned by a single provider invocation.
// Incomplete means the provider may have more suggestions when re-queried
// with a longer prefix.
type Batch struct {
	Suggestions []Suggestion
	Incomplete  bool
}

// Provider produces suggestion batches for a prefix. Two items belong to the
// same batch when their Provider values compare equal; interface identity is
// the grouping key for incomplete-provider bookkeeping.
type Provider interface {
	Complete(prefix string, limit int) *Batch
}

// Item ties a suggestion to its originating batch and trigger position.
// Score and Matches are written only by the completion model when the item
// passes the current filter; everything else is immutable.
type Item struct {
	Suggestion Suggestion
	Position   Position
	Provider   Provider
	Incomplete bool

	Score   int
	Matches []int
}

// Target returns the string the item is matched against: FilterText when
// present, else the label.
func (x *Item) Target() string {
	if x.Suggestion.FilterText != "" {
		return x.Suggestion.FilterText
	}
	return x.Suggestion.Label
}

// Wrap turns a batch into items at the given trigger position.
func Wrap(b *Batch, p Provider, pos Position) []*Item {
	items := make([]*Item, 0, len(b.Suggestions))
	for _, s := range b.Suggestions {
		items = append(items, &Item{
			Suggestion: s,
			Position:   pos,
			Provider:   p,
			Incomplete: b.Incomplete,
		})
	}
	return items
}

// ProviderSet is a set of provider identities.
type ProviderSet map[Provider]struct{}

// Add inserts p into the set.
func (s ProviderSet) Add(p Provider) {
	s[p] = struct{}{}
}

// Has reports whether p is in the set.
func (s ProviderSet) Has(p Provider) bool {
	_, ok := s[p]
	return ok
}
