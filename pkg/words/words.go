// Package words provides the builtin dictionary provider: prefix word
// lookups over a Patricia trie with frequency ranking. Batches are flagged
// incomplete when truncated at the requested limit, so a session can adopt
// the complete part and re-query as the prefix grows.
package words

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/LujunWeng/suggestd/pkg/proposal"
)

// Default frequency floors; short or repetitive prefixes get the higher one.
const (
	defaultMinFrequency      = 20
	defaultMinFrequencyShort = 24
	shortPrefixLen           = 2
)

// Dictionary is a frequency-ranked word store backing completion batches.
type Dictionary struct {
	trie         *patricia.Trie
	totalWords   int
	maxWords     int
	maxFrequency int
	minFreq      int
	minFreqShort int
}

// NewDictionary creates an empty dictionary with the default thresholds.
func NewDictionary() *Dictionary {
	return &Dictionary{
		trie:         patricia.NewTrie(),
		minFreq:      defaultMinFrequency,
		minFreqShort: defaultMinFrequencyShort,
	}
}

// SetThresholds overrides the frequency floors.
func (d *Dictionary) SetThresholds(minFreq, minFreqShort int) {
	d.minFreq = minFreq
	d.minFreqShort = minFreqShort
}

// SetMaxWords caps how many words the loaders accept. Zero means no cap.
func (d *Dictionary) SetMaxWords(n int) {
	d.maxWords = n
}

// Full reports whether the word cap has been reached.
func (d *Dictionary) Full() bool {
	return d.maxWords > 0 && d.totalWords >= d.maxWords
}

// AddWord adds a word with its frequency to the trie.
func (d *Dictionary) AddWord(word string, frequency int) {
	d.trie.Insert(patricia.Prefix(word), frequency)
	d.totalWords++
	if frequency > d.maxFrequency {
		d.maxFrequency = frequency
	}
}

type entry struct {
	word string
	freq int
}

// Complete implements proposal.Provider. Suggestions are ranked by
// frequency (encoded in SortText so the comparator keeps the order) and the
// batch is incomplete when more candidates existed than the limit allowed.
func (d *Dictionary) Complete(prefix string, limit int) *proposal.Batch {
	threshold := d.minFreq
	if len(prefix) <= shortPrefixLen {
		threshold = d.minFreqShort
	}

	var entries []entry
	err := d.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == prefix {
			return nil
		}

		freq := 1
		switch v := item.(type) {
		case int:
			freq = v
		case int32:
			freq = int(v)
		case uint32:
			freq = int(v)
		case float64:
			freq = int(v)
		default:
			log.Errorf("Unknown item type: %T for word %s", item, p)
		}

		if freq < threshold {
			return nil
		}
		entries = append(entries, entry{word: word, freq: freq})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return &proposal.Batch{}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].freq > entries[j].freq
	})

	incomplete := false
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
		incomplete = true
	}

	suggestions := make([]proposal.Suggestion, len(entries))
	for i, e := range entries {
		suggestions[i] = proposal.Suggestion{
			Label:           e.word,
			InsertText:      e.word,
			Kind:            proposal.Text,
			OverwriteBefore: len(prefix),
			SortText:        fmt.Sprintf("%05d", i),
		}
	}

	return &proposal.Batch{Suggestions: suggestions, Incomplete: incomplete}
}

// Stats returns statistics about the loaded dictionary.
func (d *Dictionary) Stats() map[string]int {
	return map[string]int{
		"totalWords":   d.totalWords,
		"maxFrequency": d.maxFrequency,
	}
}
