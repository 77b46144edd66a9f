package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDictionary() *Dictionary {
	d := NewDictionary()
	d.AddWord("console", 100)
	d.AddWord("const", 90)
	d.AddWord("continue", 50)
	d.AddWord("cobalt", 30)
	d.AddWord("coal", 10)
	d.AddWord("bar", 40)
	return d
}

func labels(d *Dictionary, prefix string, limit int) []string {
	batch := d.Complete(prefix, limit)
	out := make([]string, len(batch.Suggestions))
	for i, s := range batch.Suggestions {
		out[i] = s.Label
	}
	return out
}

func TestCompleteRanking(t *testing.T) {
	d := testDictionary()

	// frequency descending, "coal" under the short-prefix floor
	assert.Equal(t, []string{"console", "const", "continue", "cobalt"}, labels(d, "co", 0))

	// longer prefixes use the lower floor, but "coal" still misses it
	assert.Equal(t, []string{"cobalt"}, labels(d, "cob", 0))
}

func TestCompleteThresholds(t *testing.T) {
	d := testDictionary()
	d.SetThresholds(1, 1)
	assert.Contains(t, labels(d, "co", 0), "coal")
}

func TestCompleteExcludesExactMatch(t *testing.T) {
	d := testDictionary()
	assert.NotContains(t, labels(d, "const", 0), "const")
	assert.Contains(t, labels(d, "cons", 0), "const")
}

func TestCompleteIncomplete(t *testing.T) {
	d := testDictionary()

	batch := d.Complete("co", 2)
	assert.True(t, batch.Incomplete)
	if assert.Len(t, batch.Suggestions, 2) {
		assert.Equal(t, "console", batch.Suggestions[0].Label)
		assert.Equal(t, "const", batch.Suggestions[1].Label)
	}

	batch = d.Complete("co", 10)
	assert.False(t, batch.Incomplete)
	assert.Len(t, batch.Suggestions, 4)
}

func TestCompleteSuggestionShape(t *testing.T) {
	d := testDictionary()
	batch := d.Complete("co", 0)
	require.NotEmpty(t, batch.Suggestions)

	for i, s := range batch.Suggestions {
		assert.Equal(t, s.Label, s.InsertText)
		assert.Equal(t, len("co"), s.OverwriteBefore)
		if i > 0 {
			// sort text encodes the frequency rank
			assert.Greater(t, s.SortText, batch.Suggestions[i-1].SortText)
		}
	}
}

func TestStats(t *testing.T) {
	d := testDictionary()
	stats := d.Stats()
	assert.Equal(t, 6, stats["totalWords"])
	assert.Equal(t, 100, stats["maxFrequency"])
}

func TestBinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict_00001.bin")

	src := testDictionary()
	require.NoError(t, src.SaveBinary(path))

	dst := NewDictionary()
	require.NoError(t, dst.LoadBinary(path))

	assert.Equal(t, src.Stats()["totalWords"], dst.Stats()["totalWords"])
	assert.Equal(t, labels(src, "co", 0), labels(dst, "co", 0))
	assert.Equal(t, labels(src, "ba", 0), labels(dst, "ba", 0))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	a := NewDictionary()
	a.AddWord("alpha", 50)
	require.NoError(t, a.SaveBinary(filepath.Join(dir, "dict_00001.bin")))

	b := NewDictionary()
	b.AddWord("beta", 60)
	require.NoError(t, b.SaveBinary(filepath.Join(dir, "dict_00002.bin")))

	// non-matching files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	d := NewDictionary()
	require.NoError(t, d.LoadDir(dir))
	assert.Equal(t, 2, d.Stats()["totalWords"])
	assert.Equal(t, []string{"alpha"}, labels(d, "al", 0))
}

func TestLoadDirWordCap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testDictionary().SaveBinary(filepath.Join(dir, "dict_00001.bin")))

	d := NewDictionary()
	d.SetMaxWords(3)
	require.NoError(t, d.LoadDir(dir))
	assert.Equal(t, 3, d.Stats()["totalWords"])
	assert.True(t, d.Full())
}

func TestLoadBinaryMissingFile(t *testing.T) {
	d := NewDictionary()
	assert.Error(t, d.LoadBinary(filepath.Join(t.TempDir(), "nope.bin")))
}
