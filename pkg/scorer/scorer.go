/*
Package scorer decides whether a candidate word matches a typed pattern and
how well. Matching is fuzzy: every pattern character must appear in the word
in order, case-insensitively. A match carries an integer score and the word
positions that produced it, so callers can highlight matched characters.

Scores reward tight, word-boundary-aligned matches: consecutive characters,
characters right after a separator, camel-hump transitions and exact-case
letter hits. Unmatched word characters cost, so shorter words win over longer
words with the same alignment quality. When several alignments exist the
highest-scoring one is returned.
*/
package scorer

import (
	"unicode"

	"github.com/LujunWeng/suggestd/internal/utils"
)

// Constants for scoring
const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 15
	caseMatchBonus                 = 1
	unmatchedCharPenalty           = -2
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
	transposePenalty               = -3
)

const noScore = -1 << 24

// Score matches pattern against word and returns the score of the best
// alignment together with the matched word positions (rune indexes).
// The empty pattern matches any word with a neutral score and no positions.
// ok is false when pattern is not a case-insensitive subsequence of word.
func Score(pattern, word string) (score int, matches []int, ok bool) {
	return align([]rune(pattern), []rune(word))
}

// ScoreTransposed is Score with typo tolerance: besides the pattern itself,
// every variant with one adjacent character pair swapped is tried at a fixed
// penalty, and the best result wins. "rlut" therefore still finds "result"
// (via "rult") and "replyToUser" (via "rltu").
func ScoreTransposed(pattern, word string) (score int, matches []int, ok bool) {
	pat := []rune(pattern)
	wrd := []rune(word)

	best, bestMatches, found := align(pat, wrd)

	for i := 0; i+1 < len(pat); i++ {
		if pat[i] == pat[i+1] {
			continue
		}
		swapped := make([]rune, len(pat))
		copy(swapped, pat)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]

		s, m, ok := align(swapped, wrd)
		if !ok {
			continue
		}
		s += transposePenalty
		if !found || s > best {
			best, bestMatches, found = s, m, true
		}
	}
	return best, bestMatches, found
}

// align computes the best-scoring alignment of pattern inside word.
// match[i][j] holds the best score with pattern[0..i] placed and pattern[i]
// sitting exactly at word[j]; prev[i][j] remembers where pattern[i-1] went
// so the matched positions can be walked back afterwards.
func align(pattern, word []rune) (int, []int, bool) {
	n, m := len(pattern), len(word)
	if n == 0 {
		return 0, nil, true
	}
	if n > m {
		return 0, nil, false
	}

	match := make([][]int, n)
	prev := make([][]int, n)
	for i := range match {
		match[i] = make([]int, m)
		prev[i] = make([]int, m)
		for j := range match[i] {
			match[i][j] = noScore
			prev[i][j] = -1
		}
	}

	for i := 0; i < n; i++ {
		pr := pattern[i]
		for j := i; j < m; j++ {
			if !utils.EqualFold(pr, word[j]) {
				continue
			}

			bonus := positionBonus(word, j)
			if pr == word[j] && unicode.IsLetter(pr) {
				bonus += caseMatchBonus
			}

			if i == 0 {
				lead := j * unmatchedLeadingCharPenalty
				if lead < maxUnmatchedLeadingCharPenalty {
					lead = maxUnmatchedLeadingCharPenalty
				}
				match[0][j] = bonus + lead
				continue
			}

			best, bestPrev := noScore, -1
			for k := i - 1; k < j; k++ {
				if match[i-1][k] == noScore {
					continue
				}
				s := match[i-1][k]
				if k == j-1 {
					s += adjacentMatchBonus
				}
				if s > best {
					best, bestPrev = s, k
				}
			}
			if best == noScore {
				continue
			}
			match[i][j] = best + bonus
			prev[i][j] = bestPrev
		}
	}

	bestEnd, bestScore := -1, noScore
	for j := n - 1; j < m; j++ {
		if match[n-1][j] > bestScore {
			bestScore, bestEnd = match[n-1][j], j
		}
	}
	if bestEnd < 0 {
		return 0, nil, false
	}

	matches := make([]int, n)
	for i, j := n-1, bestEnd; i >= 0; i-- {
		matches[i] = j
		j = prev[i][j]
	}

	return bestScore + unmatchedCharPenalty*(m-n), matches, true
}

// positionBonus rewards matches at word starts: the very first character,
// the character after a separator, and lower-to-upper camel transitions.
func positionBonus(word []rune, j int) int {
	if j == 0 {
		return firstCharMatchBonus
	}
	if utils.IsSeparator(word[j-1]) {
		return separatorMatchBonus
	}
	if unicode.IsLower(word[j-1]) && unicode.IsUpper(word[j]) {
		return camelCaseMatchBonus
	}
	return 0
}
