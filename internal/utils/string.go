package utils

import (
	"strings"
	"unicode/utf8"
)

// IsSeparator checks if a rune is a word-separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/' || r == '\\'
}

// EqualFold performs case-insensitive rune equality check
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}

	// Try simple ASCII case folding first (faster)
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}

	// Use Unicode's more comprehensive case folding
	return strings.EqualFold(string(a), string(b))
}

// IsBlank reports whether s is non-empty and consists only of spaces and tabs
func IsBlank(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// TrailingWord returns the run of word characters at the end of line.
// Used to derive the query prefix from leading line content.
func TrailingWord(line string) string {
	i := len(line)
	for i > 0 {
		c := line[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			i--
			continue
		}
		break
	}
	return line[i:]
}
