// Package match implements the fuzzy answer comparison used to score
// free-text replies: case-insensitive, accent-insensitive, tolerating a
// single character edit.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Matches reports whether actual is an acceptable answer for expected.
// Both sides are lower-cased and stripped of diacritics before a
// full-string comparison that allows at most one insertion, deletion,
// or substitution. Empty or whitespace-only replies never match.
func Matches(expected, actual string) bool {
	actual = strings.TrimSpace(actual)
	if actual == "" {
		return false
	}
	want := Normalize(expected)
	if strings.TrimSpace(want) == "" {
		return false
	}
	return withinOneEdit(want, Normalize(actual))
}

// Normalize lower-cases s and transliterates accented Latin characters
// to their base form ("Asunción" -> "asuncion").
func Normalize(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// withinOneEdit reports whether a and b are at Levenshtein distance <= 1.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	switch len(ra) - len(rb) {
	case 0:
		return oneSubstitution(ra, rb)
	case 1:
		return oneDeletion(ra, rb)
	case -1:
		return oneDeletion(rb, ra)
	default:
		return false
	}
}

// oneSubstitution assumes equal lengths and allows a single differing rune.
func oneSubstitution(a, b []rune) bool {
	diffs := 0
	for i := range a {
		if a[i] != b[i] {
			diffs++
			if diffs > 1 {
				return false
			}
		}
	}
	return diffs <= 1
}

// oneDeletion assumes len(long) == len(short)+1 and checks whether
// dropping one rune from long yields short.
func oneDeletion(long, short []rune) bool {
	i, j := 0, 0
	skipped := false
	for i < len(long) && j < len(short) {
		if long[i] == short[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		i++
	}
	return true
}
