// internal/dedup/similarity.go
package dedup

import (
	"math"
	"strings"
)

// Similarity scores how alike two strings are on a 0..100 scale using
// Levenshtein edit distance over runes. Both inputs are trimmed and
// lower-cased first; equal strings short-circuit to 100 and a blank on either
// side scores 0.
func Similarity(a, b string) int {
	a = trimLower(a)
	b = trimLower(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	dist := levenshtein(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return int(math.Round((1 - float64(dist)/float64(maxLen)) * 100))
}

// levenshtein computes edit distance with the two-row variant; inputs are
// never long enough here to justify anything fancier.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// SameEmail reports whether two non-blank emails match after trim and
// lower-casing.
func SameEmail(a, b string) bool {
	a = trimLower(a)
	b = trimLower(b)
	return a != "" && a == b
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SamePhone compares phone numbers on their digits alone, so formatting
// differences never mask a match. Numbers with five or fewer digits are too
// ambiguous to trust and never match.
func SamePhone(a, b string) bool {
	da := digitsOnly(a)
	db := digitsOnly(b)
	return len(da) > 5 && da == db
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
