// Package fuzzy normalizes emotion words and measures overlap between word lists.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s-]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeWord folds an emotion word to a comparable form: accents stripped,
// punctuation removed, lowercased, inner whitespace collapsed.
func NormalizeWord(word string) string {
	word = norm.NFKD.String(word)

	var result strings.Builder
	for _, r := range word {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	word = result.String()

	word = punctRegex.ReplaceAllString(word, " ")
	word = whitespaceRegex.ReplaceAllString(word, " ")

	word = strings.ToLower(word)
	word = strings.TrimSpace(word)

	return word
}

// Counter is a word multiset.
type Counter map[string]int

// NewCounter counts normalized words, dropping ones that normalize to "".
func NewCounter(words []string) Counter {
	c := make(Counter, len(words))
	for _, w := range words {
		if n := NormalizeWord(w); n != "" {
			c[n]++
		}
	}
	return c
}
