// Package normalize provides text normalization shared by the feature
// indexer, the query resolver, and keyword extraction.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldAccents decomposes accented characters and strips the combining marks,
// so "Café" normalizes to "Cafe". Non-ASCII runes that do not decompose to
// ASCII are dropped.
func FoldAccents(s string) string {
	s = norm.NFKD.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

// Tokenize lowercases, folds accents and splits text into alphanumeric
// tokens. Everything else is a separator.
func Tokenize(text string) []string {
	text = strings.ToLower(FoldAccents(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContentTokens returns tokens with stopwords removed, for TF-IDF indexing.
func ContentTokens(text string) []string {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, t := range tokens {
		if !IsStopword(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fold lowercases and folds accents without splitting, for case-insensitive
// substring matching.
func Fold(s string) string {
	return strings.ToLower(FoldAccents(s))
}
