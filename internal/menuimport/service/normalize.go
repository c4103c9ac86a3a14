package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normalizeHeader lowercases, folds diacritics ("Preț" → "pret"),
// turns punctuation into spaces and collapses whitespace.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripMarks(s)
	s = nonWord.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
