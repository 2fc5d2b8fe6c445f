package similarity

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize produces the vector-ready projection of a text: lowercase,
// letters/digits/whitespace only, single spaces. Pure and total; empty in,
// empty out.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWord.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanForSentences collapses whitespace and newlines but keeps punctuation,
// which the match finder needs to segment sentences.
func CleanForSentences(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// WordCount counts whitespace-separated words; used by the report builder.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
