// Package text splits raw text into the words and sentences that the
// feature extractor measures.
package text

import "strings"

// punctuation is stripped from both ends of a token. Inner punctuation
// ("don't", "well-known") is left untouched.
const punctuation = "!\"',;:.-?)([]<>*#\n\t\r"

// Clean lowercases s and strips punctuation from both ends.
func Clean(s string) string {
	return strings.Trim(strings.ToLower(s), punctuation)
}

// Words returns the cleaned words of s in order. Tokens are split on
// whitespace; tokens that are empty after cleaning are discarded.
func Words(s string) []string {
	fields := strings.Fields(s)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := Clean(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// IsTerminator reports whether r ends a sentence.
func IsTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Sentences returns the sentences of s in order with their terminators
// removed. s is scanned as one character stream, so sentences may span
// line breaks. A trailing fragment with no terminator is dropped.
func Sentences(s string) []string {
	return splitSentences(s, false)
}

// SentencesKeepTail is like Sentences but also returns a non-empty
// trailing fragment that has no terminator.
func SentencesKeepTail(s string) []string {
	return splitSentences(s, true)
}

func splitSentences(s string, keepTail bool) []string {
	sentences := make([]string, 0)
	var current strings.Builder
	for _, r := range s {
		if IsTerminator(r) {
			if current.Len() > 0 {
				sentences = append(sentences, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(r)
	}
	if keepTail && current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}
