// Package sanitize normalizes user-supplied strings that end up in signature
// files and the library. An author label is stored as the first line of a
// signature file, so it must never contain a line break.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAuthorLength is the maximum length of an author label in runes.
const MaxAuthorLength = 120

var (
	// reMarkupTag matches XML/HTML tags, including processing instructions.
	reMarkupTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	reSpaceRun = regexp.MustCompile(`\s+`)
)

// Author cleans an author label:
//  1. Strip markup tags, which show up when labels are scraped from pages
//  2. Replace control characters (line breaks included) with spaces
//  3. Collapse whitespace runs and trim
//  4. Truncate to MaxAuthorLength runes
func Author(input string) string {
	if input == "" {
		return ""
	}

	s := reMarkupTag.ReplaceAllString(input, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))

	if utf8.RuneCountInString(s) > MaxAuthorLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxAuthorLength]))
	}
	return s
}

// AuthorFromFileName derives a label from a text file name when none is
// given: "pride_and_prejudice.txt" becomes "pride and prejudice".
func AuthorFromFileName(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	base = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, base)
	return Author(base)
}
