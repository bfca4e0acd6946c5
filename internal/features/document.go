package features

import (
	"strings"

	"github.com/nvandessel/stylo/internal/text"
	"golang.org/x/text/unicode/norm"
)

// clauseSeparators are the marks counted by sentence complexity.
const clauseSeparators = ",;:"

// Options control how a text is tokenized before measuring.
type Options struct {
	// KeepTrailingFragment counts a final sentence that has no terminating
	// punctuation. Off by default, which drops it.
	KeepTrailingFragment bool `json:"keep_trailing_fragment" yaml:"keep_trailing_fragment" toml:"keep_trailing_fragment"`
}

// Document holds the tokens of one text so that every metric is computed
// over the same words and sentences without re-tokenizing.
type Document struct {
	words       []string
	sentences   []string
	clauseMarks int
}

// NewDocument tokenizes s with default options.
func NewDocument(s string) *Document {
	return NewDocumentWithOptions(s, Options{})
}

// NewDocumentWithOptions tokenizes s. The text is normalized to NFC first
// so that decomposed characters count once toward word length.
func NewDocumentWithOptions(s string, opts Options) *Document {
	s = norm.NFC.String(s)

	sentences := text.Sentences(s)
	if opts.KeepTrailingFragment {
		sentences = text.SentencesKeepTail(s)
	}

	marks := 0
	for _, r := range s {
		if strings.ContainsRune(clauseSeparators, r) {
			marks++
		}
	}

	return &Document{
		words:       text.Words(s),
		sentences:   sentences,
		clauseMarks: marks,
	}
}

// Words returns the cleaned words of the document.
func (d *Document) Words() []string {
	return d.words
}

// Sentences returns the sentences of the document.
func (d *Document) Sentences() []string {
	return d.sentences
}
