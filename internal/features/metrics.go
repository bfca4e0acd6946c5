// Package features computes the linguistic metrics that make up a
// signature: five scalar measures of word and sentence shape plus the
// relative frequency of each function word.
package features

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nvandessel/stylo/internal/text"
)

// ErrEmptyInput is returned when a metric would divide by zero because the
// text has no words or no sentences.
var ErrEmptyInput = errors.New("empty input")

// AverageWordLength returns the mean character length of the words.
func (d *Document) AverageWordLength() (float64, error) {
	if len(d.words) == 0 {
		return 0, fmt.Errorf("average word length: no words: %w", ErrEmptyInput)
	}
	total := 0
	for _, w := range d.words {
		total += utf8.RuneCountInString(w)
	}
	return float64(total) / float64(len(d.words)), nil
}

// AverageSentenceLength returns the mean number of words per sentence.
func (d *Document) AverageSentenceLength() (float64, error) {
	if len(d.sentences) == 0 {
		return 0, fmt.Errorf("average sentence length: no sentences: %w", ErrEmptyInput)
	}
	total := 0
	for _, s := range d.sentences {
		total += len(text.Words(s))
	}
	return float64(total) / float64(len(d.sentences)), nil
}

// AverageSentenceComplexity returns the mean number of phrases per
// sentence: clause separators (",", ";", ":") per sentence, plus one for
// the main clause.
func (d *Document) AverageSentenceComplexity() (float64, error) {
	if len(d.sentences) == 0 {
		return 0, fmt.Errorf("average sentence complexity: no sentences: %w", ErrEmptyInput)
	}
	n := float64(len(d.sentences))
	return (float64(d.clauseMarks) + n) / n, nil
}

// TypeToTokenRatio returns distinct words divided by total words.
func (d *Document) TypeToTokenRatio() (float64, error) {
	if len(d.words) == 0 {
		return 0, fmt.Errorf("type to token ratio: no words: %w", ErrEmptyInput)
	}
	return float64(len(d.counts())) / float64(len(d.words)), nil
}

// HapaxLegomanaRatio returns the share of words that occur exactly once,
// relative to the total word count.
func (d *Document) HapaxLegomanaRatio() (float64, error) {
	if len(d.words) == 0 {
		return 0, fmt.Errorf("hapax legomana ratio: no words: %w", ErrEmptyInput)
	}
	once := 0
	for _, c := range d.counts() {
		if c == 1 {
			once++
		}
	}
	return float64(once) / float64(len(d.words)), nil
}

// FunctionWordRatios returns, for each word of list in order, its number of
// occurrences divided by the total word count.
func (d *Document) FunctionWordRatios(list *FunctionWordList) ([]float64, error) {
	if len(d.words) == 0 {
		return nil, fmt.Errorf("function word ratios: no words: %w", ErrEmptyInput)
	}
	ratios := make([]float64, list.Len())
	for _, w := range d.words {
		if i, ok := list.Index(w); ok {
			ratios[i]++
		}
	}
	total := float64(len(d.words))
	for i := range ratios {
		ratios[i] /= total
	}
	return ratios, nil
}

func (d *Document) counts() map[string]int {
	counts := make(map[string]int, len(d.words))
	for _, w := range d.words {
		counts[w]++
	}
	return counts
}

// AverageWordLength returns the mean word length of s.
func AverageWordLength(s string) (float64, error) {
	return NewDocument(s).AverageWordLength()
}

// AverageSentenceLength returns the mean words per sentence of s.
func AverageSentenceLength(s string) (float64, error) {
	return NewDocument(s).AverageSentenceLength()
}

// AverageSentenceComplexity returns the mean phrases per sentence of s.
func AverageSentenceComplexity(s string) (float64, error) {
	return NewDocument(s).AverageSentenceComplexity()
}

// TypeToTokenRatio returns the type/token ratio of s.
func TypeToTokenRatio(s string) (float64, error) {
	return NewDocument(s).TypeToTokenRatio()
}

// HapaxLegomanaRatio returns the hapax legomana ratio of s.
func HapaxLegomanaRatio(s string) (float64, error) {
	return NewDocument(s).HapaxLegomanaRatio()
}

// FunctionWordRatios returns the function word ratios of s.
func FunctionWordRatios(s string, list *FunctionWordList) ([]float64, error) {
	return NewDocument(s).FunctionWordRatios(list)
}
