package features

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedWordList is returned when a function word list line cannot be
// parsed or a word appears more than once.
var ErrMalformedWordList = errors.New("malformed function word list")

// FunctionWord is one entry of a FunctionWordList.
type FunctionWord struct {
	Word   string  `json:"word" yaml:"word"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// FunctionWordList is the ordered vocabulary whose per-word ratios make up
// the tail of every signature. The order fixes the signature layout, so a
// list must stay the same between computing signatures and comparing them.
// A FunctionWordList is immutable once built and safe to share.
type FunctionWordList struct {
	words []FunctionWord
	index map[string]int
}

// NewFunctionWordList builds a list from words, keeping their order.
// Empty or duplicate words are rejected.
func NewFunctionWordList(words []FunctionWord) (*FunctionWordList, error) {
	l := &FunctionWordList{
		words: make([]FunctionWord, len(words)),
		index: make(map[string]int, len(words)),
	}
	copy(l.words, words)
	for i, fw := range l.words {
		if fw.Word == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty word", ErrMalformedWordList, i+1)
		}
		if prev, dup := l.index[fw.Word]; dup {
			return nil, fmt.Errorf("%w: %q listed at entries %d and %d", ErrMalformedWordList, fw.Word, prev+1, i+1)
		}
		l.index[fw.Word] = i
	}
	return l, nil
}

// ParseFunctionWords reads a list in "<word> <weight>" form, one entry per
// line. Blank lines are skipped; extra fields after the weight are ignored.
func ParseFunctionWords(r io.Reader) (*FunctionWordList, error) {
	var words []FunctionWord
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected \"<word> <weight>\"", ErrMalformedWordList, lineNum)
		}
		weight, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid weight %q", ErrMalformedWordList, lineNum, fields[1])
		}
		words = append(words, FunctionWord{Word: fields[0], Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading function word list: %w", err)
	}
	return NewFunctionWordList(words)
}

// LoadFunctionWords reads the function word list at path.
func LoadFunctionWords(path string) (*FunctionWordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening function word list: %w", err)
	}
	defer f.Close()

	list, err := ParseFunctionWords(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return list, nil
}

// Len returns the number of function words.
func (l *FunctionWordList) Len() int {
	return len(l.words)
}

// Words returns a copy of the entries in list order.
func (l *FunctionWordList) Words() []FunctionWord {
	out := make([]FunctionWord, len(l.words))
	copy(out, l.words)
	return out
}

// Word returns the entry at position i.
func (l *FunctionWordList) Word(i int) FunctionWord {
	return l.words[i]
}

// Index returns the position of word in the list.
func (l *FunctionWordList) Index(word string) (int, bool) {
	i, ok := l.index[word]
	return i, ok
}

// Weights returns the similarity weight of each word in list order.
func (l *FunctionWordList) Weights() []float64 {
	out := make([]float64, len(l.words))
	for i, fw := range l.words {
		out[i] = fw.Weight
	}
	return out
}

// Fingerprint identifies the vocabulary layout: a SHA-256 over the words
// in order. Weights do not affect it since they do not change signatures.
func (l *FunctionWordList) Fingerprint() string {
	h := sha256.New()
	for _, fw := range l.words {
		h.Write([]byte(fw.Word))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
