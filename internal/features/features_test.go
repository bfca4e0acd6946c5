package features

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "The cat sat. The dog ran, quickly!"

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testWordList(t *testing.T) *FunctionWordList {
	t.Helper()
	list, err := NewFunctionWordList([]FunctionWord{
		{Word: "the", Weight: 1.5},
		{Word: "of", Weight: 2},
		{Word: "and", Weight: 0.5},
	})
	if err != nil {
		t.Fatalf("NewFunctionWordList failed: %v", err)
	}
	return list
}

func TestScalarMetrics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) (float64, error)
		want float64
	}{
		{"average word length", AverageWordLength, 25.0 / 7.0},
		{"average sentence length", AverageSentenceLength, 3.5},
		{"average sentence complexity", AverageSentenceComplexity, 1.5},
		{"type to token ratio", TypeToTokenRatio, 6.0 / 7.0},
		{"hapax legomana ratio", HapaxLegomanaRatio, 5.0 / 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(sample)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeToTokenRatio(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"a a a", 1.0 / 3.0},
		{"one two three", 1.0},
		{"A a. B", 2.0 / 3.0},
	}
	for _, tt := range tests {
		got, err := TypeToTokenRatio(tt.input)
		if err != nil {
			t.Fatalf("TypeToTokenRatio(%q) error: %v", tt.input, err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("TypeToTokenRatio(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHapaxLegomanaRatio(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"a a b", 0.5},
		{"a a a", 0},
		{"x y z", 1},
	}
	for _, tt := range tests {
		got, err := HapaxLegomanaRatio(tt.input)
		if err != nil {
			t.Fatalf("HapaxLegomanaRatio(%q) error: %v", tt.input, err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("HapaxLegomanaRatio(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAverageWordLengthBounds(t *testing.T) {
	input := "I am extraordinarily verbose, perhaps."
	got, err := AverageWordLength(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 1 || got > float64(len("extraordinarily")) {
		t.Errorf("AverageWordLength = %v, outside [1, 15]", got)
	}
}

func TestAverageWordLengthCountsRunes(t *testing.T) {
	// "café" composed and decomposed both count as four characters.
	for _, input := range []string{"caf\u00e9", "cafe\u0301"} {
		got, err := AverageWordLength(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 4 {
			t.Errorf("AverageWordLength(%q) = %v, want 4", input, got)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fn    func(string) (float64, error)
	}{
		{"word length with no words", "  ... ", AverageWordLength},
		{"sentence length with no sentences", "no terminator here", AverageSentenceLength},
		{"complexity with no sentences", "a, b; c: d", AverageSentenceComplexity},
		{"type token with no words", "", TypeToTokenRatio},
		{"hapax with no words", "!!", HapaxLegomanaRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn(tt.input)
			if !errors.Is(err, ErrEmptyInput) {
				t.Errorf("expected ErrEmptyInput, got %v", err)
			}
		})
	}
}

func TestFunctionWordRatios(t *testing.T) {
	list := testWordList(t)

	got, err := FunctionWordRatios(sample, list)
	if err != nil {
		t.Fatalf("FunctionWordRatios failed: %v", err)
	}
	want := []float64{2.0 / 7.0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("ratio[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := FunctionWordRatios("", list); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for empty text, got %v", err)
	}
}

func TestKeepTrailingFragment(t *testing.T) {
	input := "Short one. And then a tail without end"

	dropped := NewDocument(input)
	if n := len(dropped.Sentences()); n != 1 {
		t.Errorf("default options: got %d sentences, want 1", n)
	}

	kept := NewDocumentWithOptions(input, Options{KeepTrailingFragment: true})
	if n := len(kept.Sentences()); n != 2 {
		t.Errorf("KeepTrailingFragment: got %d sentences, want 2", n)
	}

	got, err := kept.AverageSentenceLength()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4) {
		t.Errorf("AverageSentenceLength = %v, want 4", got)
	}
}

func TestExtractorProfile(t *testing.T) {
	list := testWordList(t)
	e := NewExtractor(list, Options{})

	p, err := e.Profile(sample)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}

	v := p.Vector()
	if len(v) != e.Dimensions() {
		t.Fatalf("vector length = %d, want %d", len(v), e.Dimensions())
	}
	if !almostEqual(v[0], 25.0/7.0) {
		t.Errorf("v[0] = %v, want %v", v[0], 25.0/7.0)
	}
	if !almostEqual(v[ScalarCount], 2.0/7.0) {
		t.Errorf("first ratio = %v, want %v", v[ScalarCount], 2.0/7.0)
	}

	if _, err := e.Profile("words but no sentence"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseFunctionWords(t *testing.T) {
	input := "the 1.5\nof 2\n\nand 0.5 extra\n"
	list, err := ParseFunctionWords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseFunctionWords failed: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("Len = %d, want 3", list.Len())
	}
	if i, ok := list.Index("of"); !ok || i != 1 {
		t.Errorf("Index(of) = %d, %v; want 1, true", i, ok)
	}
	if _, ok := list.Index("missing"); ok {
		t.Error("Index(missing) should not be found")
	}
	weights := list.Weights()
	if weights[0] != 1.5 || weights[1] != 2 || weights[2] != 0.5 {
		t.Errorf("Weights = %v", weights)
	}
}

func TestParseFunctionWordsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing weight", "the\n"},
		{"bad weight", "the heavy\n"},
		{"duplicate", "the 1\nof 1\nthe 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFunctionWords(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedWordList) {
				t.Errorf("expected ErrMalformedWordList, got %v", err)
			}
		})
	}
}

func TestLoadFunctionWords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FunctionWordList.txt")
	if err := os.WriteFile(path, []byte("a 1\nthe 3\n"), 0600); err != nil {
		t.Fatalf("failed to write list: %v", err)
	}

	list, err := LoadFunctionWords(path)
	if err != nil {
		t.Fatalf("LoadFunctionWords failed: %v", err)
	}
	if list.Word(1).Word != "the" {
		t.Errorf("Word(1) = %q, want the", list.Word(1).Word)
	}

	_, err = LoadFunctionWords(filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	a := testWordList(t)
	b, _ := NewFunctionWordList([]FunctionWord{
		{Word: "the", Weight: 9},
		{Word: "of", Weight: 9},
		{Word: "and", Weight: 9},
	})
	c, _ := NewFunctionWordList([]FunctionWord{
		{Word: "of", Weight: 2},
		{Word: "the", Weight: 1.5},
		{Word: "and", Weight: 0.5},
	})

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("weights should not change the fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("word order should change the fingerprint")
	}
}
