// Package signature defines the linguistic signature of a text and its flat
// text file format: the author label on the first line followed by one
// feature value per line.
package signature

import (
	"context"
	"fmt"
	"os"

	"github.com/nvandessel/stylo/internal/features"
)

// Signature is the numeric fingerprint of a text's writing style.
// Features holds the five scalar metrics followed by one ratio per function
// word, in function word list order. Author is empty for a text whose
// author is unknown.
type Signature struct {
	Author   string    `json:"author"`
	Features []float64 `json:"features"`
}

// Len returns the length of the signature as laid out on disk: the label
// plus every feature.
func (s Signature) Len() int {
	return 1 + len(s.Features)
}

// WithAuthor returns a copy of s labeled with author.
func (s Signature) WithAuthor(author string) Signature {
	out := Signature{Author: author, Features: make([]float64, len(s.Features))}
	copy(out.Features, s.Features)
	return out
}

// Scalars returns the scalar metrics, or nil if the signature is too short.
func (s Signature) Scalars() []float64 {
	if len(s.Features) < features.ScalarCount {
		return nil
	}
	return s.Features[:features.ScalarCount]
}

// FunctionWordRatios returns the function word ratios.
func (s Signature) FunctionWordRatios() []float64 {
	if len(s.Features) < features.ScalarCount {
		return nil
	}
	return s.Features[features.ScalarCount:]
}

// TextSource fetches the text behind a URL.
type TextSource interface {
	Text(ctx context.Context, url string) (string, error)
}

// FromText computes the unlabeled signature of text.
func FromText(text string, e *features.Extractor) (Signature, error) {
	p, err := e.Profile(text)
	if err != nil {
		return Signature{}, fmt.Errorf("computing signature: %w", err)
	}
	return Signature{Features: p.Vector()}, nil
}

// FromFile computes the unlabeled signature of the text file at path.
func FromFile(path string, e *features.Extractor) (Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Signature{}, fmt.Errorf("reading text: %w", err)
	}
	sig, err := FromText(string(data), e)
	if err != nil {
		return Signature{}, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// FromURL computes the unlabeled signature of the text found at url.
func FromURL(ctx context.Context, url string, src TextSource, e *features.Extractor) (Signature, error) {
	body, err := src.Text(ctx, url)
	if err != nil {
		return Signature{}, fmt.Errorf("fetching text: %w", err)
	}
	sig, err := FromText(body, e)
	if err != nil {
		return Signature{}, fmt.Errorf("%s: %w", url, err)
	}
	return sig, nil
}
