// Package similarity scores how close two signatures are and picks the
// reference signature closest to a mystery text.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nvandessel/stylo/internal/signature"
)

var (
	// ErrShapeMismatch is returned when signatures or weights of different
	// lengths are compared.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNoReferences is returned when there is nothing to compare against.
	ErrNoReferences = errors.New("no reference signatures found")

	// ErrNonFinite is returned when a distance is NaN or infinite, which
	// cannot be ranked.
	ErrNonFinite = errors.New("non-finite distance")
)

// Compute returns the weighted distance between a and b: the sum over every
// feature of |a[i] - b[i]| * weights[i]. Author labels are ignored. Lower is
// more similar; a signature compared with itself scores 0.
func Compute(a, b signature.Signature, weights Weights) (float64, error) {
	if a.Len() != b.Len() || a.Len() != len(weights) {
		return 0, fmt.Errorf("%w: signatures have %d and %d features, weights have %d",
			ErrShapeMismatch, a.Len(), b.Len(), len(weights))
	}

	total := 0.0
	for i := range a.Features {
		total += math.Abs(a.Features[i]-b.Features[i]) * weights[i]
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: comparing %q with %q", ErrNonFinite, a.Author, b.Author)
	}
	return total, nil
}

// Reference is a labeled signature to compare against, with an optional
// description of where it came from.
type Reference struct {
	Signature signature.Signature
	Source    string
}

// Match is the score of one reference against a mystery signature.
type Match struct {
	Author string  `json:"author"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

// Rank scores every reference against mystery and returns the matches
// from most to least similar. Equal scores keep their input order.
func Rank(refs []Reference, mystery signature.Signature, weights Weights) ([]Match, error) {
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}

	matches := make([]Match, 0, len(refs))
	for _, ref := range refs {
		score, err := Compute(ref.Signature, mystery, weights)
		if err != nil {
			if ref.Source != "" {
				return nil, fmt.Errorf("%s: %w", ref.Source, err)
			}
			return nil, fmt.Errorf("%q: %w", ref.Signature.Author, err)
		}
		matches = append(matches, Match{
			Author: ref.Signature.Author,
			Score:  score,
			Source: ref.Source,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches, nil
}

// MostSimilar returns the reference closest to mystery. On a tie the
// earliest reference wins.
func MostSimilar(refs []Reference, mystery signature.Signature, weights Weights) (Match, error) {
	matches, err := Rank(refs, mystery, weights)
	if err != nil {
		return Match{}, err
	}
	return matches[0], nil
}

// DirReferences reads the signature files in dir as references, in file
// name order, skipping hidden files.
func DirReferences(dir string) ([]Reference, error) {
	entries, err := signature.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	refs := make([]Reference, len(entries))
	for i, e := range entries {
		refs[i] = Reference{Signature: e.Signature, Source: e.Path}
	}
	return refs, nil
}

// MostSimilarAuthor returns the author of the signature in dir closest to
// mystery.
func MostSimilarAuthor(dir string, mystery signature.Signature, weights Weights) (string, error) {
	refs, err := DirReferences(dir)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoReferences)
	}
	best, err := MostSimilar(refs, mystery, weights)
	if err != nil {
		return "", err
	}
	return best.Author, nil
}
