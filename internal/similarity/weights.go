package similarity

import "github.com/nvandessel/stylo/internal/features"

// ScalarWeights are the fixed weights of the scalar metrics, in order:
// average word length, average sentence length, average sentence
// complexity, type/token ratio and hapax legomana ratio.
var ScalarWeights = [features.ScalarCount]float64{11, 0.4, 4, 33, 50}

// Weights holds one weight per signature feature.
type Weights []float64

// NewWeights returns the scalar weights followed by each function word's
// weight in list order.
func NewWeights(list *features.FunctionWordList) Weights {
	w := make(Weights, 0, features.ScalarCount+list.Len())
	w = append(w, ScalarWeights[:]...)
	return append(w, list.Weights()...)
}
