package features

// ScalarCount is the number of scalar metrics at the head of a feature
// vector, ahead of the function word ratios.
const ScalarCount = 5

// ScalarNames labels the scalar metrics in vector order.
var ScalarNames = [ScalarCount]string{
	"Average word length",
	"Average sentence length",
	"Average sentence complexity",
	"Type to token ratio",
	"Hapax legomana ratio",
}

// Profile holds every metric computed from one text.
type Profile struct {
	AverageWordLength         float64   `json:"average_word_length"`
	AverageSentenceLength     float64   `json:"average_sentence_length"`
	AverageSentenceComplexity float64   `json:"average_sentence_complexity"`
	TypeToTokenRatio          float64   `json:"type_to_token_ratio"`
	HapaxLegomanaRatio        float64   `json:"hapax_legomana_ratio"`
	FunctionWordRatios        []float64 `json:"function_word_ratios"`
}

// Scalars returns the five scalar metrics in vector order.
func (p Profile) Scalars() [ScalarCount]float64 {
	return [ScalarCount]float64{
		p.AverageWordLength,
		p.AverageSentenceLength,
		p.AverageSentenceComplexity,
		p.TypeToTokenRatio,
		p.HapaxLegomanaRatio,
	}
}

// Vector returns the scalars followed by the function word ratios.
func (p Profile) Vector() []float64 {
	scalars := p.Scalars()
	v := make([]float64, 0, ScalarCount+len(p.FunctionWordRatios))
	v = append(v, scalars[:]...)
	return append(v, p.FunctionWordRatios...)
}

// Extractor computes profiles against a fixed function word list.
type Extractor struct {
	words *FunctionWordList
	opts  Options
}

// NewExtractor creates an Extractor. The list is shared, not copied.
func NewExtractor(words *FunctionWordList, opts Options) *Extractor {
	return &Extractor{words: words, opts: opts}
}

// FunctionWords returns the list the extractor measures against.
func (e *Extractor) FunctionWords() *FunctionWordList {
	return e.words
}

// Dimensions returns the length of the feature vectors it produces.
func (e *Extractor) Dimensions() int {
	return ScalarCount + e.words.Len()
}

// Document tokenizes s using the extractor's options.
func (e *Extractor) Document(s string) *Document {
	return NewDocumentWithOptions(s, e.opts)
}

// Profile computes every metric of s. It fails on the first metric that
// cannot be computed; no partial profile is returned.
func (e *Extractor) Profile(s string) (Profile, error) {
	return e.ProfileDocument(e.Document(s))
}

// ProfileDocument computes every metric of an already tokenized document.
func (e *Extractor) ProfileDocument(d *Document) (Profile, error) {
	var p Profile
	var err error

	if p.AverageWordLength, err = d.AverageWordLength(); err != nil {
		return Profile{}, err
	}
	if p.AverageSentenceLength, err = d.AverageSentenceLength(); err != nil {
		return Profile{}, err
	}
	if p.AverageSentenceComplexity, err = d.AverageSentenceComplexity(); err != nil {
		return Profile{}, err
	}
	if p.TypeToTokenRatio, err = d.TypeToTokenRatio(); err != nil {
		return Profile{}, err
	}
	if p.HapaxLegomanaRatio, err = d.HapaxLegomanaRatio(); err != nil {
		return Profile{}, err
	}
	if p.FunctionWordRatios, err = d.FunctionWordRatios(e.words); err != nil {
		return Profile{}, err
	}
	return p, nil
}
