package learning

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veritas/news-classifier/pkg/text"
)

var (
	ErrEmptyVocabulary  = errors.New("empty vocabulary: no terms remain after pruning")
	ErrNotFitted        = errors.New("model is not fitted")
	ErrInsufficientData = errors.New("insufficient training data")
)

// parallelThreshold is the batch size from which Transform fans out.
const parallelThreshold = 64

// Vector is a sparse feature vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// VectorizerConfig holds TF-IDF fitting options
type VectorizerConfig struct {
	// Terms present in more than MaxDF of the documents are dropped (0 < MaxDF <= 1)
	MaxDF float64 `json:"max_df" yaml:"max_df"`
	// Terms present in fewer than MinDF documents are dropped
	MinDF int `json:"min_df" yaml:"min_df"`
	// Apply the English Snowball stemmer to terms
	Stem bool `json:"stem" yaml:"stem"`
	// Goroutines used by batch transforms (0 = GOMAXPROCS)
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultVectorizerConfig returns the default TF-IDF options
func DefaultVectorizerConfig() *VectorizerConfig {
	return &VectorizerConfig{
		MaxDF:   0.7,
		MinDF:   1,
		Stem:    false,
		Workers: 0,
	}
}

// Vectorizer maps documents to L2-normalised TF-IDF vectors over a frozen
// vocabulary. It is immutable once fitted and safe for concurrent Transform.
type Vectorizer struct {
	config    *VectorizerConfig
	tokenizer *text.Tokenizer

	vocabulary map[string]int
	terms      []string
	docFreq    []int
	idf        []float64
	numDocs    int

	fitted   bool
	fittedAt time.Time
}

// NewVectorizer creates an unfitted vectorizer
func NewVectorizer(config *VectorizerConfig) *Vectorizer {
	if config == nil {
		config = DefaultVectorizerConfig()
	}

	return &Vectorizer{
		config:    config,
		tokenizer: text.NewTokenizer(config.Stem),
	}
}

// Fit builds the vocabulary and IDF weights from corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if v.fitted {
		return fmt.Errorf("vectorizer already fitted")
	}

	df := make(map[string]int)
	for i, doc := range corpus {
		terms, err := v.tokenizer.Terms(doc)
		if err != nil {
			return fmt.Errorf("failed to tokenize document %d: %w", i, err)
		}

		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := len(corpus)
	maxDocs := v.config.MaxDF * float64(n)
	minDocs := v.config.MinDF
	if minDocs < 1 {
		minDocs = 1
	}

	terms := make([]string, 0, len(df))
	for term, count := range df {
		if float64(count) > maxDocs || count < minDocs {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.terms = terms
	v.docFreq = make([]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.docFreq[i] = df[term]
		v.idf[i] = smoothIDF(n, df[term])
	}
	v.numDocs = n
	v.fitted = true
	v.fittedAt = time.Now()

	return nil
}

// FitTransform fits on corpus and returns its vectors
func (v *Vectorizer) FitTransform(corpus []string) ([]Vector, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	return v.Transform(corpus)
}

// smoothIDF is ln((1+N)/(1+df)) + 1.
func smoothIDF(n, df int) float64 {
	return math.Log(float64(1+n)/float64(1+df)) + 1
}

// Transform vectorises docs, preserving order. Large batches are split
// across workers; each document is computed independently so the output does
// not depend on scheduling.
func (v *Vectorizer) Transform(docs []string) ([]Vector, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}

	out := make([]Vector, len(docs))
	if len(docs) < parallelThreshold {
		for i, doc := range docs {
			vec, err := v.transform(doc)
			if err != nil {
				return nil, err
			}
			out[i] = vec
		}
		return out, nil
	}

	workers := v.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			vec, err := v.transform(doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			out[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// TransformOne vectorises a single document
func (v *Vectorizer) TransformOne(doc string) (Vector, error) {
	if !v.fitted {
		return Vector{}, ErrNotFitted
	}
	return v.transform(doc)
}

func (v *Vectorizer) transform(doc string) (Vector, error) {
	terms, err := v.tokenizer.Terms(doc)
	if err != nil {
		return Vector{}, err
	}

	counts := make(map[int]int)
	for _, term := range terms {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var sumSquares float64
	for _, idx := range vec.Indices {
		w := float64(counts[idx]) * v.idf[idx]
		vec.Values = append(vec.Values, w)
		sumSquares += w * w
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}

	return vec, nil
}

// IsFitted reports whether Fit has completed
func (v *Vectorizer) IsFitted() bool {
	return v.fitted
}

// VocabularySize returns the number of features
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Vocabulary returns the terms in feature-index order
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term returns the term for a feature index
func (v *Vectorizer) Term(index int) string {
	if index < 0 || index >= len(v.terms) {
		return ""
	}
	return v.terms[index]
}

// IDF returns the IDF weight of term and whether it is in the vocabulary
func (v *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.vocabulary[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

// NumDocuments returns the corpus size seen by Fit
func (v *Vectorizer) NumDocuments() int {
	return v.numDocs
}

// VectorizerState is the serialisable form of a fitted vectorizer
type VectorizerState struct {
	Config   VectorizerConfig `json:"config"`
	Terms    []string         `json:"terms"`
	DocFreq  []int            `json:"doc_freq"`
	IDF      []float64        `json:"idf"`
	NumDocs  int              `json:"num_docs"`
	FittedAt time.Time        `json:"fitted_at"`
}

// State exports the fitted state
func (v *Vectorizer) State() (*VectorizerState, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}

	return &VectorizerState{
		Config:   *v.config,
		Terms:    v.Vocabulary(),
		DocFreq:  append([]int(nil), v.docFreq...),
		IDF:      append([]float64(nil), v.idf...),
		NumDocs:  v.numDocs,
		FittedAt: v.fittedAt,
	}, nil
}

// VectorizerFromState rebuilds a fitted vectorizer, validating the state
func VectorizerFromState(state *VectorizerState) (*Vectorizer, error) {
	if state == nil {
		return nil, fmt.Errorf("nil vectorizer state")
	}
	n := len(state.Terms)
	if n == 0 {
		return nil, ErrEmptyVocabulary
	}
	if len(state.DocFreq) != n || len(state.IDF) != n {
		return nil, fmt.Errorf("vectorizer state has %d terms, %d document frequencies and %d idf weights",
			n, len(state.DocFreq), len(state.IDF))
	}

	config := state.Config
	v := NewVectorizer(&config)
	v.vocabulary = make(map[string]int, n)
	for i, term := range state.Terms {
		if i > 0 && state.Terms[i-1] >= term {
			return nil, fmt.Errorf("vectorizer terms not strictly sorted at index %d", i)
		}
		v.vocabulary[term] = i
	}
	v.terms = append([]string(nil), state.Terms...)
	v.docFreq = append([]int(nil), state.DocFreq...)
	v.idf = append([]float64(nil), state.IDF...)
	v.numDocs = state.NumDocs
	v.fittedAt = state.FittedAt
	v.fitted = true

	return v, nil
}
