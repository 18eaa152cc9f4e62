package learning

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"
)

// Classifier predicts a class for a feature vector
type Classifier interface {
	Predict(x Vector) (int, error)
	PredictProba(x Vector) ([numClasses]float64, error)
}

// BayesConfig holds Naive Bayes options
type BayesConfig struct {
	// Additive (Laplace) smoothing
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

// DefaultBayesConfig returns the default Naive Bayes options
func DefaultBayesConfig() *BayesConfig {
	return &BayesConfig{Alpha: 1.0}
}

// NaiveBayes is a two-class multinomial Naive Bayes model
type NaiveBayes struct {
	config *BayesConfig

	classCount     [numClasses]int
	classLogPrior  [numClasses]float64
	featureCount   [numClasses][]float64
	featureLogProb [numClasses][]float64
	numFeatures    int

	fitted   bool
	fittedAt time.Time
}

// NewNaiveBayes creates an unfitted classifier
func NewNaiveBayes(config *BayesConfig) *NaiveBayes {
	if config == nil {
		config = DefaultBayesConfig()
	}
	return &NaiveBayes{config: config}
}

// Fit estimates class priors and per-class feature log probabilities.
// Every class needs at least one example.
func (nb *NaiveBayes) Fit(x []Vector, y []int, numFeatures int) error {
	if nb.fitted {
		return fmt.Errorf("classifier already fitted")
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vectors but %d labels", ErrInsufficientData, len(x), len(y))
	}
	if numFeatures <= 0 {
		return ErrEmptyVocabulary
	}

	var counts [numClasses]int
	var featureCount [numClasses][]float64
	for c := range featureCount {
		featureCount[c] = make([]float64, numFeatures)
	}

	for i, vec := range x {
		c := y[i]
		if c < 0 || c >= numClasses {
			return fmt.Errorf("label %d at row %d out of range", c, i)
		}
		counts[c]++
		for j, idx := range vec.Indices {
			if idx < 0 || idx >= numFeatures {
				return fmt.Errorf("feature index %d at row %d out of range [0,%d)", idx, i, numFeatures)
			}
			featureCount[c][idx] += vec.Values[j]
		}
	}

	for c, n := range counts {
		if n == 0 {
			return fmt.Errorf("%w: class %s has no examples", ErrInsufficientData, LabelForClass(c))
		}
	}

	total := float64(len(x))
	alpha := nb.config.Alpha
	for c := 0; c < numClasses; c++ {
		nb.classLogPrior[c] = math.Log(float64(counts[c]) / total)

		var classTotal float64
		for _, fc := range featureCount[c] {
			classTotal += fc
		}
		denom := math.Log(classTotal + alpha*float64(numFeatures))

		logProb := make([]float64, numFeatures)
		for f, fc := range featureCount[c] {
			logProb[f] = math.Log(fc+alpha) - denom
		}
		nb.featureLogProb[c] = logProb
	}

	nb.classCount = counts
	nb.featureCount = featureCount
	nb.numFeatures = numFeatures
	nb.fitted = true
	nb.fittedAt = time.Now()

	return nil
}

// jointLogLikelihood returns log P(c) + sum x_f log P(f|c) for each class
func (nb *NaiveBayes) jointLogLikelihood(x Vector) ([numClasses]float64, error) {
	var jll [numClasses]float64
	if !nb.fitted {
		return jll, ErrNotFitted
	}

	for c := 0; c < numClasses; c++ {
		sum := nb.classLogPrior[c]
		for j, idx := range x.Indices {
			if idx < 0 || idx >= nb.numFeatures {
				return jll, fmt.Errorf("feature index %d out of range [0,%d)", idx, nb.numFeatures)
			}
			sum += x.Values[j] * nb.featureLogProb[c][idx]
		}
		jll[c] = sum
	}

	return jll, nil
}

// Predict returns the most likely class; ties go to the lower class index
func (nb *NaiveBayes) Predict(x Vector) (int, error) {
	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return 0, err
	}
	return argmax(jll), nil
}

// PredictProba returns normalised class probabilities
func (nb *NaiveBayes) PredictProba(x Vector) ([numClasses]float64, error) {
	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return [numClasses]float64{}, err
	}
	return softmax(jll), nil
}

// PredictWithProba returns Predict and PredictProba from one likelihood pass
func (nb *NaiveBayes) PredictWithProba(x Vector) (int, [numClasses]float64, error) {
	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return 0, [numClasses]float64{}, err
	}
	return argmax(jll), softmax(jll), nil
}

func argmax(jll [numClasses]float64) int {
	best := 0
	for c := 1; c < numClasses; c++ {
		if jll[c] > jll[best] {
			best = c
		}
	}
	return best
}

// softmax normalises log likelihoods with log-sum-exp to avoid underflow
func softmax(jll [numClasses]float64) [numClasses]float64 {
	var proba [numClasses]float64

	maxLL := jll[0]
	for _, l := range jll[1:] {
		if l > maxLL {
			maxLL = l
		}
	}
	var sum float64
	for c, l := range jll {
		proba[c] = math.Exp(l - maxLL)
		sum += proba[c]
	}
	for c := range proba {
		proba[c] /= sum
	}
	return proba
}

// IsFitted reports whether Fit has completed
func (nb *NaiveBayes) IsFitted() bool {
	return nb.fitted
}

// NumFeatures returns the feature dimension the model was fitted on
func (nb *NaiveBayes) NumFeatures() int {
	return nb.numFeatures
}

// ClassCount returns the number of training examples of a class
func (nb *NaiveBayes) ClassCount(class int) int {
	if class < 0 || class >= numClasses {
		return 0
	}
	return nb.classCount[class]
}

// FeatureStat describes how strongly a feature points at a class
type FeatureStat struct {
	Index    int
	LogRatio float64 // log P(f|class) - log P(f|other)
}

// TopFeatures returns the n features with the highest log ratio for class
func (nb *NaiveBayes) TopFeatures(class, n int) []FeatureStat {
	if !nb.fitted || class < 0 || class >= numClasses {
		return nil
	}
	other := 1 - class

	stats := make([]FeatureStat, nb.numFeatures)
	for f := 0; f < nb.numFeatures; f++ {
		stats[f] = FeatureStat{
			Index:    f,
			LogRatio: nb.featureLogProb[class][f] - nb.featureLogProb[other][f],
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].LogRatio > stats[j].LogRatio
	})

	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// BayesState is the serialisable form of a fitted classifier
type BayesState struct {
	Config         BayesConfig           `json:"config"`
	ClassCount     [numClasses]int       `json:"class_count"`
	ClassLogPrior  [numClasses]float64   `json:"class_log_prior"`
	FeatureLogProb [numClasses][]float64 `json:"feature_log_prob"`
	NumFeatures    int                   `json:"num_features"`
	FittedAt       time.Time             `json:"fitted_at"`
}

// State exports the fitted parameters
func (nb *NaiveBayes) State() (*BayesState, error) {
	if !nb.fitted {
		return nil, ErrNotFitted
	}

	state := &BayesState{
		Config:        *nb.config,
		ClassCount:    nb.classCount,
		ClassLogPrior: nb.classLogPrior,
		NumFeatures:   nb.numFeatures,
		FittedAt:      nb.fittedAt,
	}
	for c := range nb.featureLogProb {
		state.FeatureLogProb[c] = append([]float64(nil), nb.featureLogProb[c]...)
	}
	return state, nil
}

// NaiveBayesFromState rebuilds a fitted classifier, validating the state
func NaiveBayesFromState(state *BayesState) (*NaiveBayes, error) {
	if state == nil {
		return nil, fmt.Errorf("nil classifier state")
	}
	if state.NumFeatures <= 0 {
		return nil, fmt.Errorf("classifier state has no features")
	}
	for c := 0; c < numClasses; c++ {
		if len(state.FeatureLogProb[c]) != state.NumFeatures {
			return nil, fmt.Errorf("classifier state class %d has %d feature weights, expected %d",
				c, len(state.FeatureLogProb[c]), state.NumFeatures)
		}
		if state.ClassCount[c] == 0 {
			return nil, fmt.Errorf("%w: class %s has no examples", ErrInsufficientData, LabelForClass(c))
		}
	}

	config := state.Config
	nb := NewNaiveBayes(&config)
	nb.classCount = state.ClassCount
	nb.classLogPrior = state.ClassLogPrior
	for c := range state.FeatureLogProb {
		nb.featureLogProb[c] = append([]float64(nil), state.FeatureLogProb[c]...)
	}
	nb.numFeatures = state.NumFeatures
	nb.fittedAt = state.FittedAt
	nb.fitted = true

	return nb, nil
}

// PrintStats prints model statistics
func PrintStats(w io.Writer, v *Vectorizer, nb *NaiveBayes, top int) {
	fmt.Fprintf(w, "🧠 TF-IDF + Naive Bayes Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	if !v.IsFitted() || !nb.IsFitted() {
		fmt.Fprintf(w, "Model not trained\n\n")
		return
	}

	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Documents: %d\n", v.NumDocuments())
	fmt.Fprintf(w, "  Fake articles: %d\n", nb.ClassCount(ClassFake))
	fmt.Fprintf(w, "  Real articles: %d\n", nb.ClassCount(ClassReal))
	fmt.Fprintf(w, "  Vocabulary size: %d\n", v.VocabularySize())

	if !nb.fittedAt.IsZero() {
		fmt.Fprintf(w, "  Last trained: %s\n", nb.fittedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\nConfiguration:\n")
	fmt.Fprintf(w, "  Max document frequency: %.2f\n", v.config.MaxDF)
	fmt.Fprintf(w, "  Min document frequency: %d\n", v.config.MinDF)
	fmt.Fprintf(w, "  Stemming: %v\n", v.tokenizer.Stemming())
	fmt.Fprintf(w, "  Smoothing (alpha): %.2f\n", nb.config.Alpha)

	fmt.Fprintf(w, "\n📈 Top Fake Terms:\n")
	for i, f := range nb.TopFeatures(ClassFake, top) {
		fmt.Fprintf(w, "  %2d. %-20s (%.3f log ratio)\n", i+1, v.Term(f.Index), f.LogRatio)
	}

	fmt.Fprintf(w, "\n📉 Top Real Terms:\n")
	for i, f := range nb.TopFeatures(ClassReal, top) {
		fmt.Fprintf(w, "  %2d. %-20s (%.3f log ratio)\n", i+1, v.Term(f.Index), f.LogRatio)
	}

	fmt.Fprintf(w, "\n")
}

var _ Classifier = (*NaiveBayes)(nil)
