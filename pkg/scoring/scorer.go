// Package scoring turns an article into a FAKE/REAL verdict using a loaded
// vectorizer and classifier.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/veritas/news-classifier/pkg/artifact"
	"github.com/veritas/news-classifier/pkg/learning"
	"github.com/veritas/news-classifier/pkg/metrics"
)

// InvalidInput is returned by Score when the article body is blank
const InvalidInput = "Invalid input"

// Model pairs a fitted vectorizer with the classifier trained on its output.
// Both are read-only after loading and may be shared between goroutines.
type Model struct {
	Vectorizer *learning.Vectorizer
	Classifier *learning.NaiveBayes
}

// LoadModel reads both artifacts
func LoadModel(vectorizerPath, classifierPath string) (*Model, error) {
	v, err := artifact.LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vectorizer: %w", err)
	}
	nb, err := artifact.LoadClassifier(classifierPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}
	if v.VocabularySize() != nb.NumFeatures() {
		return nil, fmt.Errorf("%w: vectorizer has %d terms but classifier expects %d features",
			artifact.ErrCorruptArtifact, v.VocabularySize(), nb.NumFeatures())
	}
	return &Model{Vectorizer: v, Classifier: nb}, nil
}

// Prediction is a classified article
type Prediction struct {
	Label      string
	Class      int
	Confidence float64 // probability of Label
}

// Scorer classifies articles
type Scorer struct {
	model   *Model
	metrics *metrics.Metrics
}

// NewScorer creates a scorer; m may be nil
func NewScorer(model *Model, m *metrics.Metrics) *Scorer {
	return &Scorer{model: model, metrics: m}
}

// Document joins the article fields the way the training corpus does
func Document(title, author, text string) string {
	return title + " " + author + " " + text
}

// Classify returns the prediction for an article. A blank body yields a
// zero Prediction whose Label is InvalidInput.
func (s *Scorer) Classify(title, author, text string) (Prediction, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		s.metrics.ObservePrediction("invalid", time.Since(start))
		return Prediction{Label: InvalidInput, Class: -1}, nil
	}

	x, err := s.model.Vectorizer.TransformOne(Document(title, author, text))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to vectorize article: %w", err)
	}
	class, proba, err := s.model.Classifier.PredictWithProba(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to classify article: %w", err)
	}

	p := Prediction{
		Label:      learning.LabelForClass(class),
		Class:      class,
		Confidence: proba[class],
	}
	s.metrics.ObservePrediction(p.Label, time.Since(start))
	return p, nil
}

// Score returns "FAKE", "REAL" or "Invalid input"
func (s *Scorer) Score(title, author, text string) (string, error) {
	p, err := s.Classify(title, author, text)
	if err != nil {
		return "", err
	}
	return p.Label, nil
}

// Valid reports whether Classify produced a verdict
func (p Prediction) Valid() bool {
	return p.Label != InvalidInput && p.Label != ""
}
