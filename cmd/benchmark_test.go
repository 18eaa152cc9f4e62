package cmd

import (
	"math"
	"testing"

	"github.com/veritas/news-classifier/pkg/dataset"
	"github.com/veritas/news-classifier/pkg/learning"
	"github.com/veritas/news-classifier/pkg/scoring"
)

func newTestScorer(t *testing.T) *scoring.Scorer {
	t.Helper()

	docs := []string{
		"Doctors stunned miracle cure melts fat overnight",
		"Secret miracle cure hidden by big pharma",
		"Shocking miracle cure banned in seven countries",
		"Ministry issues official statement on budget",
		"Police release official statement after inquiry",
		"Court publishes official statement about ruling",
	}
	labels := []int{
		learning.ClassFake, learning.ClassFake, learning.ClassFake,
		learning.ClassReal, learning.ClassReal, learning.ClassReal,
	}

	v := learning.NewVectorizer(nil)
	x, err := v.FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	nb := learning.NewNaiveBayes(nil)
	if err := nb.Fit(x, labels, v.VocabularySize()); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	return scoring.NewScorer(&scoring.Model{Vectorizer: v, Classifier: nb}, nil)
}

func TestBenchmarkRun(t *testing.T) {
	examples := []dataset.Example{
		{Title: "New miracle cure", Text: "A miracle cure found", Label: learning.ClassFake},
		{Title: "Pharma secret", Text: "Big pharma hides miracle cure", Label: learning.ClassFake},
		{Title: "Bank update", Text: "Official statement on rates", Label: learning.ClassReal},
		{Title: "Court news", Text: "Court official statement", Label: learning.ClassReal},
		// mislabelled: reads as FAKE
		{Title: "Cure", Text: "Miracle cure overnight", Label: learning.ClassReal},
		{Title: "Blank body", Author: "Nobody", Text: "   ", Label: learning.ClassReal},
	}

	b := NewBenchmark(newTestScorer(t))
	result := b.Run(examples, 2, 3)

	if result.TotalArticles != 12 {
		t.Errorf("TotalArticles = %d, expected 12", result.TotalArticles)
	}
	if result.Latency.Count != 12 {
		t.Errorf("timed %d articles, expected 12", result.Latency.Count)
	}
	if result.Invalid != 2 {
		t.Errorf("Invalid = %d, expected 2", result.Invalid)
	}
	if result.Errors != 0 || result.ErrorRate != 0 {
		t.Errorf("Errors = %d (%.2f%%), expected none", result.Errors, result.ErrorRate)
	}

	expected := dataset.Confusion{TruePositive: 4, FalsePositive: 2, TrueNegative: 4, FalseNegative: 0}
	if result.Confusion != expected {
		t.Errorf("Confusion = %+v, expected %+v", result.Confusion, expected)
	}
	if math.Abs(result.Accuracy-0.8) > 1e-12 {
		t.Errorf("Accuracy = %v, expected 0.8", result.Accuracy)
	}
	if result.ArticlesPerSecond <= 0 {
		t.Errorf("ArticlesPerSecond = %v, expected > 0", result.ArticlesPerSecond)
	}
}

func TestBenchmarkRunAllInvalid(t *testing.T) {
	examples := []dataset.Example{
		{Title: "Empty", Text: "", Label: learning.ClassFake},
	}

	result := NewBenchmark(newTestScorer(t)).Run(examples, 3, 2)
	if result.Invalid != 3 {
		t.Errorf("Invalid = %d, expected 3", result.Invalid)
	}
	if result.Accuracy != 0 {
		t.Errorf("Accuracy = %v, expected 0 with no valid predictions", result.Accuracy)
	}
	if result.Confusion != (dataset.Confusion{}) {
		t.Errorf("Confusion = %+v, expected empty", result.Confusion)
	}
}
