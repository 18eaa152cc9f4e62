// Package dataset loads, splits and synthesises labelled news corpora.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/veritas/news-classifier/pkg/learning"
	"github.com/veritas/news-classifier/pkg/scoring"
)

// Columns read from the header row
var columns = []string{"title", "author", "text", "label"}

// Example is one labelled article
type Example struct {
	Title  string
	Author string
	Text   string
	Label  int
}

// Document returns the text the vectorizer sees
func (e Example) Document() string {
	return scoring.Document(e.Title, e.Author, e.Text)
}

// LoadCSV reads a corpus file
func LoadCSV(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %v", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses a header-driven CSV with title, author, text and label
// columns in any order. Extra columns are ignored; a missing cell reads as
// an empty string. Labels are FAKE or REAL, case-insensitive.
func ReadCSV(r io.Reader) ([]Example, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %v", err)
	}

	index := make(map[string]int, len(columns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("dataset header missing %q column", col)
		}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var examples []Example
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %v", err)
		}

		line, _ := reader.FieldPos(0)
		label, err := learning.ClassForLabel(field(row, "label"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}

		examples = append(examples, Example{
			Title:  field(row, "title"),
			Author: field(row, "author"),
			Text:   field(row, "text"),
			Label:  label,
		})
	}

	return examples, nil
}

// WriteCSV writes examples with a title,author,text,label header
func WriteCSV(w io.Writer, examples []Example) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, e := range examples {
		row := []string{e.Title, e.Author, e.Text, learning.LabelForClass(e.Label)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Split shuffles examples with seed and holds out testSize of them.
// The same seed always yields the same partition.
func Split(examples []Example, testSize float64, seed int64) (train, test []Example, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be between 0 and 1, got %v", testSize)
	}

	n := len(examples)
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d examples cannot be split with test size %v",
			learning.ErrInsufficientData, n, testSize)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	test = make([]Example, 0, nTest)
	train = make([]Example, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, examples[idx])
		} else {
			train = append(train, examples[idx])
		}
	}
	return train, test, nil
}

// Documents returns the vectorizer input and labels for examples
func Documents(examples []Example) ([]string, []int) {
	docs := make([]string, len(examples))
	labels := make([]int, len(examples))
	for i, e := range examples {
		docs[i] = e.Document()
		labels[i] = e.Label
	}
	return docs, labels
}

// Accuracy is the fraction of predictions equal to truth
func Accuracy(pred, truth []int) (float64, error) {
	if len(pred) != len(truth) {
		return 0, fmt.Errorf("%d predictions for %d labels", len(pred), len(truth))
	}
	if len(pred) == 0 {
		return 0, fmt.Errorf("no predictions")
	}

	var correct int
	for i := range pred {
		if pred[i] == truth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred)), nil
}

// Confusion counts predictions per (truth, predicted) class
type Confusion struct {
	TruePositive  int // FAKE predicted FAKE
	FalsePositive int // REAL predicted FAKE
	TrueNegative  int // REAL predicted REAL
	FalseNegative int // FAKE predicted REAL
}

// NewConfusion builds the matrix treating FAKE as the positive class
func NewConfusion(pred, truth []int) Confusion {
	var c Confusion
	for i := range pred {
		if i >= len(truth) {
			break
		}
		switch {
		case truth[i] == learning.ClassFake && pred[i] == learning.ClassFake:
			c.TruePositive++
		case truth[i] == learning.ClassReal && pred[i] == learning.ClassFake:
			c.FalsePositive++
		case truth[i] == learning.ClassReal && pred[i] == learning.ClassReal:
			c.TrueNegative++
		default:
			c.FalseNegative++
		}
	}
	return c
}

// Precision for the FAKE class
func (c Confusion) Precision() float64 {
	if c.TruePositive+c.FalsePositive == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalsePositive)
}

// Recall for the FAKE class
func (c Confusion) Recall() float64 {
	if c.TruePositive+c.FalseNegative == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalseNegative)
}

// F1 score for the FAKE class
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
