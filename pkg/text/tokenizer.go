// Package text turns article text into the lowercase word tokens the
// vectorizer counts.
package text

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/tebeka/snowball"
)

// tokenRegex matches maximal runs of two or more Unicode word characters.
var tokenRegex = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenizer splits documents into tokens, optionally stemming them. It is
// safe for concurrent use; each goroutine borrows its own stemmer.
type Tokenizer struct {
	stem     bool
	stemmers sync.Pool
}

// NewTokenizer creates a tokenizer. When stem is true every token is reduced
// with the English Snowball stemmer.
func NewTokenizer(stem bool) *Tokenizer {
	t := &Tokenizer{stem: stem}
	t.stemmers.New = func() any {
		stemmer, err := snowball.New("english")
		if err != nil {
			return err
		}
		// pooled stemmers hold C memory and may be dropped by the pool
		runtime.SetFinalizer(stemmer, (*snowball.Stemmer).Close)
		return stemmer
	}
	return t
}

// Stemming reports whether the tokenizer stems tokens.
func (t *Tokenizer) Stemming() bool {
	return t.stem
}

// Tokenize returns the tokens of s in document order, stop words included
// and never stemmed.
func (t *Tokenizer) Tokenize(s string) []string {
	return tokenRegex.FindAllString(strings.ToLower(s), -1)
}

// Terms returns the tokens of s with stop words removed, stemmed when the
// tokenizer was built with stemming.
func (t *Tokenizer) Terms(s string) ([]string, error) {
	tokens := t.Tokenize(s)

	terms := tokens[:0]
	for _, tok := range tokens {
		if IsStopWord(tok) {
			continue
		}
		terms = append(terms, tok)
	}
	if !t.stem || len(terms) == 0 {
		return terms, nil
	}

	stemmer, err := t.stemmer()
	if err != nil {
		return nil, err
	}
	defer t.stemmers.Put(stemmer)

	for i, term := range terms {
		terms[i] = stemmer.Stem(term)
	}
	return terms, nil
}

func (t *Tokenizer) stemmer() (*snowball.Stemmer, error) {
	switch v := t.stemmers.Get().(type) {
	case *snowball.Stemmer:
		return v, nil
	case error:
		return nil, fmt.Errorf("failed to create stemmer: %v", v)
	default:
		return nil, fmt.Errorf("failed to create stemmer: unexpected %T", v)
	}
}
