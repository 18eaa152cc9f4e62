package text

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Lowercases", "Miracle CURE", []string{"miracle", "cure"}},
		{"Drops single characters", "a b cd", []string{"cd"}},
		{"Splits on punctuation", "official-statement, today!", []string{"official", "statement", "today"}},
		{"Keeps digits and underscores", "covid_19 in 2020", []string{"covid_19", "in", "2020"}},
		{"Unicode letters", "Café naïve", []string{"café", "naïve"}},
		{"Empty text", "", nil},
	}

	tok := NewTokenizer(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTermsRemovesStopWords(t *testing.T) {
	tok := NewTokenizer(false)
	terms, err := tok.Terms("The cure is in the official statement")
	if err != nil {
		t.Fatalf("Terms failed: %v", err)
	}

	expected := []string{"cure", "official", "statement"}
	if !reflect.DeepEqual(terms, expected) {
		t.Errorf("Terms = %v, expected %v", terms, expected)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "and", "yourselves", "whereupon"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}
	for _, w := range []string{"miracle", "statement", "news"} {
		if IsStopWord(w) {
			t.Errorf("did not expect %q to be a stop word", w)
		}
	}
}

func TestTermsStemming(t *testing.T) {
	tests := []struct {
		stem     bool
		expected []string
	}{
		{false, []string{"running", "cures", "announced"}},
		{true, []string{"run", "cure", "announc"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("stem=%v", tt.stem), func(t *testing.T) {
			tok := NewTokenizer(tt.stem)
			if tok.Stemming() != tt.stem {
				t.Fatalf("Stemming() = %v, expected %v", tok.Stemming(), tt.stem)
			}
			terms, err := tok.Terms("Running cures announced")
			if err != nil {
				t.Fatalf("Terms failed: %v", err)
			}
			if !reflect.DeepEqual(terms, tt.expected) {
				t.Errorf("Terms = %v, expected %v", terms, tt.expected)
			}
		})
	}
}

func TestTermsStemmingConcurrent(t *testing.T) {
	tok := NewTokenizer(true)
	expected := []string{"run", "cure", "announc"}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				terms, err := tok.Terms("Running cures announced")
				if err != nil {
					errs <- err
					return
				}
				if !reflect.DeepEqual(terms, expected) {
					errs <- fmt.Errorf("Terms = %v, expected %v", terms, expected)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
