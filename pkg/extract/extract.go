// Package extract pulls the title, author and body text out of an HTML
// news page.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Article holds the fields the scorer needs
type Article struct {
	Title  string
	Author string
	Text   string
}

// FromReader parses an HTML document. pageURL may be nil.
func FromReader(r io.Reader, pageURL *url.URL) (Article, error) {
	parsed, err := readability.FromReader(r, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("parse content: %w", err)
	}

	article := Article{
		Title:  strings.TrimSpace(parsed.Title),
		Author: cleanByline(parsed.Byline),
		Text:   strings.TrimSpace(parsed.TextContent),
	}
	if article.Text == "" {
		return Article{}, fmt.Errorf("no readable content found")
	}
	return article, nil
}

// FromFile parses a saved HTML page
func FromFile(path string) (Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return Article{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return FromReader(f, nil)
}

// cleanByline drops a leading "By" and collapses whitespace
func cleanByline(byline string) string {
	byline = strings.Join(strings.Fields(byline), " ")
	if len(byline) > 3 && strings.EqualFold(byline[:3], "by ") {
		byline = byline[3:]
	}
	return byline
}
