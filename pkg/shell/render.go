package shell

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/veritas/news-classifier/pkg/history"
)

// WriteHistory prints entries as a table of title, author, result and time
func WriteHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No predictions yet")
		return
	}

	fmt.Fprintf(w, "%-40s %-20s %-6s %-19s\n", "Title", "Author", "Result", "Timestamp")
	fmt.Fprintf(w, "──────────────────────────────────────────────────────────────────────────────────────────\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%-40s %-20s %-6s %-19s\n",
			truncate(e.Title, 40), truncate(e.Author, 20), e.Result, e.Timestamp)
	}
}

// WriteSummary prints a user's totals
func WriteSummary(w io.Writer, sum history.Summary) {
	fmt.Fprintf(w, "Total predictions: %d\n", sum.Total)
	fmt.Fprintf(w, "Fake news detected: %d\n", sum.Fake)
	fmt.Fprintf(w, "Real news detected: %d\n", sum.Real)
	if sum.Total > 0 {
		fmt.Fprintf(w, "Fake ratio: %.1f%%\n", float64(sum.Fake)/float64(sum.Total)*100)
	}
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
