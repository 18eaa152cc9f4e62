package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/extract"
	"github.com/veritas/news-classifier/pkg/history"
	"github.com/veritas/news-classifier/pkg/logger"
	"github.com/veritas/news-classifier/pkg/scoring"
)

var (
	scoreTitle    string
	scoreAuthor   string
	scoreText     string
	scoreTextFile string
	scoreHTMLFile string
	scoreUser     string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Classify a single article as FAKE or REAL",
	Long: `Classify one article with the trained model.

The article is given with --title, --author and --text (or --text-file), or
extracted from a saved web page with --html. With --user the verdict is also
appended to that user's prediction history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		title, author, text := scoreTitle, scoreAuthor, scoreText
		if scoreTextFile != "" {
			data, err := os.ReadFile(scoreTextFile)
			if err != nil {
				return fmt.Errorf("failed to read text file: %v", err)
			}
			text = string(data)
		}
		if scoreHTMLFile != "" {
			article, err := extract.FromFile(scoreHTMLFile)
			if err != nil {
				return fmt.Errorf("failed to extract article: %v", err)
			}
			// explicit flags win over extracted fields
			if title == "" {
				title = article.Title
			}
			if author == "" {
				author = article.Author
			}
			if text == "" {
				text = article.Text
			}
		}

		model, err := loadModel(cfg)
		if err != nil {
			return err
		}
		scorer := scoring.NewScorer(model, nil)

		start := time.Now()
		prediction, err := scorer.Classify(title, author, text)
		if err != nil {
			return fmt.Errorf("failed to score article: %v", err)
		}
		duration := time.Since(start)

		fmt.Printf("Veritas Score Results:\n")
		if title != "" {
			fmt.Printf("Title: %s\n", title)
		}
		if author != "" {
			fmt.Printf("Author: %s\n", author)
		}
		fmt.Printf("Result: %s\n", prediction.Label)
		if !prediction.Valid() {
			return nil
		}
		fmt.Printf("Confidence: %.1f%%\n", prediction.Confidence*100)
		fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)

		if scoreUser != "" {
			if err := recordScore(cmd.Context(), cfg, scoreUser, title, author, text, prediction.Label); err != nil {
				logger.WithComponent("score").Warn("history append failed", "user", scoreUser, "error", err)
				fmt.Printf("⚠️  Could not save to history: %v\n", err)
			} else {
				fmt.Printf("📝 Saved to history for %s\n", scoreUser)
			}
		}

		return nil
	},
}

// recordScore appends a verdict to the configured history store
func recordScore(ctx context.Context, cfg *config.Config, user, title, author, text, result string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Append(ctx, history.Record{
		Username: user,
		Title:    title,
		Author:   author,
		Text:     text,
		Result:   result,
	})
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "Article title")
	scoreCmd.Flags().StringVar(&scoreAuthor, "author", "", "Article author")
	scoreCmd.Flags().StringVar(&scoreText, "text", "", "Article body")
	scoreCmd.Flags().StringVar(&scoreTextFile, "text-file", "", "Read the article body from a file")
	scoreCmd.Flags().StringVar(&scoreHTMLFile, "html", "", "Extract the article from a saved HTML page")
	scoreCmd.Flags().StringVarP(&scoreUser, "user", "u", "", "Append the verdict to this user's history")
}
