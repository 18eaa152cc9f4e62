package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas - fake news classifier",
	Long: `Veritas classifies news articles as FAKE or REAL with a TF-IDF
vectorizer and a multinomial Naive Bayes model.

Train a model from a labelled CSV, score articles from the command line or
the interactive shell, and review each user's prediction history.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Veritas - Fake News Classifier")
		fmt.Println("Use 'veritas --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(configCmd)
}
