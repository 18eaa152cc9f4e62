package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/history"
	"github.com/veritas/news-classifier/pkg/shell"
)

var historyCmd = &cobra.Command{
	Use:   "history [username]",
	Short: "Show a user's prediction history",
	Long:  `List every article scored for a user, most recent first.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd.Context(), func(ctx context.Context, store history.Store) error {
			entries, err := store.Query(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to query history: %v", err)
			}

			fmt.Printf("📜 Prediction history for %s\n\n", args[0])
			shell.WriteHistory(os.Stdout, entries)
			return nil
		})
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics [username]",
	Short: "Show a user's prediction totals",
	Long:  `Count the articles scored for a user by verdict.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd.Context(), func(ctx context.Context, store history.Store) error {
			summary, err := store.Aggregate(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to aggregate history: %v", err)
			}

			fmt.Printf("📊 Analytics for %s\n\n", args[0])
			shell.WriteSummary(os.Stdout, summary)
			return nil
		})
	},
}

// withHistory opens the configured store for the duration of fn
func withHistory(ctx context.Context, fn func(context.Context, history.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, store)
}
