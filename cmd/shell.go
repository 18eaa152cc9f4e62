package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/logger"
	"github.com/veritas/news-classifier/pkg/metrics"
	"github.com/veritas/news-classifier/pkg/scoring"
	"github.com/veritas/news-classifier/pkg/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive classifier",
	Long: `Start the interactive terminal front end.

Log in with any username, score articles from the dashboard and browse the
prediction history and analytics of the logged-in user. Press Ctrl+C at any
prompt to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		model, err := loadModel(cfg)
		if err != nil {
			return err
		}

		store, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		m := metrics.New()
		if cfg.Metrics.Enabled {
			shutdown := m.StartServer(cfg.Metrics.Address)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.WithComponent("metrics").Warn("metrics server shutdown failed", "error", err)
				}
			}()
			fmt.Printf("📈 Metrics: http://%s/metrics\n", cfg.Metrics.Address)
		}

		sh := shell.New(shell.Options{
			Classifier: scoring.NewScorer(model, m),
			History:    store,
			Out:        os.Stdout,
			Metrics:    m,
			Logger:     logger.WithComponent("shell"),
		})

		fmt.Printf("🛡️  Veritas Fake News Detector\n")
		if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("shell failed: %v", err)
		}
		return nil
	},
}
