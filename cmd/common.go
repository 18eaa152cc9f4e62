package cmd

import (
	"context"
	"fmt"

	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/history"
	"github.com/veritas/news-classifier/pkg/logger"
	"github.com/veritas/news-classifier/pkg/scoring"
)

// loadConfig reads --config and installs the logger it describes
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// loadModel reads both artifacts named in cfg
func loadModel(cfg *config.Config) (*scoring.Model, error) {
	model, err := scoring.LoadModel(cfg.Model.VectorizerPath, cfg.Model.ClassifierPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'veritas train' first)", err)
	}
	logger.WithComponent("model").Debug("model loaded",
		"vectorizer", cfg.Model.VectorizerPath,
		"classifier", cfg.Model.ClassifierPath,
		"vocabulary", model.Vectorizer.VocabularySize())
	return model, nil
}

// openHistory opens the configured history backend
func openHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	store, err := history.Open(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	logger.WithComponent("history").Debug("history store opened", "backend", cfg.History.Backend)
	return store, nil
}
