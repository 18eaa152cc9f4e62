package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/artifact"
	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/dataset"
	"github.com/veritas/news-classifier/pkg/learning"
	"github.com/veritas/news-classifier/pkg/logger"
	"github.com/veritas/news-classifier/pkg/profiler"
)

var (
	trainDataPath       string
	trainTestSize       float64
	trainSeed           int64
	trainMaxDF          float64
	trainStem           bool
	trainVectorizerPath string
	trainClassifierPath string
	trainVerbose        bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the TF-IDF + Naive Bayes model",
	Long: `Train the fake news model from a labelled CSV file.

The CSV needs title, author, text and label (FAKE or REAL) columns. The
corpus is split into train and test sets, the vectorizer and classifier are
fitted on the training part, accuracy is reported on the held-out part and
both artifacts are written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyTrainFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid training options: %v", err)
		}

		log := logger.WithComponent("train")
		prof := profiler.New()

		fmt.Printf("🧠 Veritas Model Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s\n", cfg.Training.DatasetPath)
		fmt.Printf("✂️  Test size: %.2f (seed %d)\n", cfg.Training.TestSize, cfg.Training.Seed)
		fmt.Printf("💾 Vectorizer: %s\n", cfg.Model.VectorizerPath)
		fmt.Printf("💾 Classifier: %s\n", cfg.Model.ClassifierPath)
		fmt.Printf("\n")

		start := time.Now()

		var examples []dataset.Example
		if err := prof.Time("load", func() error {
			examples, err = dataset.LoadCSV(cfg.Training.DatasetPath)
			return err
		}); err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}
		log.Info("dataset loaded", "examples", len(examples))

		var train, test []dataset.Example
		if err := prof.Time("split", func() error {
			train, test, err = dataset.Split(examples, cfg.Training.TestSize, cfg.Training.Seed)
			return err
		}); err != nil {
			return fmt.Errorf("failed to split dataset: %w", err)
		}
		fmt.Printf("📚 Training examples: %d\n", len(train))
		fmt.Printf("🧪 Test examples: %d\n", len(test))

		vectorizer := learning.NewVectorizer(&learning.VectorizerConfig{
			MaxDF:   cfg.Training.MaxDF,
			MinDF:   cfg.Training.MinDF,
			Stem:    cfg.Training.Stem,
			Workers: cfg.Training.Workers,
		})
		trainDocs, trainLabels := dataset.Documents(train)

		var xTrain []learning.Vector
		if err := prof.Time("vectorize", func() error {
			xTrain, err = vectorizer.FitTransform(trainDocs)
			return err
		}); err != nil {
			return fmt.Errorf("failed to fit vectorizer: %w", err)
		}
		log.Info("vectorizer fitted", "vocabulary", vectorizer.VocabularySize())

		classifier := learning.NewNaiveBayes(&learning.BayesConfig{Alpha: cfg.Training.Alpha})
		if err := prof.Time("fit", func() error {
			return classifier.Fit(xTrain, trainLabels, vectorizer.VocabularySize())
		}); err != nil {
			return fmt.Errorf("failed to fit classifier: %w", err)
		}

		var accuracy float64
		var confusion dataset.Confusion
		if err := prof.Time("evaluate", func() error {
			accuracy, confusion, err = evaluate(vectorizer, classifier, test)
			return err
		}); err != nil {
			return fmt.Errorf("failed to evaluate model: %w", err)
		}

		if err := prof.Time("save", func() error {
			if err := artifact.SaveVectorizer(vectorizer, cfg.Model.VectorizerPath); err != nil {
				return err
			}
			return artifact.SaveClassifier(classifier, cfg.Model.ClassifierPath)
		}); err != nil {
			return fmt.Errorf("failed to save model: %v", err)
		}

		duration := time.Since(start)

		fmt.Printf("\n✅ Training complete. Accuracy: %.4f\n", accuracy)
		fmt.Printf("🎯 FAKE precision: %.4f  recall: %.4f  F1: %.4f\n",
			confusion.Precision(), confusion.Recall(), confusion.F1())
		fmt.Printf("\n📊 Confusion matrix (rows: actual, columns: predicted)\n")
		fmt.Printf("%12s %8s %8s\n", "", "FAKE", "REAL")
		fmt.Printf("%12s %8d %8d\n", "FAKE", confusion.TruePositive, confusion.FalseNegative)
		fmt.Printf("%12s %8d %8d\n", "REAL", confusion.FalsePositive, confusion.TrueNegative)
		fmt.Printf("\n⏱️  Time taken: %v\n", duration)
		fmt.Printf("✅ Model and vectorizer saved successfully!\n")

		if trainVerbose {
			fmt.Printf("\n")
			learning.PrintStats(os.Stdout, vectorizer, classifier, 10)
			prof.Report(os.Stdout)
		}

		return nil
	},
}

// evaluate scores test with a fitted model
func evaluate(v *learning.Vectorizer, nb *learning.NaiveBayes, test []dataset.Example) (float64, dataset.Confusion, error) {
	docs, truth := dataset.Documents(test)
	x, err := v.Transform(docs)
	if err != nil {
		return 0, dataset.Confusion{}, err
	}

	pred := make([]int, len(x))
	for i, vec := range x {
		if pred[i], err = nb.Predict(vec); err != nil {
			return 0, dataset.Confusion{}, err
		}
	}

	accuracy, err := dataset.Accuracy(pred, truth)
	if err != nil {
		return 0, dataset.Confusion{}, err
	}
	return accuracy, dataset.NewConfusion(pred, truth), nil
}

// applyTrainFlags overrides config values with flags given on the command line
func applyTrainFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Training.DatasetPath = trainDataPath
	}
	if flags.Changed("test-size") {
		cfg.Training.TestSize = trainTestSize
	}
	if flags.Changed("seed") {
		cfg.Training.Seed = trainSeed
	}
	if flags.Changed("max-df") {
		cfg.Training.MaxDF = trainMaxDF
	}
	if flags.Changed("stem") {
		cfg.Training.Stem = trainStem
	}
	if flags.Changed("vectorizer") {
		cfg.Model.VectorizerPath = trainVectorizerPath
	}
	if flags.Changed("classifier") {
		cfg.Model.ClassifierPath = trainClassifierPath
	}
}

func init() {
	trainCmd.Flags().StringVarP(&trainDataPath, "data", "d", "", "Labelled CSV dataset (overrides config)")
	trainCmd.Flags().Float64Var(&trainTestSize, "test-size", 0.2, "Held-out fraction of the dataset")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 42, "Shuffle seed for the train/test split")
	trainCmd.Flags().Float64Var(&trainMaxDF, "max-df", 0.7, "Drop terms found in more than this fraction of documents")
	trainCmd.Flags().BoolVar(&trainStem, "stem", false, "Apply English stemming to terms")
	trainCmd.Flags().StringVar(&trainVectorizerPath, "vectorizer", "", "Vectorizer artifact path (overrides config)")
	trainCmd.Flags().StringVar(&trainClassifierPath, "classifier", "", "Classifier artifact path (overrides config)")
	trainCmd.Flags().BoolVarP(&trainVerbose, "verbose", "v", false, "Print model statistics and stage timings")
}
