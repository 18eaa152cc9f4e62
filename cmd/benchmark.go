package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/dataset"
	"github.com/veritas/news-classifier/pkg/learning"
	"github.com/veritas/news-classifier/pkg/profiler"
	"github.com/veritas/news-classifier/pkg/scoring"
)

var (
	benchmarkInput      string
	benchmarkRuns       int
	benchmarkConcurrent int
	benchmarkVerbose    bool
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure scoring latency and accuracy on a labelled CSV",
	Long: `Score every article of a labelled CSV with the trained model, optionally
several times and with concurrent workers, and report accuracy, the confusion
matrix, latency percentiles and throughput.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchmarkRuns <= 0 {
			return fmt.Errorf("runs must be greater than 0")
		}
		if benchmarkConcurrent <= 0 {
			return fmt.Errorf("concurrent must be greater than 0")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		input := benchmarkInput
		if input == "" {
			input = cfg.Training.DatasetPath
		}

		examples, err := dataset.LoadCSV(input)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}
		if len(examples) == 0 {
			return fmt.Errorf("no articles found in %s", input)
		}

		model, err := loadModel(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("🚀 Veritas Scoring Benchmark\n")
		fmt.Printf("📁 Dataset: %s\n", input)
		fmt.Printf("📰 Articles: %d\n", len(examples))
		fmt.Printf("🔄 Benchmark runs: %d\n", benchmarkRuns)
		fmt.Printf("⚡ Concurrent workers: %d\n", benchmarkConcurrent)
		fmt.Printf("\n")

		benchmark := NewBenchmark(scoring.NewScorer(model, nil))
		result := benchmark.Run(examples, benchmarkRuns, benchmarkConcurrent)
		displayBenchmarkResults(result)

		if benchmarkVerbose {
			benchmark.prof.Report(os.Stdout)
		}

		return nil
	},
}

// BenchmarkResult contains performance metrics
type BenchmarkResult struct {
	TotalArticles     int
	TotalTime         time.Duration
	Latency           profiler.Stats
	ArticlesPerSecond float64

	// Classification results against the CSV labels
	Accuracy  float64
	Confusion dataset.Confusion
	Invalid   int

	Errors    int
	ErrorRate float64
}

// Benchmark scores a dataset repeatedly
type Benchmark struct {
	scorer *scoring.Scorer
	prof   *profiler.Profiler
}

// NewBenchmark creates a new benchmark instance
func NewBenchmark(scorer *scoring.Scorer) *Benchmark {
	return &Benchmark{
		scorer: scorer,
		prof:   profiler.New(),
	}
}

// Run scores every example runs times with at most concurrent goroutines in flight
func (b *Benchmark) Run(examples []dataset.Example, runs int, concurrent int) *BenchmarkResult {
	result := &BenchmarkResult{
		TotalArticles: len(examples) * runs,
	}

	fmt.Printf("🏃 Running benchmark...\n")

	var mu sync.Mutex
	var wg sync.WaitGroup
	var pred, truth []int

	// Channel to control concurrency
	semaphore := make(chan struct{}, concurrent)

	start := time.Now()

	for run := 0; run < runs; run++ {
		for _, ex := range examples {
			wg.Add(1)

			go func(ex dataset.Example) {
				defer wg.Done()

				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				timer := b.prof.Start("score")
				prediction, err := b.scorer.Classify(ex.Title, ex.Author, ex.Text)
				timer.Stop()

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					result.Errors++
				case !prediction.Valid():
					result.Invalid++
				default:
					pred = append(pred, prediction.Class)
					truth = append(truth, ex.Label)
				}
			}(ex)
		}
	}

	wg.Wait()
	result.TotalTime = time.Since(start)

	result.Latency = b.prof.Stats("score")
	if result.TotalTime > 0 {
		result.ArticlesPerSecond = float64(result.Latency.Count) / result.TotalTime.Seconds()
	}
	if result.TotalArticles > 0 {
		result.ErrorRate = float64(result.Errors) / float64(result.TotalArticles) * 100
	}
	if acc, err := dataset.Accuracy(pred, truth); err == nil {
		result.Accuracy = acc
	}
	result.Confusion = dataset.NewConfusion(pred, truth)

	return result
}

// displayBenchmarkResults shows formatted benchmark results
func displayBenchmarkResults(result *BenchmarkResult) {
	fmt.Printf("📊 Benchmark Results\n")
	fmt.Printf("═══════════════════════════════════════\n\n")

	fmt.Printf("⚡ Performance Metrics:\n")
	fmt.Printf("  Total articles processed: %d\n", result.TotalArticles)
	fmt.Printf("  Total time: %v\n", result.TotalTime)
	fmt.Printf("  Average time per article: %s\n", profiler.FormatDuration(result.Latency.Average))
	fmt.Printf("  Articles per second: %.0f\n", result.ArticlesPerSecond)
	fmt.Printf("\n")

	fmt.Printf("📈 Time Distribution:\n")
	fmt.Printf("  Min time: %s\n", profiler.FormatDuration(result.Latency.Min))
	fmt.Printf("  Max time: %s\n", profiler.FormatDuration(result.Latency.Max))
	fmt.Printf("  Median time: %s\n", profiler.FormatDuration(result.Latency.Median))
	fmt.Printf("  95th percentile: %s\n", profiler.FormatDuration(result.Latency.P95))
	fmt.Printf("  99th percentile: %s\n", profiler.FormatDuration(result.Latency.P99))
	fmt.Printf("\n")

	c := result.Confusion
	fmt.Printf("🎯 Classification Results:\n")
	fmt.Printf("  Accuracy: %.4f\n", result.Accuracy)
	fmt.Printf("  %s predicted: %d\n", learning.LabelFake, c.TruePositive+c.FalsePositive)
	fmt.Printf("  %s predicted: %d\n", learning.LabelReal, c.TrueNegative+c.FalseNegative)
	fmt.Printf("  Fake precision: %.4f  recall: %.4f  F1: %.4f\n", c.Precision(), c.Recall(), c.F1())
	fmt.Printf("  Invalid inputs: %d\n", result.Invalid)
	fmt.Printf("  Error rate: %.2f%%\n", result.ErrorRate)
	fmt.Printf("\n")

	fmt.Printf("🏆 Performance Assessment:\n")
	avgMs := float64(result.Latency.Average.Nanoseconds()) / 1e6
	if avgMs < 1.0 {
		fmt.Printf("  ✅ EXCELLENT: Average time %.2f ms < 1 ms\n", avgMs)
	} else if avgMs < 5.0 {
		fmt.Printf("  ✅ GOOD: Average time %.2f ms < 5 ms target\n", avgMs)
	} else {
		fmt.Printf("  ❌ NEEDS IMPROVEMENT: Average time %.2f ms > 5 ms target\n", avgMs)
	}

	if result.ArticlesPerSecond > 1000 {
		fmt.Printf("  🚀 HIGH THROUGHPUT: %.0f articles/second\n", result.ArticlesPerSecond)
	} else if result.ArticlesPerSecond > 200 {
		fmt.Printf("  ⚡ GOOD THROUGHPUT: %.0f articles/second\n", result.ArticlesPerSecond)
	} else {
		fmt.Printf("  🐌 LOW THROUGHPUT: %.0f articles/second\n", result.ArticlesPerSecond)
	}

	fmt.Printf("\n")
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkInput, "input", "i", "", "Labelled CSV dataset (defaults to training.dataset_path)")
	benchmarkCmd.Flags().IntVarP(&benchmarkRuns, "runs", "r", 3, "Number of benchmark runs")
	benchmarkCmd.Flags().IntVarP(&benchmarkConcurrent, "concurrent", "j", 1, "Number of concurrent workers")
	benchmarkCmd.Flags().BoolVarP(&benchmarkVerbose, "verbose", "v", false, "Print the stage timing table")
}
