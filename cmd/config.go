package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritas/news-classifier/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage Veritas configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to choose the dataset, artifact paths and history backend\n")
		fmt.Printf("🚀 Use 'veritas train --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Dataset: %s\n", cfg.Training.DatasetPath)
		fmt.Printf("  History backend: %s\n", cfg.History.Backend)
		fmt.Printf("  Metrics enabled: %v\n", cfg.Metrics.Enabled)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("💾 Model:\n")
		fmt.Printf("  Vectorizer: %s\n", cfg.Model.VectorizerPath)
		fmt.Printf("  Classifier: %s\n", cfg.Model.ClassifierPath)

		fmt.Printf("\n🧠 Training:\n")
		fmt.Printf("  Dataset: %s\n", cfg.Training.DatasetPath)
		fmt.Printf("  Test size: %.2f\n", cfg.Training.TestSize)
		fmt.Printf("  Seed: %d\n", cfg.Training.Seed)
		fmt.Printf("  Max document frequency: %.2f\n", cfg.Training.MaxDF)
		fmt.Printf("  Min document frequency: %d\n", cfg.Training.MinDF)
		fmt.Printf("  Stemming: %v\n", cfg.Training.Stem)
		fmt.Printf("  Workers: %d\n", cfg.Training.Workers)
		fmt.Printf("  Smoothing (alpha): %.2f\n", cfg.Training.Alpha)

		fmt.Printf("\n📜 History:\n")
		fmt.Printf("  Backend: %s\n", cfg.History.Backend)
		switch cfg.History.Backend {
		case "sqlite":
			fmt.Printf("  Path: %s\n", cfg.History.SQLite.Path)
		case "postgres":
			pg := cfg.History.Postgres
			fmt.Printf("  Server: %s:%d/%s (user %s, sslmode %s)\n", pg.Host, pg.Port, pg.Database, pg.User, pg.SSLMode)
		case "redis":
			fmt.Printf("  URL: %s (db %d, prefix %q)\n", cfg.History.Redis.RedisURL, cfg.History.Redis.DatabaseNum, cfg.History.Redis.KeyPrefix)
		}

		fmt.Printf("\n📝 Logging:\n")
		fmt.Printf("  Level: %s\n", cfg.Logging.Level)
		fmt.Printf("  Format: %s\n", cfg.Logging.Format)

		fmt.Printf("\n📈 Metrics:\n")
		fmt.Printf("  Enabled: %v\n", cfg.Metrics.Enabled)
		fmt.Printf("  Address: %s\n", cfg.Metrics.Address)

		return nil
	},
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Training.TestSize > 0.5 {
		warnings = append(warnings, fmt.Sprintf("test_size %.2f holds out more than half of the dataset", cfg.Training.TestSize))
	}
	if cfg.Training.MaxDF < 0.3 {
		warnings = append(warnings, fmt.Sprintf("max_df %.2f prunes aggressively - vocabulary may be very small", cfg.Training.MaxDF))
	}
	if cfg.Training.Alpha < 0.01 {
		warnings = append(warnings, "alpha below 0.01 gives almost no smoothing for unseen terms")
	}
	if _, err := os.Stat(cfg.Training.DatasetPath); err != nil {
		warnings = append(warnings, fmt.Sprintf("dataset not found: %s", cfg.Training.DatasetPath))
	}
	if cfg.History.Backend == "postgres" && cfg.History.Postgres.Password == "" {
		warnings = append(warnings, "postgres password is empty")
	}
	if cfg.Metrics.Enabled && cfg.Logging.Level == "debug" {
		warnings = append(warnings, "debug logging with metrics enabled is noisy in production")
	}

	return warnings
}

func init() {
	configGenCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")

	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
