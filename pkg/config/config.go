package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete veritas configuration
type Config struct {
	// Artifact locations
	Model ModelConfig `yaml:"model"`

	// Offline training job
	Training TrainingConfig `yaml:"training"`

	// Prediction history storage
	History HistoryConfig `yaml:"history"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics"`
}

// ModelConfig holds artifact paths
type ModelConfig struct {
	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`
}

// TrainingConfig controls dataset splitting and model fitting
type TrainingConfig struct {
	DatasetPath string  `yaml:"dataset_path"`
	TestSize    float64 `yaml:"test_size"` // held-out fraction, 0 < test_size < 1
	Seed        int64   `yaml:"seed"`

	// Vectorizer
	MaxDF   float64 `yaml:"max_df"`
	MinDF   int     `yaml:"min_df"`
	Stem    bool    `yaml:"stem"`
	Workers int     `yaml:"workers"` // 0 = GOMAXPROCS

	// Classifier
	Alpha float64 `yaml:"alpha"`
}

// HistoryConfig selects and configures the history backend
type HistoryConfig struct {
	// Backend type: "sqlite", "postgres" or "redis"
	Backend string `yaml:"backend"`

	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// SQLiteConfig holds the SQLite database file
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			VectorizerPath: "model/vectorizer.bin",
			ClassifierPath: "model/classifier.bin",
		},
		Training: TrainingConfig{
			DatasetPath: "news.csv",
			TestSize:    0.2,
			Seed:        42,
			MaxDF:       0.7,
			MinDF:       1,
			Stem:        false,
			Workers:     0,
			Alpha:       1.0,
		},
		History: HistoryConfig{
			Backend: "sqlite",
			SQLite: SQLiteConfig{
				Path: "veritas.db",
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "veritas",
				User:     "veritas",
				Password: "",
				SSLMode:  "disable",
			},
			Redis: RedisConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "veritas",
				DatabaseNum: 0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9464",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Model.VectorizerPath == "" || c.Model.ClassifierPath == "" {
		return fmt.Errorf("model vectorizer_path and classifier_path are required")
	}
	if c.Model.VectorizerPath == c.Model.ClassifierPath {
		return fmt.Errorf("model vectorizer_path and classifier_path must differ")
	}

	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("test_size must be between 0 and 1 (exclusive)")
	}
	if c.Training.MaxDF <= 0 || c.Training.MaxDF > 1 {
		return fmt.Errorf("max_df must be in (0, 1]")
	}
	if c.Training.MinDF < 1 {
		return fmt.Errorf("min_df must be >= 1")
	}
	if c.Training.Alpha <= 0 {
		return fmt.Errorf("alpha must be > 0")
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	switch c.History.Backend {
	case "sqlite":
		if c.History.SQLite.Path == "" {
			return fmt.Errorf("history sqlite path cannot be empty")
		}
	case "postgres":
		if c.History.Postgres.Host == "" || c.History.Postgres.Database == "" {
			return fmt.Errorf("history postgres host and database are required")
		}
		if c.History.Postgres.Port < 1 || c.History.Postgres.Port > 65535 {
			return fmt.Errorf("history postgres port must be between 1 and 65535")
		}
	case "redis":
		if c.History.Redis.RedisURL == "" {
			return fmt.Errorf("history redis_url cannot be empty")
		}
	default:
		return fmt.Errorf("invalid history backend: %s (must be sqlite, postgres or redis)", c.History.Backend)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics address cannot be empty when enabled")
	}

	return nil
}
