package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	if cfg.Training.MaxDF != 0.7 {
		t.Errorf("default max_df = %v, expected 0.7", cfg.Training.MaxDF)
	}
	if cfg.Training.TestSize != 0.2 || cfg.Training.Seed != 42 {
		t.Errorf("default split = %v/%d, expected 0.2/42", cfg.Training.TestSize, cfg.Training.Seed)
	}
	if cfg.History.Backend != "sqlite" || cfg.History.SQLite.Path != "veritas.db" {
		t.Errorf("unexpected default history config: %+v", cfg.History)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"Bad test size", func(c *Config) { c.Training.TestSize = 1 }, "test_size"},
		{"Zero max_df", func(c *Config) { c.Training.MaxDF = 0 }, "max_df"},
		{"Negative alpha", func(c *Config) { c.Training.Alpha = -1 }, "alpha"},
		{"Same artifact paths", func(c *Config) { c.Model.ClassifierPath = c.Model.VectorizerPath }, "must differ"},
		{"Unknown backend", func(c *Config) { c.History.Backend = "mongo" }, "invalid history backend"},
		{"Empty sqlite path", func(c *Config) { c.History.SQLite.Path = "" }, "sqlite path"},
		{"Bad postgres port", func(c *Config) {
			c.History.Backend = "postgres"
			c.History.Postgres.Port = 0
		}, "port"},
		{"Empty redis URL", func(c *Config) {
			c.History.Backend = "redis"
			c.History.Redis.RedisURL = ""
		}, "redis_url"},
		{"Bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging level"},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
		{"Metrics without address", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Address = ""
		}, "metrics address"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("error %q does not mention %q", err, tc.errMsg)
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "veritas.yaml")

	cfg := DefaultConfig()
	cfg.History.Backend = "redis"
	cfg.History.Redis.KeyPrefix = "test"
	cfg.Training.Stem = true

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.History.Backend != "redis" || loaded.History.Redis.KeyPrefix != "test" || !loaded.Training.Stem {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veritas.yaml")
	content := "history:\n  sqlite:\n    path: other.db\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.History.SQLite.Path != "other.db" || cfg.Logging.Level != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Model.VectorizerPath != "model/vectorizer.bin" || cfg.History.Backend != "sqlite" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if cfg, err := LoadConfig(""); err != nil || cfg == nil {
		t.Errorf("empty path should return defaults, got %v", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("training:\n  test_size: 5\n"), 0644)
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected invalid config error, got %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5433, Database: "news", User: "u", Password: "p", SSLMode: "disable"}
	expected := "host=db port=5433 user=u password=p dbname=news sslmode=disable"
	if got := p.DSN(); got != expected {
		t.Errorf("DSN() = %q, expected %q", got, expected)
	}
}
