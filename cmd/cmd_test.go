package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/history"
	"github.com/veritas/news-classifier/pkg/scoring"
)

func writeTestConfig(t *testing.T) (string, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Model.VectorizerPath = filepath.Join(dir, "model", "vectorizer.bin")
	cfg.Model.ClassifierPath = filepath.Join(dir, "model", "classifier.bin")
	cfg.Training.DatasetPath = filepath.Join(dir, "news.csv")
	cfg.History.SQLite.Path = filepath.Join(dir, "veritas.db")
	cfg.Logging.Level = "error"

	path := filepath.Join(dir, "config.yaml")
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	return path, cfg
}

// execute runs the command tree with every flag back at its default
func execute(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Council Approves Budget</title></head>
<body>
<article>
<h1>Council Approves Budget</h1>
<p class="byline">By Jane Doe</p>
<p>The city council approved the annual budget on Tuesday after a lengthy debate over school funding and road repairs.</p>
<p>An official statement from the mayor's office said the spending plan would be published in full later this week.</p>
<p>Members of the public will be able to comment on the plan during the next open session of the council.</p>
</article>
</body>
</html>`

func TestGenerateTrainScore(t *testing.T) {
	cfgPath, cfg := writeTestConfig(t)

	if err := execute(t, "generate", "--config", cfgPath,
		"--count", "200", "--output", cfg.Training.DatasetPath, "--seed", "7"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := execute(t, "train", "--config", cfgPath); err != nil {
		t.Fatalf("train failed: %v", err)
	}
	for _, p := range []string{cfg.Model.VectorizerPath, cfg.Model.ClassifierPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s not written: %v", p, err)
		}
	}

	model, err := scoring.LoadModel(cfg.Model.VectorizerPath, cfg.Model.ClassifierPath)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if model.Vectorizer.VocabularySize() == 0 {
		t.Fatal("trained vectorizer has an empty vocabulary")
	}

	if err := execute(t, "score", "--config", cfgPath,
		"--title", "Senate passes budget",
		"--author", "Staff Reporter",
		"--text", "The senate approved the annual budget after a committee vote on Tuesday.",
		"--user", "alice"); err != nil {
		t.Fatalf("score failed: %v", err)
	}

	ctx := context.Background()
	store, err := history.OpenSQLite(ctx, cfg.History.SQLite.Path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer store.Close()

	entries, err := store.Query(ctx, "alice")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Title != "Senate passes budget" {
		t.Errorf("unexpected title %q", entries[0].Title)
	}
	if entries[0].Result != "FAKE" && entries[0].Result != "REAL" {
		t.Errorf("unexpected result %q", entries[0].Result)
	}

	if err := execute(t, "benchmark", "--config", cfgPath, "-r", "2", "-j", "4"); err != nil {
		t.Errorf("benchmark failed: %v", err)
	}

	if err := execute(t, "history", "--config", cfgPath, "alice"); err != nil {
		t.Errorf("history failed: %v", err)
	}
	if err := execute(t, "analytics", "--config", cfgPath, "alice"); err != nil {
		t.Errorf("analytics failed: %v", err)
	}
}

func TestScoreWithoutModel(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	err := execute(t, "score", "--config", cfgPath, "--text", "anything at all")
	if err == nil {
		t.Fatal("expected an error when no model has been trained")
	}
}

func TestConfigGenerateAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")

	if err := execute(t, "config", "generate", path); err != nil {
		t.Fatalf("config generate failed: %v", err)
	}
	if err := execute(t, "config", "generate", path); err == nil {
		t.Error("expected error when config file already exists")
	}
	if err := execute(t, "config", "validate", path); err != nil {
		t.Errorf("config validate failed: %v", err)
	}
}

func TestValidateConfigLogic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Training.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")
	cfg.Training.TestSize = 0.6

	warnings := validateConfigLogic(cfg)
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
}

func TestScoreInputSources(t *testing.T) {
	cfgPath, cfg := writeTestConfig(t)
	dir := filepath.Dir(cfgPath)

	if err := execute(t, "generate", "--config", cfgPath,
		"--count", "120", "--output", cfg.Training.DatasetPath); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := execute(t, "train", "--config", cfgPath); err != nil {
		t.Fatalf("train failed: %v", err)
	}

	body := "The senate approved the annual budget after a committee vote on Tuesday."
	textPath := filepath.Join(dir, "body.txt")
	if err := os.WriteFile(textPath, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	htmlPath := filepath.Join(dir, "article.html")
	if err := os.WriteFile(htmlPath, []byte(articlePage), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		user      string
		args      []string
		wantTitle string
		wantText  string
	}{
		{"Text file", "carol", []string{"--title", "Senate vote", "--text-file", textPath}, "Senate vote", body},
		{"HTML page", "dave", []string{"--html", htmlPath}, "Council Approves Budget", "official statement"},
		{"Flags win over HTML", "erin", []string{"--html", htmlPath, "--title", "Override"}, "Override", "official statement"},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"score", "--config", cfgPath, "--user", tt.user}, tt.args...)
			if err := execute(t, args...); err != nil {
				t.Fatalf("score failed: %v", err)
			}

			store, err := history.OpenSQLite(ctx, cfg.History.SQLite.Path)
			if err != nil {
				t.Fatalf("OpenSQLite failed: %v", err)
			}
			defer store.Close()

			entries, err := store.Query(ctx, tt.user)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("expected 1 history entry, got %d", len(entries))
			}
			if !strings.Contains(entries[0].Title, tt.wantTitle) {
				t.Errorf("title = %q, expected it to contain %q", entries[0].Title, tt.wantTitle)
			}
			if !strings.Contains(entries[0].Text, tt.wantText) {
				t.Errorf("text = %q, expected it to contain %q", entries[0].Text, tt.wantText)
			}
		})
	}

	if err := execute(t, "score", "--config", cfgPath, "--text-file", filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for a missing text file")
	}
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)

	// a failed run still leaves its flags set on the shared command tree
	execute(t, "score", "--config", cfgPath, "--user", "mallory", "--title", "Leftover", "--text", "x")

	if err := execute(t, "config", "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if scoreUser != "" || scoreTitle != "" || scoreText != "" {
		t.Errorf("score flags leaked: user=%q title=%q text=%q", scoreUser, scoreTitle, scoreText)
	}
	if f := scoreCmd.Flags().Lookup("user"); f.Changed {
		t.Error("user flag still marked as changed")
	}
}
