package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got %v", err)
	}

	if cfg.DataSource != SourceDatabase {
		t.Errorf("Expected DATABASE source, got %s", cfg.DataSource)
	}
	if cfg.Database.Port != 3306 || cfg.Database.Name != "ml" {
		t.Errorf("Expected localhost:3306/ml, got %d/%s", cfg.Database.Port, cfg.Database.Name)
	}
	if cfg.Web.PageSize != 24 || cfg.Web.HomeLimit != 20 {
		t.Errorf("Expected page size 24 and home limit 20, got %d and %d", cfg.Web.PageSize, cfg.Web.HomeLimit)
	}
	if cfg.Web.InsightsThreshold != 70 {
		t.Errorf("Expected insights threshold 70, got %d", cfg.Web.InsightsThreshold)
	}
	if cfg.Classifier.Trees != 100 || cfg.Classifier.MaxDepth != 12 || cfg.Classifier.Seed != 42 {
		t.Errorf("Unexpected classifier defaults: %+v", cfg.Classifier)
	}
	if !cfg.Pipeline.GenerateTrainingData {
		t.Error("Expected training data generation to default on")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	p := writeConfig(t, `
data_source: files
database:
  host: db.internal
  port: 3307
web:
  insights_threshold: 100
pipeline:
  fetch: true
  generate_training_data: false
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.DataSource != SourceFiles {
		t.Errorf("Expected data source to be upper-cased to FILES, got %s", cfg.DataSource)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 3307 {
		t.Errorf("Expected db.internal:3307, got %s:%d", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Web.InsightsThreshold != 100 {
		t.Errorf("Expected threshold 100, got %d", cfg.Web.InsightsThreshold)
	}
	if !cfg.Pipeline.Fetch || cfg.Pipeline.GenerateTrainingData {
		t.Errorf("Expected pipeline overrides, got %+v", cfg.Pipeline)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	p := writeConfig(t, "data_source: sqlite\n")
	_, err := LoadConfig(p)
	if err == nil || !strings.Contains(err.Error(), "data_source") {
		t.Errorf("Expected data_source validation error, got %v", err)
	}

	p = writeConfig(t, "classifier:\n  test_size: 1.5\n")
	if _, err := LoadConfig(p); err == nil {
		t.Error("Expected test_size validation error")
	}
}

func TestSecretsFromEnv(t *testing.T) {
	t.Setenv("COMPANY_API_KEY", "k-123")
	t.Setenv("MYSQL_PASSWORD", "s3cret")

	cfg := Default()
	if cfg.APIKey() != "k-123" {
		t.Errorf("Expected API key from env, got %q", cfg.APIKey())
	}
	if cfg.DatabasePassword() != "s3cret" {
		t.Errorf("Expected password from env, got %q", cfg.DatabasePassword())
	}
}
