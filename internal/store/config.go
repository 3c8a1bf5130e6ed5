package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceDatabase = "DATABASE"
	SourceFiles    = "FILES"
)

type Config struct {
	DataSource string `yaml:"data_source"`
	API        struct {
		BaseURL           string  `yaml:"base_url"`
		APIKeyEnv         string  `yaml:"api_key_env"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"api"`
	Database struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		PasswordEnv string `yaml:"password_env"`
		Name        string `yaml:"name"`
		// Extra DSN parameters, e.g. charset: utf8mb4
		Params map[string]string `yaml:"params"`
	} `yaml:"database"`
	Paths struct {
		CompanyList  string `yaml:"company_list"`
		RawDir       string `yaml:"raw_dir"`
		ProcessedDir string `yaml:"processed_dir"`
		TrainingCSV  string `yaml:"training_csv"`
		Model        string `yaml:"model"`
		LogDir       string `yaml:"log_dir"`
		ReportDir    string `yaml:"report_dir"`
	} `yaml:"paths"`
	Classifier struct {
		Trees           int     `yaml:"trees"`
		MaxDepth        int     `yaml:"max_depth"`
		MaxFeatures     int     `yaml:"max_features"`
		MinSamplesSplit int     `yaml:"min_samples_split"`
		TestSize        float64 `yaml:"test_size"`
		Seed            int64   `yaml:"seed"`
	} `yaml:"classifier"`
	Web struct {
		Addr              string `yaml:"addr"`
		PageSize          int    `yaml:"page_size"`
		HomeLimit         int    `yaml:"home_limit"`
		InsightsThreshold int    `yaml:"insights_threshold"`
	} `yaml:"web"`
	Pipeline struct {
		Fetch                bool `yaml:"fetch"`
		Migrate              bool `yaml:"migrate"`
		GenerateTrainingData bool `yaml:"generate_training_data"`
		LogRetentionDays     int  `yaml:"log_retention_days"`
	} `yaml:"pipeline"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Pipeline.GenerateTrainingData = true
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.DataSource == "" {
		c.DataSource = SourceDatabase
	}
	c.DataSource = strings.ToUpper(c.DataSource)

	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://api.example.com/company"
	}
	if c.API.APIKeyEnv == "" {
		c.API.APIKeyEnv = "COMPANY_API_KEY"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.PasswordEnv == "" {
		c.Database.PasswordEnv = "MYSQL_PASSWORD"
	}
	if c.Database.Name == "" {
		c.Database.Name = "ml"
	}

	if c.Paths.CompanyList == "" {
		c.Paths.CompanyList = "data/companies.xlsx"
	}
	if c.Paths.RawDir == "" {
		c.Paths.RawDir = "data/raw"
	}
	if c.Paths.ProcessedDir == "" {
		c.Paths.ProcessedDir = "data/processed"
	}
	if c.Paths.TrainingCSV == "" {
		c.Paths.TrainingCSV = "ml_training_data.csv"
	}
	if c.Paths.Model == "" {
		c.Paths.Model = "ml_pros_classifier.json"
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = "logs"
	}
	if c.Paths.ReportDir == "" {
		c.Paths.ReportDir = "reports"
	}

	if c.Classifier.Trees == 0 {
		c.Classifier.Trees = 100
	}
	if c.Classifier.MaxDepth == 0 {
		c.Classifier.MaxDepth = 12
	}
	if c.Classifier.MinSamplesSplit == 0 {
		c.Classifier.MinSamplesSplit = 2
	}
	if c.Classifier.TestSize == 0 {
		c.Classifier.TestSize = 0.2
	}
	if c.Classifier.Seed == 0 {
		c.Classifier.Seed = 42
	}

	if c.Web.Addr == "" {
		c.Web.Addr = "0.0.0.0:5000"
	}
	if c.Web.PageSize == 0 {
		c.Web.PageSize = 24
	}
	if c.Web.HomeLimit == 0 {
		c.Web.HomeLimit = 20
	}
	if c.Web.InsightsThreshold == 0 {
		c.Web.InsightsThreshold = 70
	}
}

func (c *Config) Validate() error {
	if c.DataSource != SourceDatabase && c.DataSource != SourceFiles {
		return fmt.Errorf("invalid data_source '%s': must be '%s' or '%s'", c.DataSource, SourceDatabase, SourceFiles)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative, got %d", c.API.TimeoutSeconds)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative, got %.2f", c.API.RequestsPerSecond)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}
	if c.Classifier.Trees < 1 {
		return errors.New("classifier.trees must be at least 1")
	}
	if c.Classifier.TestSize < 0 || c.Classifier.TestSize >= 1 {
		return fmt.Errorf("classifier.test_size must be in [0, 1), got %.2f", c.Classifier.TestSize)
	}
	if c.Web.PageSize < 1 {
		return fmt.Errorf("web.page_size must be positive, got %d", c.Web.PageSize)
	}
	return nil
}

// APIKey reads the API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.API.APIKeyEnv)
}

// DatabasePassword reads the MySQL password from the configured environment variable.
func (c *Config) DatabasePassword() string {
	return os.Getenv(c.Database.PasswordEnv)
}

// LoadConfig reads path, applies defaults and validates. A missing file
// yields the defaults so the standalone commands run without a config.yaml.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	c.Pipeline.GenerateTrainingData = true

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}
