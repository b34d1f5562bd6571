// Package config loads application configuration from a YAML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Monday    MondayConfig    `yaml:"monday"`
	Mailchimp MailchimpConfig `yaml:"mailchimp"`
	Sync      SyncConfig      `yaml:"sync"`
	History   HistoryConfig   `yaml:"history"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MondayConfig holds Monday.com API settings.
type MondayConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// MailchimpConfig holds Mailchimp API settings.
type MailchimpConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SyncConfig holds pipeline pacing settings.
type SyncConfig struct {
	// PaceIntervalMS is the minimum spacing between Mailchimp calls.
	PaceIntervalMS int `yaml:"pace_interval_ms"`
}

// PaceInterval returns the pacing interval as a duration.
func (c SyncConfig) PaceInterval() time.Duration {
	return time.Duration(c.PaceIntervalMS) * time.Millisecond
}

// HistoryConfig holds the Redis-backed run history settings.
type HistoryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redis_url"`
	MaxRuns  int    `yaml:"max_runs"`
}

// ArchiveConfig holds the optional S3 run-report archive settings.
type ArchiveConfig struct {
	Enabled  bool   `yaml:"enabled"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// DisableRedaction turns off email masking in logs. Leave off in
	// production; subscriber addresses are PII.
	DisableRedaction bool `yaml:"disable_redaction"`
}

// Load reads the YAML config at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads the YAML config and layers .env plus environment
// overrides on top. A missing config file is not an error; the service can
// run entirely from environment variables.
func LoadFromEnv(path string) (*Config, error) {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MONDAY_API_KEY"); v != "" {
		cfg.Monday.APIKey = v
	}
	if v := os.Getenv("MONDAY_BASE_URL"); v != "" {
		cfg.Monday.BaseURL = v
	}
	if v := os.Getenv("MAILCHIMP_API_KEY"); v != "" {
		cfg.Mailchimp.APIKey = v
	}
	if v := os.Getenv("MAILCHIMP_BASE_URL"); v != "" {
		cfg.Mailchimp.BaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.History.Enabled = true
		cfg.History.RedisURL = v
	}
	if v := os.Getenv("ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Archive.Enabled = true
		cfg.Archive.S3Bucket = v
	}
	if v := os.Getenv("ARCHIVE_S3_REGION"); v != "" {
		cfg.Archive.S3Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if c.Monday.BaseURL == "" {
		c.Monday.BaseURL = "https://api.monday.com/v2"
	}
	if c.Monday.TimeoutSeconds == 0 {
		c.Monday.TimeoutSeconds = 30
	}
	if c.Monday.MaxRetries == 0 {
		c.Monday.MaxRetries = 3
	}
	if c.Mailchimp.BaseURL == "" {
		// Datacenter suffix must match the account the API key belongs to.
		c.Mailchimp.BaseURL = "https://us13.api.mailchimp.com/3.0"
	}
	if c.Mailchimp.TimeoutSeconds == 0 {
		c.Mailchimp.TimeoutSeconds = 30
	}
	if c.Sync.PaceIntervalMS == 0 {
		c.Sync.PaceIntervalMS = 1000
	}
	if c.History.MaxRuns == 0 {
		c.History.MaxRuns = 50
	}
	if c.Archive.S3Region == "" {
		c.Archive.S3Region = "us-east-1"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
