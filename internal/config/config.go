package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"NW_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"NW_DB_MAX_CONNS" default:"8"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-3-pro-preview"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("NW_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("NW_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("NW_DB_MIN_CONNS (%d) cannot exceed NW_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.GeminiModel) == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	if strings.TrimSpace(c.GeminiBaseURL) == "" {
		return fmt.Errorf("GEMINI_BASE_URL must not be empty")
	}
	return nil
}

// ValidateScoring checks the fields only needed when the Gemini scorer runs.
func (c *Config) ValidateScoring() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for scoring (use --dedupe-only to skip scoring)")
	}
	return nil
}
