// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults
const (
	DefaultPort                = 8080
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "json"
	DefaultSimilarityThreshold = 0.8
	DefaultRulesCacheTTL       = 5 * time.Minute
	DefaultMaxBatchSize        = 50
)

// Config represents the application configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults and environment variables win over both.
type Config struct {
	Port        int    `json:"port,omitempty" validate:"min=1,max=65535"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	LogLevel  string `json:"log_level,omitempty" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" validate:"oneof=json console"`

	LexiconPath     string `json:"lexicon_path,omitempty"`      // Replacement lexicon JSON
	EntityRulesPath string `json:"entity_rules_path,omitempty"` // Entity rules JSON

	APIKey string `json:"api_key,omitempty"` // Gemini API key

	SimilarityThreshold float64       `json:"similarity_threshold,omitempty" validate:"gt=0,lte=1"`
	RulesCacheTTL       time.Duration `json:"-"`
	RulesCacheTTLString string        `json:"rules_cache_ttl,omitempty"` // e.g. "5m"
	MaxBatchSize        int           `json:"max_batch_size,omitempty" validate:"min=1,max=500"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                DefaultPort,
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
		SimilarityThreshold: DefaultSimilarityThreshold,
		RulesCacheTTL:       DefaultRulesCacheTTL,
		MaxBatchSize:        DefaultMaxBatchSize,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if cfg.RulesCacheTTLString != "" {
		ttl, err := time.ParseDuration(cfg.RulesCacheTTLString)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid 'rules_cache_ttl': %w", err)
		}
		cfg.RulesCacheTTL = ttl
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the file at path (if any), then
// environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	file := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	cfg := file.MergeWithDefaults(Default())
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	c.Port = EnvInt("PORT", c.Port)
	c.DatabaseURL = EnvString("DATABASE_URL", c.DatabaseURL)
	c.LogLevel = EnvString("LOG_LEVEL", c.LogLevel)
	c.LogFormat = EnvString("LOG_FORMAT", c.LogFormat)
	c.LexiconPath = EnvString("LEXICON_PATH", c.LexiconPath)
	c.EntityRulesPath = EnvString("ENTITY_RULES_PATH", c.EntityRulesPath)
	c.APIKey = EnvString("GEMINI_API_KEY", c.APIKey)
	c.SimilarityThreshold = EnvFloat("SIMILARITY_THRESHOLD", c.SimilarityThreshold)
	c.RulesCacheTTL = EnvDuration("RULES_CACHE_TTL", c.RulesCacheTTL)
	c.MaxBatchSize = EnvInt("MAX_BATCH_SIZE", c.MaxBatchSize)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.RulesCacheTTL < 0 {
		return fmt.Errorf("config error: 'rules_cache_ttl' must be non-negative")
	}

	for name, path := range map[string]string{
		"lexicon_path":      c.LexiconPath,
		"entity_rules_path": c.EntityRulesPath,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LexiconPath == "" {
		result.LexiconPath = defaults.LexiconPath
	}
	if result.EntityRulesPath == "" {
		result.EntityRulesPath = defaults.EntityRulesPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SimilarityThreshold == 0 {
		result.SimilarityThreshold = defaults.SimilarityThreshold
	}
	if result.RulesCacheTTL == 0 {
		result.RulesCacheTTL = defaults.RulesCacheTTL
	}
	if result.MaxBatchSize == 0 {
		result.MaxBatchSize = defaults.MaxBatchSize
	}

	return result
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
