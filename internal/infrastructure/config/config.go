// Package config provides centralized configuration management.
//
// Configuration loads from a YAML file (config.yaml) with environment
// variables expanded inside it, falling back to environment variables alone
// when no file is present.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the whole application configuration.
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Ledger        LedgerConfig        `yaml:"ledger"`
	Allocation    AllocationConfig    `yaml:"allocation"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LedgerConfig describes where usage records come from.
type LedgerConfig struct {
	// Source selects the provider: "csv" or "sqlite".
	Source string `yaml:"source"`
	// CSVPath is the ledger export read by the csv provider.
	CSVPath string `yaml:"csv_path"`
	// CacheTTL is the freshness window for the cached ledger snapshot, as a
	// duration string ("5m", "1h"). Empty or "0" disables caching.
	CacheTTL string `yaml:"cache_ttl"`
	// SinceYear excludes records before January 1st of this year.
	// Zero keeps the full history.
	SinceYear int `yaml:"since_year"`
}

// AllocationConfig holds allocation defaults.
type AllocationConfig struct {
	// MinSharePercent drops departments below this share of usage.
	MinSharePercent float64 `yaml:"min_share_percent"`
	// Precision is the number of decimal places allocated quantities carry.
	Precision int32 `yaml:"precision"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TTL parses CacheTTL, returning zero (caching off) for empty or bad values.
func (l LedgerConfig) TTL() time.Duration {
	if l.CacheTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(l.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// Since converts SinceYear into a record date floor.
func (l LedgerConfig) Since() time.Time {
	if l.SinceYear == 0 {
		return time.Time{}
	}
	return time.Date(l.SinceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SPP_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv builds configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			DatabasePath: getEnv("SPP_DB_PATH", "spp_allocation.db"),
		},
		Ledger: LedgerConfig{
			Source:    getEnv("SPP_LEDGER_SOURCE", "sqlite"),
			CSVPath:   getEnv("SPP_LEDGER_CSV", "ledger.csv"),
			CacheTTL:  getEnv("SPP_CACHE_TTL", "5m"),
			SinceYear: getEnvInt("SPP_SINCE_YEAR", 2024),
		},
		Allocation: AllocationConfig{
			MinSharePercent: 1.0,
			Precision:       0,
		},
		API: APIConfig{
			Port: getEnvInt("SPP_API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level: getEnv("LOG_LEVEL", "info"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries config.yaml first, then falls back to the environment.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries the given path first, then the environment.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "spp_allocation.db"
	}
	if c.Ledger.Source == "" {
		c.Ledger.Source = "sqlite"
	}
	if c.Allocation.MinSharePercent == 0 {
		c.Allocation.MinSharePercent = 1.0
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
