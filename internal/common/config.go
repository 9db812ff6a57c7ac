// Package common provides shared utilities for Riskfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Riskfolio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Risk        RiskConfig    `toml:"risk"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the current-portfolio flat file location.
type StorageConfig struct {
	PortfolioPath string `toml:"portfolio_path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD    EODHDConfig    `toml:"eodhd"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Algorand AlgorandConfig `toml:"algorand"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// AlgorandConfig holds Algorand node and signing configuration.
// An empty mnemonic leaves ledger submission in simulation mode.
type AlgorandConfig struct {
	AlgodURL   string `toml:"algod_url"`
	AlgodToken string `toml:"algod_token"`
	Mnemonic   string `toml:"mnemonic"`
	Network    string `toml:"network"`
}

// RiskConfig holds risk computation parameters.
type RiskConfig struct {
	LookbackDays int `toml:"lookback_days"`
}

// Lookback returns the price history lookback as a duration.
func (c *RiskConfig) Lookback() time.Duration {
	days := c.LookbackDays
	if days <= 0 {
		days = 182 // ~6 months
	}
	return time.Duration(days) * 24 * time.Hour
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			PortfolioPath: "data/portfolio.csv",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			Algorand: AlgorandConfig{
				AlgodURL: "https://testnet-api.algonode.cloud",
				Network:  "TestNet",
			},
		},
		Risk: RiskConfig{
			LookbackDays: 182,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RISKFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("RISKFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("RISKFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("RISKFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("RISKFOLIO_PORTFOLIO_PATH"); path != "" {
		config.Storage.PortfolioPath = path
	}

	if days := os.Getenv("RISKFOLIO_LOOKBACK_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			config.Risk.LookbackDays = d
		}
	}

	config.Clients.EODHD.APIKey = ResolveAPIKey("eodhd",
		[]string{"EODHD_API_KEY", "RISKFOLIO_EODHD_API_KEY"},
		config.Clients.EODHD.APIKey)
	config.Clients.Gemini.APIKey = ResolveAPIKey("gemini",
		[]string{"GEMINI_API_KEY", "RISKFOLIO_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		config.Clients.Gemini.APIKey)
	config.Clients.Algorand.Mnemonic = ResolveAPIKey("algorand",
		[]string{"ALGORAND_MNEMONIC", "RISKFOLIO_ALGORAND_MNEMONIC"},
		config.Clients.Algorand.Mnemonic)

	if url := os.Getenv("ALGORAND_ALGOD_ADDRESS"); url != "" {
		config.Clients.Algorand.AlgodURL = url
	}
	if token := os.Getenv("ALGORAND_ALGOD_TOKEN"); token != "" {
		config.Clients.Algorand.AlgodToken = token
	}
}

// ResolveAPIKey resolves a credential from the first non-empty
// environment variable, falling back to the config file value.
func ResolveAPIKey(name string, envVars []string, fallback string) string {
	for _, envVar := range envVars {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return fallback
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
