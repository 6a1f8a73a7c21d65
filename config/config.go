package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Airtable  AirtableConfig
	Catalog   CatalogConfig
	Basket    BasketConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AirtableConfig holds catalog provider configuration
type AirtableConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
	Table   string `mapstructure:"table"`
}

// CatalogConfig holds catalog cache configuration
type CatalogConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // 0 means fetch once, never refresh
}

// BasketConfig holds basket persistence configuration
type BasketConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// MatchingConfig holds alternative-matching configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/switchtoindia/")

	// Environment variable settings
	v.SetEnvPrefix("SWITCHTOINDIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Airtable defaults
	v.SetDefault("airtable.token", "")
	v.SetDefault("airtable.base_url", "https://api.airtable.com/v0")
	v.SetDefault("airtable.table", "Products")

	// Catalog defaults: fetch once per process unless a TTL is set
	v.SetDefault("catalog.ttl", "0")

	// Basket defaults
	v.SetDefault("basket.db_path", "basket.db")

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Airtable.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set SWITCHTOINDIA_AIRTABLE_BASE_URL)")
	}

	if config.Airtable.Table == "" {
		return fmt.Errorf("catalog table name is required")
	}

	if config.Basket.DBPath == "" {
		return fmt.Errorf("basket db path is required")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
