package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Scraper ScraperConfig
	Cache   CacheConfig
	Data    DataConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScraperConfig holds the fetch gateway's politeness parameters
type ScraperConfig struct {
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
	MinInterval    time.Duration `mapstructure:"min_interval"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	RespectRobots  bool          `mapstructure:"respect_robots"`
}

// CacheConfig holds the price cache configuration
type CacheConfig struct {
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// DataConfig holds paths to the data files
type DataConfig struct {
	SuppliersPath string `mapstructure:"suppliers_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/renovation-intel/")

	// Environment variable settings
	v.SetEnvPrefix("RENOVATION")
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
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Scraper defaults
	v.SetDefault("scraper.max_concurrent", 2)
	v.SetDefault("scraper.min_interval", "400ms")
	v.SetDefault("scraper.timeout", "8s")
	v.SetDefault("scraper.user_agent", "RenovationIntelBot/1.0 (+contact@example.com)")
	v.SetDefault("scraper.accept_language", "fr-FR,fr;q=0.9,en;q=0.8")
	v.SetDefault("scraper.respect_robots", true)

	// Cache defaults
	v.SetDefault("cache.path", "data/price_cache.json")
	v.SetDefault("cache.ttl", "12h")

	// Data defaults
	v.SetDefault("data.suppliers_path", "data/suppliers.json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scraper.MaxConcurrent < 1 {
		return fmt.Errorf("scraper.max_concurrent must be at least 1, got: %d", config.Scraper.MaxConcurrent)
	}
	if config.Scraper.MinInterval < 0 {
		return fmt.Errorf("scraper.min_interval must not be negative, got: %s", config.Scraper.MinInterval)
	}
	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be positive, got: %s", config.Scraper.Timeout)
	}
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got: %s", config.Cache.TTL)
	}
	return nil
}
