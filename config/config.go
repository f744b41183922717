package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigPath is where the server looks for its YAML config.
const DefaultConfigPath = ".investor/config.yaml"

// Config represents the server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Alpaca  AlpacaConfig  `yaml:"alpaca" mapstructure:"alpaca"`
}

// ServerConfig contains MCP transport settings
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	Path string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// FetchConfig contains settings for the shared HTTP fetch layer
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxSize        int64  `yaml:"max_size" mapstructure:"max_size"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
}

// RetryConfig contains the retry policy shared by all provider calls
type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffSec int `yaml:"initial_backoff_sec" mapstructure:"initial_backoff_sec"`
	MaxBackoffSec     int `yaml:"max_backoff_sec" mapstructure:"max_backoff_sec"`
	BackoffMultiplier int `yaml:"backoff_multiplier" mapstructure:"backoff_multiplier"`
}

// AlpacaConfig contains credentials for the intraday bars provider.
// Both values empty means the fetch_intraday_data tool degrades to a
// structured "unavailable" response.
type AlpacaConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	APISecret string `yaml:"api_secret" mapstructure:"api_secret"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Path: "/mcp",
		},
		Logging: LoggingConfig{
			Debug: false,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			MaxSize:        10 * 1024 * 1024,
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialBackoffSec: 2,
			MaxBackoffSec:     30,
			BackoffMultiplier: 2,
		},
		Alpaca: AlpacaConfig{
			BaseURL: "https://data.alpaca.markets",
		},
	}
}

// Load reads the configuration from an optional YAML file and the
// environment. Environment variables use the INVESTOR_ prefix
// (INVESTOR_SERVER_PORT, ...); the legacy DEBUG_LOGGING, ALPACA_API_KEY
// and ALPACA_API_SECRET variables are honored as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetEnvPrefix("INVESTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
				}
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyLegacyEnv(cfg)

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.path", cfg.Server.Path)
	v.SetDefault("logging.debug", cfg.Logging.Debug)
	v.SetDefault("fetch.timeout_seconds", cfg.Fetch.TimeoutSeconds)
	v.SetDefault("fetch.max_size", cfg.Fetch.MaxSize)
	v.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	v.SetDefault("retry.max_attempts", cfg.Retry.MaxAttempts)
	v.SetDefault("retry.initial_backoff_sec", cfg.Retry.InitialBackoffSec)
	v.SetDefault("retry.max_backoff_sec", cfg.Retry.MaxBackoffSec)
	v.SetDefault("retry.backoff_multiplier", cfg.Retry.BackoffMultiplier)
	v.SetDefault("alpaca.api_key", cfg.Alpaca.APIKey)
	v.SetDefault("alpaca.api_secret", cfg.Alpaca.APISecret)
	v.SetDefault("alpaca.base_url", cfg.Alpaca.BaseURL)
}

func applyLegacyEnv(cfg *Config) {
	if isTruthy(os.Getenv("DEBUG_LOGGING")) {
		cfg.Logging.Debug = true
	}
	if key := os.Getenv("ALPACA_API_KEY"); key != "" {
		cfg.Alpaca.APIKey = key
	}
	if secret := os.Getenv("ALPACA_API_SECRET"); secret != "" {
		cfg.Alpaca.APISecret = secret
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
