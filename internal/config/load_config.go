package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Values come from the
// environment (with .env support); an optional YAML file overrides them.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`
	Model            string `yaml:"model"`
	MaxTokens        int    `yaml:"max_tokens"`

	SpotifyClientID     string `yaml:"spotify_client_id"`
	SpotifyClientSecret string `yaml:"spotify_client_secret"`
	SpotifyRefreshToken string `yaml:"spotify_refresh_token"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	HistoryPath    string `yaml:"history_path"`
	HistoryMaxRows int    `yaml:"history_max_rows"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	CacheMaxSize    int `yaml:"cache_max_size"`

	RetryMaxAttempts     int     `yaml:"retry_max_attempts"`
	RetryBaseDelayMs     int     `yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs      int     `yaml:"retry_max_delay_ms"`
	RetryExponentialBase float64 `yaml:"retry_exponential_base"`
	RetryJitter          bool    `yaml:"retry_jitter"`
}

// ------------------------------------------------------------------------------------------------------
// Load reads configuration from the environment, then overlays the YAML
// file at path when one is given.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1/messages"),
		Model:            getEnv("MODEL", "claude-sonnet-4-20250514"),
		MaxTokens:        getEnvAsInt("MAX_TOKENS", 1024),

		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRefreshToken: getEnv("SPOTIFY_REFRESH_TOKEN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		HistoryPath:    getEnv("HISTORY_PATH", "amp_history.db"),
		HistoryMaxRows: getEnvAsInt("HISTORY_MAX_ROWS", 1000),

		CacheTTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
		CacheMaxSize:    getEnvAsInt("CACHE_MAX_SIZE", 500),

		RetryMaxAttempts:     getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelayMs:     getEnvAsInt("RETRY_BASE_DELAY_MS", 1000),
		RetryMaxDelayMs:      getEnvAsInt("RETRY_MAX_DELAY_MS", 10000),
		RetryExponentialBase: getEnvAsFloat("RETRY_EXPONENTIAL_BASE", 2.0),
		RetryJitter:          getEnvAsBool("RETRY_JITTER", true),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" || cfg.SpotifyRefreshToken == "" {
		return nil, fmt.Errorf("SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_REFRESH_TOKEN are required")
	}

	return cfg, nil
}

// CacheTTL returns the default cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ------------------------------------------------------------------------------------------------------
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
