// Package config loads application configuration from defaults, an
// optional YAML file, and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Storage
	DataFilePath  string `yaml:"data_file_path"`
	WatchDataFile bool   `yaml:"watch_data_file"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// HTTP surface
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	EnableMetrics  bool     `yaml:"enable_metrics"`

	// Editor authentication. When the secret is empty, mutating routes
	// are open for writing.
	EditorJWTSecret string `yaml:"editor_jwt_secret"`
	JWTIssuer       string `yaml:"jwt_issuer"`

	// Rate limiting for the public interactions endpoint, per IP per
	// minute.
	InteractionRateLimit int `yaml:"interaction_rate_limit"`
}

// LoadConfig builds the configuration: defaults, then the optional YAML
// file, then environment overrides.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := configFilePath(); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:        ":8080",
		Environment:          "development",
		DataFilePath:         "memories.json",
		WatchDataFile:        false,
		LogLevel:             "info",
		EnableCORS:           true,
		AllowedOrigins:       []string{"http://localhost:3000"},
		EnableMetrics:        false,
		JWTIssuer:            "keepsake-backend",
		InteractionRateLimit: 120,
	}
}

// configFilePath returns the YAML file to load, if any: CONFIG_FILE
// when set, otherwise ./config.yaml when present.
func configFilePath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DataFilePath = getEnv("DATA_FILE", cfg.DataFilePath)
	cfg.WatchDataFile = getEnvBool("WATCH_DATA_FILE", cfg.WatchDataFile)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EditorJWTSecret = getEnv("EDITOR_JWT_SECRET", cfg.EditorJWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.InteractionRateLimit = getEnvInt("INTERACTION_RATE_LIMIT", cfg.InteractionRateLimit)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address is required")
	}
	if c.DataFilePath == "" {
		return fmt.Errorf("data file path is required")
	}
	if c.InteractionRateLimit <= 0 {
		return fmt.Errorf("interaction rate limit must be positive")
	}
	if c.IsProduction() && c.EnableCORS && len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production when CORS is enabled")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
