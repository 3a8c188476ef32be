// Package config loads and validates the newsdesk service configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultReadTimeoutSeconds is the default HTTP read timeout in seconds
	DefaultReadTimeoutSeconds = 10
	// DefaultWriteTimeoutSeconds is the default HTTP write timeout in seconds
	DefaultWriteTimeoutSeconds = 30
	// DefaultIdleTimeoutSeconds is the default HTTP idle timeout in seconds
	DefaultIdleTimeoutSeconds = 60

	defaultAddress  = ":8080"
	defaultDataFile = "data/articles.json"
)

type Config struct {
	Debug   bool          `yaml:"debug"` // Application debug mode (controls log level and format)
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`       // e.g., ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // Default: 30s
	IdleTimeout  time.Duration `yaml:"idle_timeout"`  // Default: 60s
}

// RedisConfig configures the remote key-value backend. Leaving URL empty
// selects the local file backend instead.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig configures the local file backend.
type StorageConfig struct {
	DataFile string `yaml:"data_file"` // Path to the articles JSON document
	// RequireRemote forbids local writes; without a Redis URL all mutations
	// fail with a configuration error. Set this in deployments whose
	// filesystem is ephemeral.
	RequireRemote bool `yaml:"require_remote"`
}

// AuthConfig holds the shared bearer secrets checked by the HTTP boundary.
type AuthConfig struct {
	// WebhookSecret authorizes publish requests.
	WebhookSecret string `yaml:"webhook_secret"`
	// AgentSecret authorizes upvote/comment requests. Falls back to
	// WebhookSecret when empty.
	AgentSecret string `yaml:"agent_secret"`
}

// RemoteConfigured reports whether the remote key-value backend is configured.
func (c *Config) RemoteConfigured() bool {
	return c.Redis.URL != ""
}

// Validate checks if the server configuration is valid and sets defaults.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		c.Address = defaultAddress
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeoutSeconds * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeoutSeconds * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeoutSeconds * time.Second
	}
	return nil
}

// Validate checks if the configuration is valid and returns an error if not.
// RequireRemote without a Redis URL is allowed here: reads keep working
// against the local document and mutations report the missing backend.
func (c *Config) Validate() error {
	if c.Storage.DataFile == "" {
		c.Storage.DataFile = defaultDataFile
	}
	return c.Server.Validate()
}

// overrideWithEnvVars overrides configuration with environment variables
func overrideWithEnvVars(cfg *Config) {
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if dataFile := os.Getenv("NEWSDESK_DATA_FILE"); dataFile != "" {
		cfg.Storage.DataFile = dataFile
	}
	if requireRemote := os.Getenv("NEWSDESK_REQUIRE_REMOTE"); requireRemote != "" {
		cfg.Storage.RequireRemote = parseBool(requireRemote)
	}
	if webhookSecret := os.Getenv("NEWSDESK_WEBHOOK_SECRET"); webhookSecret != "" {
		cfg.Auth.WebhookSecret = webhookSecret
	}
	if agentSecret := os.Getenv("NEWSDESK_AGENT_SECRET"); agentSecret != "" {
		cfg.Auth.AgentSecret = agentSecret
	}
	if port := os.Getenv("NEWSDESK_PORT"); port != "" {
		cfg.Server.Address = ":" + port
	}
	if appDebug := os.Getenv("APP_DEBUG"); appDebug != "" {
		cfg.Debug = parseBool(appDebug)
	}
}

// Load reads configuration from the given YAML file, applies defaults and
// environment overrides, and validates the result. An empty path skips the
// file and builds the configuration from defaults and environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	overrideWithEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// parseBool parses a string value as a boolean.
// Returns true for "true", "1", "yes" (case-insensitive), false otherwise.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
