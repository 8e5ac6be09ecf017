package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"atithi/internal/assistant"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig             `yaml:"server"`
	Provider   ProviderConfig           `yaml:"provider"`
	Store      StoreConfig              `yaml:"store"`
	Session    SessionConfig            `yaml:"session"`
	Restaurant assistant.RestaurantInfo `yaml:"restaurant"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	MetricsPort    int      `yaml:"metrics_port"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ProviderConfig selects and configures the hosted model.
type ProviderConfig struct {
	Name           string `yaml:"name"` // "gemini" or "openai"
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the remote call budget.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// StoreConfig configures order persistence.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN     string `yaml:"dsn"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Backend       string `yaml:"backend"` // "memory" or "redis"
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	TTLMinutes    int    `yaml:"ttl_minutes"`
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
		},
		Provider: ProviderConfig{
			Name:           "gemini",
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Enabled: true,
			Driver:  "sqlite3",
			DSN:     "atithi.db",
		},
		Session: SessionConfig{
			Backend:    "memory",
			TTLMinutes: 120,
		},
		Restaurant: assistant.DefaultRestaurantInfo(),
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
