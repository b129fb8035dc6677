package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// SessionConfig points at the imported browser session used to talk to Rumble.
type SessionConfig struct {
	HeadersPath string `toml:"headers_path"`
	BaseURL     string `toml:"base_url"`
	UserAgent   string `toml:"user_agent"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// JobsConfig contains orchestrator tuning knobs.
type JobsConfig struct {
	TargetTimeoutMS   int     `toml:"target_timeout_ms"`
	RateLimit         float64 `toml:"rate_limit"`
	HarvestDebounceMS int     `toml:"harvest_debounce_ms"`
}

// TargetTimeout returns the per-target timeout as a [time.Duration], defaulting to 30s.
func (j JobsConfig) TargetTimeout() time.Duration {
	if j.TargetTimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(j.TargetTimeoutMS) * time.Millisecond
}

// HarvestDebounce returns the harvest trigger debounce window, defaulting to 2s.
func (j JobsConfig) HarvestDebounce() time.Duration {
	if j.HarvestDebounceMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(j.HarvestDebounceMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
