package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Providers ProvidersConfig `yaml:"providers"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Prefs     PrefsConfig     `yaml:"prefs"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=0,max=65535"`
}

// DashboardConfig holds the query the dashboard serves by default.
type DashboardConfig struct {
	Provider          string `yaml:"provider" validate:"oneof=github gitlab"`
	Organization      string `yaml:"organization" validate:"required"`
	Team              string `yaml:"team" validate:"required"`
	DefaultWindowDays int    `yaml:"default_window_days" validate:"oneof=0 7 14 30"`
}

// ProvidersConfig holds git provider configurations.
type ProvidersConfig struct {
	GitHub GitHubConfig `yaml:"github"`
	GitLab GitLabConfig `yaml:"gitlab"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// GitLabConfig holds GitLab-specific settings.
type GitLabConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// CacheConfig holds the refresh/cache policy settings.
type CacheConfig struct {
	StaleAfterMinutes      int `yaml:"stale_after_minutes" validate:"min=1"`
	RefreshIntervalMinutes int `yaml:"refresh_interval_minutes" validate:"min=1"`
	RefreshDebounceSeconds int `yaml:"refresh_debounce_seconds" validate:"min=0"`
}

// StaleAfter returns the staleness window as a duration.
func (c CacheConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMinutes) * time.Minute
}

// RefreshInterval returns the forced refresh interval as a duration.
func (c CacheConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// RefreshDebounce returns the manual refresh throttle as a duration.
func (c CacheConfig) RefreshDebounce() time.Duration {
	return time.Duration(c.RefreshDebounceSeconds) * time.Second
}

// LoggingConfig holds refresh-cycle log settings.
type LoggingConfig struct {
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days" validate:"min=1"`
}

// PrefsConfig holds the user preference store settings.
type PrefsConfig struct {
	Path string `yaml:"path"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 7100,
		},
		Dashboard: DashboardConfig{
			Provider:          "github",
			DefaultWindowDays: 14,
		},
		Cache: CacheConfig{
			StaleAfterMinutes:      3,
			RefreshIntervalMinutes: 10,
			RefreshDebounceSeconds: 5,
		},
		Logging: LoggingConfig{
			Dir:           "/var/log/teampulse",
			RetentionDays: 14,
		},
		Prefs: PrefsConfig{
			Path: "/var/lib/teampulse/prefs.yaml",
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}
