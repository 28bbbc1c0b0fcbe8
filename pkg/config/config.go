// Package config loads surf's YAML configuration file and applies it on top
// of the built-in defaults and retry presets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/surf/pkg/resilience"
)

// Config is the top-level surf configuration.
type Config struct {
	// Browser holds defaults for new browser sessions.
	Browser BrowserConfig `yaml:"browser"`

	// Retry holds per-category overrides of the retry presets.
	Retry RetryConfig `yaml:"retry"`

	// AllowedURLs are glob patterns gating navigation targets. Empty means
	// every URL is allowed.
	AllowedURLs []string `yaml:"allowed_urls"`
}

// BrowserConfig holds defaults for new browser sessions.
type BrowserConfig struct {
	Engine         string  `yaml:"engine"`
	Headless       *bool   `yaml:"headless"`
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	Timeout        float64 `yaml:"timeout_ms"`
	MaxSessions    int     `yaml:"max_sessions"`

	// IdleTimeout closes sessions a run script has not touched for this
	// long. Zero keeps the built-in default.
	IdleTimeout Duration `yaml:"idle_timeout"`
}

// HeadlessDefault reports the configured headless default (true when unset).
func (b BrowserConfig) HeadlessDefault() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}

// RetryConfig holds the per-category retry overrides.
type RetryConfig struct {
	Connection  RetryOverride `yaml:"connection"`
	Interactive RetryOverride `yaml:"interactive"`
	Network     RetryOverride `yaml:"network"`
	FileSystem  RetryOverride `yaml:"filesystem"`
}

// RetryOverride overrides individual fields of a retry preset. Nil fields
// keep the preset value.
type RetryOverride struct {
	MaxAttempts       *int      `yaml:"max_attempts"`
	BaseDelay         *Duration `yaml:"base_delay"`
	MaxDelay          *Duration `yaml:"max_delay"`
	PerAttemptTimeout *Duration `yaml:"per_attempt_timeout"`
	RetryablePhrases  []string  `yaml:"retryable_phrases"`
}

// Apply merges the override onto cfg and returns the result.
func (o RetryOverride) Apply(cfg resilience.Config) resilience.Config {
	if o.MaxAttempts != nil {
		cfg.MaxAttempts = *o.MaxAttempts
	}
	if o.BaseDelay != nil {
		cfg.BaseDelay = time.Duration(*o.BaseDelay)
	}
	if o.MaxDelay != nil {
		cfg.MaxDelay = time.Duration(*o.MaxDelay)
	}
	if o.PerAttemptTimeout != nil {
		cfg.PerAttemptTimeout = time.Duration(*o.PerAttemptTimeout)
	}
	if o.RetryablePhrases != nil {
		cfg.RetryablePhrases = o.RetryablePhrases
	}
	return cfg
}

// ConnectionConfig returns the connection preset with overrides applied.
func (c *Config) ConnectionConfig() resilience.Config {
	return c.Retry.Connection.Apply(resilience.ConnectionConfig())
}

// InteractiveConfig returns the interactive preset with overrides applied.
func (c *Config) InteractiveConfig() resilience.Config {
	return c.Retry.Interactive.Apply(resilience.InteractiveConfig())
}

// NetworkConfig returns the network preset with overrides applied.
func (c *Config) NetworkConfig() resilience.Config {
	return c.Retry.Network.Apply(resilience.NetworkConfig())
}

// FileSystemConfig returns the filesystem preset with overrides applied.
func (c *Config) FileSystemConfig() resilience.Config {
	return c.Retry.FileSystem.Apply(resilience.FileSystemConfig())
}

// DefaultPath returns the default config file location, ~/.surf/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".surf", "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields the zero config
// (all defaults); a malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
	}
	return &cfg, nil
}
