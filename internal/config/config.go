// Package config holds the app-level configuration file. Everything
// the user edits inside the tool (agents, models, terms, rules) lives
// in the store instead.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir is where the settings and history blobs live.
	// Defaults to the config directory.
	DataDir string `yaml:"data_dir,omitempty"`

	// RequestTimeoutSeconds bounds every model call
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty"`

	// BatchDelayMS is the pause between batch items
	BatchDelayMS int `yaml:"batch_delay_ms,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		RequestTimeoutSeconds: 60,
		BatchDelayMS:          500,
		LogLevel:              "warn",
	}
}

// RequestTimeout returns the model-call timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// BatchDelay returns the inter-item batch pause as a duration
func (c *Config) BatchDelay() time.Duration {
	if c.BatchDelayMS < 0 {
		return 0
	}
	return time.Duration(c.BatchDelayMS) * time.Millisecond
}

// StorageDir returns the blob directory, falling back to the config
// directory.
func (c *Config) StorageDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return ConfigDir()
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "copytune"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file. A missing file returns (nil, nil).
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
