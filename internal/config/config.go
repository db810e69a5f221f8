// Package config loads client configuration from config.yaml in the state
// directory, layered over defaults. Flags override loaded values at the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the config file name inside the state directory.
const File = "config.yaml"

// Duration parses yaml strings like "30s" (yaml.v3 has no native
// time.Duration support).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the complete client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// ServerConfig points the client at the bookstore backend.
type ServerConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8080
	BaseURL string `yaml:"base_url"`
	// Timeout bounds every request.
	Timeout Duration `yaml:"timeout"`
}

// CatalogConfig controls listing behavior.
type CatalogConfig struct {
	// PageSize is the listing page size sent to the server.
	PageSize int `yaml:"page_size"`
}

// Default returns a Config with the stock defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
			Timeout: Duration(30 * time.Second),
		},
		Catalog: CatalogConfig{
			PageSize: 12,
		},
	}
}

// Load reads config.yaml from stateDir over the defaults. A missing file is
// fine; a file that exists but does not parse is an error (unlike snapshots,
// config is written by hand and silent fallback would hide typos).
func Load(stateDir string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(filepath.Join(stateDir, File))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", File, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive")
	}
	return nil
}
