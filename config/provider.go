package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Provider yields a validated Config. The composition root picks one
// implementation per deployment target.
type Provider interface {
	Load() (*Config, error)
}

// EnvProvider reads the configuration from environment variables.
type EnvProvider struct {
	// Prefix defaults to EnvPrefix when empty.
	Prefix string
}

// Load implements Provider.
func (p EnvProvider) Load() (*Config, error) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = EnvPrefix
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logLoaded("env", &cfg)
	return &cfg, nil
}

// FileProvider reads a YAML file. Keys absent from the file keep their
// Default() values.
type FileProvider struct {
	Path string
}

// Load implements Provider.
func (p FileProvider) Load() (*Config, error) {
	if _, err := os.Stat(p.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", p.Path)
	}
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config file %s: %w", p.Path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logLoaded("file", &cfg)
	return &cfg, nil
}

// StaticProvider returns a fixed configuration.
type StaticProvider struct {
	Config Config
}

// Load implements Provider.
func (p StaticProvider) Load() (*Config, error) {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
