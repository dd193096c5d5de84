package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds connection settings for the CLI.
type Config struct {
	Token         string `yaml:"token,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`
	EncryptionKey string `yaml:"encryption_key,omitempty"`
}

// DefaultConfigPath is ~/.endee.yaml, falling back to the working directory
// when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".endee.yaml"
	}
	return filepath.Join(home, ".endee.yaml")
}

// LoadConfig reads the YAML config at path. A missing file is not an error;
// it yields an empty config so flags alone can drive the CLI.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
