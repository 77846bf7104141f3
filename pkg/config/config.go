/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/bncsv/pkg/chunk"
	"github.com/ssargent/bncsv/pkg/logging"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid setting")

// Config represents the bncsv configuration
type Config struct {
	Output      string            `yaml:"output"`
	AbsPathBase string            `yaml:"abs_pathbase"`
	Jobs        int               `yaml:"jobs"`
	WriteChunk  datasize.ByteSize `yaml:"write_chunk"`
	Quiet       bool              `yaml:"quiet"`
	Metrics     Metrics           `yaml:"metrics"`
	Logging     Logging           `yaml:"logging"`
}

// Metrics contains metrics export configuration
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Jobs:       0,
		WriteChunk: datasize.ByteSize(chunk.DefaultWriteChunk),
		Logging: Logging{
			Level: "warn",
		},
	}
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the settings that the pipeline cannot recover from.
// Jobs below 1 are left for the pipeline to replace with the CPU count.
func (c *Config) Validate() error {
	if n := c.WriteChunk.Bytes(); n < chunk.MinWriteChunk || n > chunk.MaxWriteChunk {
		return fmt.Errorf("%w: write_chunk must be between %s and %s, got %s", ErrInvalid,
			datasize.ByteSize(chunk.MinWriteChunk).HR(), datasize.ByteSize(chunk.MaxWriteChunk).HR(), c.WriteChunk.HR())
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./bncsv.yaml"
	}

	// For Linux/macOS, use ~/.config/bncsv/config.yaml
	configDir := filepath.Join(homeDir, ".config", "bncsv")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
