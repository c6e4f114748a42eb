// Package config provides configuration loading and management for
// med2image. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Conversion parameters
	Conversion struct {
		// Colormap is the grayscale colormap applied to every slice,
		// "gray" or "gray_r"
		Colormap string `yaml:"colormap"`

		// JPEGQuality is the quality setting for JPEG output, 1-100
		JPEGQuality int `yaml:"jpegQuality"`

		// Cores specifies how many jobs may encode concurrently.
		// 1 keeps the deterministic sequential file creation order.
		Cores int `yaml:"cores"`
	} `yaml:"conversion"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Conversion.Colormap = "gray"
	cfg.Conversion.JPEGQuality = 90
	cfg.Conversion.Cores = 1

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks loaded values and clamps what can be clamped.
func (cfg *Config) Validate() error {
	if cfg.Conversion.Colormap != "gray" && cfg.Conversion.Colormap != "gray_r" {
		return fmt.Errorf("invalid colormap %q: want gray or gray_r", cfg.Conversion.Colormap)
	}
	if cfg.Conversion.JPEGQuality < 1 || cfg.Conversion.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpegQuality %d: want 1-100", cfg.Conversion.JPEGQuality)
	}
	if cfg.Conversion.Cores < 1 {
		cfg.Conversion.Cores = 1
	}
	if cfg.Conversion.Cores > runtime.NumCPU() {
		cfg.Conversion.Cores = runtime.NumCPU()
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
