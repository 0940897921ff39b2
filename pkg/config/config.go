// Package config provides configuration loading and management for niftislice.
// It handles loading configuration from YAML files and provides default values.
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
	// Processing parameters
	Processing struct {
		// NumCores limits how many orientations are rendered at once
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Render parameters
	Render struct {
		// Orientations lists the planes to render (xy, yz, xz)
		Orientations []string `yaml:"orientations"`

		// DefaultSlice is the slice rendered when none is given; -1 picks
		// the middle slice
		DefaultSlice int `yaml:"defaultSlice"`

		// Format is the image file format (png, jpeg, bmp, tiff)
		Format string `yaml:"format"`

		// JPEGQuality is used when Format is jpeg
		JPEGQuality int `yaml:"jpegQuality"`

		// Label draws the orientation and slice number onto each image
		Label bool `yaml:"label"`
	} `yaml:"render"`

	// Output parameters
	Output struct {
		// Dir is the directory rendered slices are written to
		Dir string `yaml:"dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Server parameters
	Server struct {
		// Address is the HTTP listen address
		Address string `yaml:"address"`

		// MaxUploadBytes caps the size of an uploaded volume
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
	} `yaml:"server"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Render.Orientations = []string{"xy", "yz", "xz"}
	cfg.Render.DefaultSlice = -1
	cfg.Render.Format = "png"
	cfg.Render.JPEGQuality = 90
	cfg.Render.Label = false

	cfg.Output.Dir = "slices"
	cfg.Output.Verbose = false

	cfg.Server.Address = "127.0.0.1:8080"
	cfg.Server.MaxUploadBytes = 512 << 20

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late during rendering
func (c *Config) Validate() error {
	switch c.Render.Format {
	case "png", "jpeg", "jpg", "bmp", "tiff", "tif":
	default:
		return fmt.Errorf("invalid render format %q", c.Render.Format)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range [1,100]", c.Render.JPEGQuality)
	}
	if c.Processing.NumCores < 1 {
		c.Processing.NumCores = 1
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
