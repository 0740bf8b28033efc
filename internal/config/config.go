// Package config loads tablekit settings from defaults, the environment and
// an optional config.yaml in the base directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHome overrides the base directory
	EnvHome = "TABLEKIT_HOME"
	// EnvLogLevel overrides the log level
	EnvLogLevel = "TABLEKIT_LOG_LEVEL"

	configFile = "config.yaml"
)

// DefaultReservedFieldNames are the field names that collide with system columns.
var DefaultReservedFieldNames = []string{"id", "order"}

// Config holds global configuration settings
type Config struct {
	// BaseDir is the root directory for tablekit storage
	BaseDir string `yaml:"-"`
	// LogLevel is the minimum level written by the logger
	LogLevel string `yaml:"log_level"`
	// ReservedFieldNames may not be used as field names
	ReservedFieldNames []string `yaml:"reserved_field_names"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseDir:            getDefaultBaseDir(),
		LogLevel:           "warn",
		ReservedFieldNames: append([]string(nil), DefaultReservedFieldNames...),
	}
}

// getDefaultBaseDir returns the default base directory path
func getDefaultBaseDir() string {
	// Check for environment variable first
	if envDir := os.Getenv(EnvHome); envDir != "" {
		return envDir
	}

	// Fallback to default location in user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get the home directory, use current directory
		return ".tablekit"
	}
	return filepath.Join(homeDir, ".tablekit")
}

// LoadConfig loads configuration from environment, then config.yaml, and validates it
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.LoadFile(filepath.Join(cfg.BaseDir, configFile)); err != nil {
		return nil, err
	}

	// Environment wins over the file
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// LoadFile merges a YAML config file into c. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.ReservedFieldNames != nil {
		c.ReservedFieldNames = fileCfg.ReservedFieldNames
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	c.BaseDir = absPath

	for _, w := range c.ReservedFieldNames {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("reserved field names cannot contain empty entries")
		}
	}

	return nil
}

// EnsureDirectories creates necessary directories if they don't exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.BaseDir,
		filepath.Join(c.BaseDir, "tables"),
		filepath.Join(c.BaseDir, "fields"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
