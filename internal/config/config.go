// Package config loads learnhub configuration from <data-dir>/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all learnhub configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Storage locations
	Storage StorageConfig `yaml:"storage"`

	// Content catalog
	Catalog CatalogConfig `yaml:"catalog"`

	// Viewer defaults (seed values for the settings store on first run)
	Viewer ViewerConfig `yaml:"viewer"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures where learning state is persisted.
type StorageConfig struct {
	// DataDir holds the state database, logs, and config. Defaults to ~/.learnhub.
	DataDir string `yaml:"data_dir"`

	// DatabaseFile is the SQLite file name inside DataDir.
	DatabaseFile string `yaml:"database_file"`
}

// CatalogConfig configures the content catalog.
type CatalogConfig struct {
	// ContentDir is the directory scanned for markdown units.
	ContentDir string `yaml:"content_dir"`

	// Watch enables rescanning when content files change.
	Watch bool `yaml:"watch"`
}

// ViewerConfig seeds display preferences on first run.
type ViewerConfig struct {
	Theme       string `yaml:"theme"`
	FontSize    string `yaml:"font_size"`
	FontFamily  string `yaml:"font_family"`
	LineSpacing string `yaml:"line_spacing"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultDataDir returns ~/.learnhub, falling back to a relative
// .learnhub when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".learnhub"
	}
	return filepath.Join(home, ".learnhub")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "learnhub",
		Version: "1.0",

		Storage: StorageConfig{
			DataDir:      DefaultDataDir(),
			DatabaseFile: "learnhub.db",
		},

		Catalog: CatalogConfig{
			ContentDir: "content",
			Watch:      true,
		},

		Viewer: ViewerConfig{
			Theme:       "light",
			FontSize:    "medium",
			FontFamily:  "sans",
			LineSpacing: "normal",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDefault loads configuration from <default-data-dir>/config.yaml.
func LoadDefault() (*Config, error) {
	return Load(filepath.Join(DefaultDataDir(), "config.yaml"))
}

// Save writes the configuration back to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("LEARNHUB_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}
	if dir := os.Getenv("LEARNHUB_CONTENT_DIR"); dir != "" {
		c.Catalog.ContentDir = dir
	}
	if v := os.Getenv("LEARNHUB_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// DatabasePath returns the absolute path of the state database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.DatabaseFile)
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir not configured")
	}
	if c.Storage.DatabaseFile == "" {
		return fmt.Errorf("storage.database_file not configured")
	}
	return nil
}
