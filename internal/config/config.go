// Package config provides configuration management for CircuitBuilder.
//
// Config file locations (priority order):
//  1. $CIRCUITBUILDER_CONFIG
//  2. ./circuitbuilder.yaml
//  3. ~/.config/circuitbuilder/config.yaml
//
// Command line flags override values loaded from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "CIRCUITBUILDER_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "circuitbuilder.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "circuitbuilder"

	// DefaultAddr is the listen address of the HTTP API.
	DefaultAddr = ":42389"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config is the root configuration structure
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Paths   PathsConfig  `yaml:"paths"`
	Store   StoreConfig  `yaml:"store"`
	KiCad   KiCadConfig  `yaml:"kicad"`
	Log     LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PathsConfig holds the data directories
type PathsConfig struct {
	Circuits   string `yaml:"circuits"`   // <circuits>/<id>/circuit.json and exported netlists
	Components string `yaml:"components"` // pin catalog root
	Assets     string `yaml:"assets"`     // per-circuit code folders
}

// StoreConfig selects the circuit store backend
type StoreConfig struct {
	Backend string `yaml:"backend"` // file or sqlite
	SQLite  string `yaml:"sqlite_path,omitempty"`
}

// KiCadConfig holds external tool locations
type KiCadConfig struct {
	Executable string `yaml:"executable,omitempty"` // empty = platform default
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development,omitempty"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns defaults rooted in the working directory
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Paths.Circuits == "" {
		c.Paths.Circuits = "./circuits"
	}
	if c.Paths.Components == "" {
		c.Paths.Components = "./components"
	}
	if c.Paths.Assets == "" {
		c.Paths.Assets = "./assets"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreFile
	}
	if c.Store.Backend == StoreSQLite && c.Store.SQLite == "" {
		c.Store.SQLite = filepath.Join(c.Paths.Circuits, "circuits.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

// FindConfigPath searches for a config file in priority order.
// Returns empty string if no config file is found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
