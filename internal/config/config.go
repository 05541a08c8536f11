// Package config provides configuration management for the editor server.
//
// Config file locations (priority order):
//  1. $ASPECTSTUDIO_CONFIG
//  2. ./aspectstudio.yaml
//  3. ~/.config/aspectstudio/config.yaml
//  4. /etc/aspectstudio/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Editor    EditorConfig    `yaml:"editor"`
	Validator ValidatorConfig `yaml:"validator"`
}

// ServerConfig holds the HTTP listen settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WorkspaceConfig points at the directory of namespace model files
type WorkspaceConfig struct {
	Dir string `yaml:"dir"`
	// WatchExt is the file extension the workspace watcher reacts to
	WatchExt string `yaml:"watch_ext"`
}

// EditorConfig holds diagram defaults
type EditorConfig struct {
	// Layout is the startup layout strategy, hierarchical or compact-tree
	Layout string `yaml:"layout"`
	// Collapsed starts the diagram in collapsed display mode
	Collapsed bool `yaml:"collapsed"`
	// Namespace and NamespaceVersion seed the URNs of new elements
	Namespace        string `yaml:"namespace"`
	NamespaceVersion string `yaml:"namespace_version"`
}

// ValidatorConfig points at the external validation service
type ValidatorConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
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

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./aspectstudio.db"
	}
	if c.Workspace.WatchExt == "" {
		c.Workspace.WatchExt = ".ttl"
	}
	if c.Editor.Layout == "" {
		c.Editor.Layout = "hierarchical"
	}
	if c.Editor.Namespace == "" {
		c.Editor.Namespace = "org.eclipse.examples"
	}
	if c.Editor.NamespaceVersion == "" {
		c.Editor.NamespaceVersion = "1.0.0"
	}
}

// Validate checks the loaded values for mistakes a typo would cause
func (c *Config) Validate() error {
	switch c.Editor.Layout {
	case "hierarchical", "compact-tree":
	default:
		return fmt.Errorf("unknown layout strategy %q", c.Editor.Layout)
	}
	if c.Workspace.Dir != "" {
		info, err := os.Stat(c.Workspace.Dir)
		if err != nil {
			return fmt.Errorf("workspace dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("workspace dir %s is not a directory", c.Workspace.Dir)
		}
	}
	return nil
}
