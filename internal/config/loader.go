package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by the CLI for flag defaults.
const (
	EnvConfig   = "PNTOOLS_CONFIG"
	EnvLogLevel = "PNTOOLS_LOG_LEVEL"
)

// Group is a named set of file patterns managed by the file manager.
type Group struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Patterns []string `json:"patterns" yaml:"patterns" toml:"patterns"`
	Include  []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude  []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

// CORS controls the cross-origin middleware of the introspection API.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins,omitempty" yaml:"origins,omitempty" toml:"origins,omitempty"`
}

// Config holds runtime parameters for the CLI and the introspection API.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	LogLevel      string  `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat     string  `json:"log_format" yaml:"log_format" toml:"log_format"`
	Addr          string  `json:"addr" yaml:"addr" toml:"addr"`
	Namespace     string  `json:"namespace" yaml:"namespace" toml:"namespace"`
	BaseDir       string  `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	Units         string  `json:"units" yaml:"units" toml:"units"`
	ExcludeHidden *bool   `json:"exclude_hidden,omitempty" yaml:"exclude_hidden,omitempty" toml:"exclude_hidden,omitempty"`
	Groups        []Group `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	CORS          CORS    `json:"cors" yaml:"cors" toml:"cors"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{}.WithDefaults()
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Namespace == "" {
		c.Namespace = "default"
	}
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Units == "" {
		c.Units = "MB"
	}
	if c.ExcludeHidden == nil {
		t := true
		c.ExcludeHidden = &t
	}
	return c
}

// HideHidden reports whether hidden and lock files are skipped when finding files.
func (c Config) HideHidden() bool { return c.ExcludeHidden == nil || *c.ExcludeHidden }

// Validate reports structural problems that decoding cannot catch.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d]: empty name", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("groups[%d]: duplicate group %q", i, g.Name)
		}
		seen[g.Name] = true
		if len(g.Patterns) == 0 {
			return fmt.Errorf("group %q: no patterns", g.Name)
		}
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
