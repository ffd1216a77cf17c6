package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"ccviewer/internal/stats"
)

// Config is the ccviewer configuration file.
type Config struct {
	ClaudeDir    string                        `yaml:"claude_dir,omitempty"`    // projects root, default ~/.claude/projects
	HTTPBind     string                        `yaml:"http_bind,omitempty"`     // serve listen address
	HTTPTokens   []string                      `yaml:"http_tokens,omitempty"`   // bearer tokens; empty disables auth
	LogLevel     string                        `yaml:"log_level,omitempty"`     // zerolog level name
	Workers      int                           `yaml:"workers,omitempty"`       // concurrent file reads per report
	Timezone     string                        `yaml:"timezone,omitempty"`      // IANA name for day/hour bucketing, default local
	DefaultModel string                        `yaml:"default_model,omitempty"` // model unknown ids are priced as
	Pricing      map[string]stats.ModelPricing `yaml:"pricing,omitempty"`       // per-model overrides, keyed by id prefix
	Export       ExportConfig                  `yaml:"export,omitempty"`
}

// ExportConfig schedules periodic report snapshots while serving.
type ExportConfig struct {
	Schedule string `yaml:"schedule,omitempty"` // cron spec, empty disables
	Dir      string `yaml:"dir,omitempty"`
	Period   string `yaml:"period,omitempty"` // window selector
}

const (
	DefaultHTTPBind = "127.0.0.1:8787"
	DefaultLogLevel = "info"
	envConfigPath   = "CCVIEWER_CONFIG"
)

var ConfigPath string

func init() {
	if p := os.Getenv(envConfigPath); p != "" {
		ConfigPath = p
		return
	}
	homeDir, _ := os.UserHomeDir()
	ConfigPath = filepath.Join(homeDir, ".ccviewer", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		HTTPBind: DefaultHTTPBind,
		LogLevel: DefaultLogLevel,
		Export:   ExportConfig{Period: stats.DefaultWindow},
	}
}

// LoadConfig reads ConfigPath.
func LoadConfig() (*Config, error) {
	return LoadFrom(ConfigPath)
}

// LoadFrom reads a config file, filling unset fields with defaults. A missing
// file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = DefaultHTTPBind
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Export.Period == "" {
		cfg.Export.Period = stats.DefaultWindow
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := stats.ParseWindow(cfg.Export.Period); err != nil {
		return nil, fmt.Errorf("export period: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to ConfigPath.
func SaveConfig(cfg *Config) error {
	return SaveTo(ConfigPath, cfg)
}

// SaveTo writes cfg as YAML, creating the parent directory.
func SaveTo(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Location returns the bucketing time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// PricingResolver builds the pricing resolver with the configured overrides.
func (c *Config) PricingResolver() *stats.Pricing {
	return stats.NewPricing(c.Pricing, c.DefaultModel)
}
