package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wombat6/stacktrack/internal/window"
)

// FileName is the default config file name.
const FileName = "stacktrack.yaml"

// EnvPath overrides the config file path when set.
const EnvPath = "STACKTRACK_CONFIG"

// Config represents the top-level stacktrack.yaml configuration.
type Config struct {
	User     string         `yaml:"user"`
	Chart    ChartConfig    `yaml:"chart"`
	Settings SettingsConfig `yaml:"settings"`
	Wallets  WalletsConfig  `yaml:"wallets"`
}

// ChartConfig controls window resolution and aggregation.
type ChartConfig struct {
	DefaultSpan string `yaml:"default_span"`
	MarkFuture  bool   `yaml:"mark_future"`
	Location    string `yaml:"location"` // IANA zone name, "Local" or "UTC"
}

// SettingsConfig locates the per-user settings store.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// WalletsConfig locates exported transaction lists.
type WalletsConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a stacktrack.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		User: "admin",
		Chart: ChartConfig{
			DefaultSpan: window.Span1Y,
			MarkFuture:  true,
			Location:    "Local",
		},
		Settings: SettingsConfig{
			Path: "settings.yaml",
		},
		Wallets: WalletsConfig{
			Dir: "wallets",
		},
	}
}

// Validate checks the values Load cannot catch while parsing.
func (c *Config) Validate() error {
	if _, err := window.Resolve(c.Chart.DefaultSpan, time.Now(), nil); err != nil {
		return fmt.Errorf("chart.default_span: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	return nil
}

// Location returns the time zone charts are bucketed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Chart.Location)
	if err != nil {
		return nil, fmt.Errorf("chart.location %q: %w", c.Chart.Location, err)
	}
	return loc, nil
}
