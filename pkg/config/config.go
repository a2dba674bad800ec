// Package config loads the optional weft.yaml or weft.toml project file
// and resolves defaults for everything it leaves out.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/weft/pkg/animation"
	"github.com/go-drift/weft/pkg/errors"
)

// FileNames lists the config files LoadOptional looks for, in order.
var FileNames = []string{"weft.yaml", "weft.yml", "weft.toml"}

// Config represents the weft project configuration.
type Config struct {
	App           AppConfig           `yaml:"app" toml:"app"`
	Window        WindowConfig        `yaml:"window" toml:"window"`
	Theme         ThemeConfig         `yaml:"theme" toml:"theme"`
	Log           LogConfig           `yaml:"log" toml:"log"`
	Animation     AnimationConfig     `yaml:"animation" toml:"animation"`
	Accessibility AccessibilityConfig `yaml:"accessibility" toml:"accessibility"`
	Binding       BindingConfig       `yaml:"binding" toml:"binding"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty" toml:"name"`
	ID   string `yaml:"id,omitempty" toml:"id"`
}

// WindowConfig sizes the root viewport.
type WindowConfig struct {
	Width  float64 `yaml:"width,omitempty" toml:"width"`
	Height float64 `yaml:"height,omitempty" toml:"height"`
	Scale  float64 `yaml:"scale,omitempty" toml:"scale"`
}

// ThemeConfig selects the stylesheets loaded at startup. Paths are
// relative to the config file.
type ThemeConfig struct {
	Mode        string   `yaml:"mode,omitempty" toml:"mode"`
	Stylesheets []string `yaml:"stylesheets,omitempty" toml:"stylesheets"`
}

// LogConfig configures the slog logger built by NewLogger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level"`
	Format string `yaml:"format,omitempty" toml:"format"`
}

// AnimationConfig holds the transition used when none is declared.
type AnimationConfig struct {
	DefaultDuration Duration `yaml:"default_duration,omitempty" toml:"default_duration"`
	DefaultEasing   string   `yaml:"default_easing,omitempty" toml:"default_easing"`
}

// AccessibilityConfig toggles accessibility sync.
type AccessibilityConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled"`
}

// BindingConfig tunes the binding engine.
type BindingConfig struct {
	MaxPasses int `yaml:"max_passes,omitempty" toml:"max_passes"`
}

// Duration is a time.Duration written as "150ms" in config files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default values.
const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultMaxPasses = 32
	DefaultDuration  = 200 * time.Millisecond
	DefaultEasing    = "ease-in-out"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// AccessibilityEnabled reports whether accessibility sync is on. It is on
// unless the file turns it off.
func (c *Config) AccessibilityEnabled() bool {
	return c.Accessibility.Enabled == nil || *c.Accessibility.Enabled
}

func (c *Config) applyDefaults() {
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	if c.Theme.Mode == "" {
		c.Theme.Mode = "light"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Animation.DefaultDuration <= 0 {
		c.Animation.DefaultDuration = Duration(DefaultDuration)
	}
	if c.Animation.DefaultEasing == "" {
		c.Animation.DefaultEasing = DefaultEasing
	}
	if c.Binding.MaxPasses <= 0 {
		c.Binding.MaxPasses = DefaultMaxPasses
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	var errs []error
	switch c.Theme.Mode {
	case "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("theme.mode must be light or dark (got %q)", c.Theme.Mode))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format))
	}
	if _, err := animation.ParseEasing(c.Animation.DefaultEasing); err != nil {
		errs = append(errs, fmt.Errorf("animation.default_easing: %w", err))
	}
	return stderrors.Join(errs...)
}

// Load reads the config file at path. The format follows the extension.
// Defaults are applied and the result is validated. Failures are
// *errors.WeftError values of kind errors.KindConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(path, fmt.Errorf("read config: %w", err))
	}
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, configError(path, fmt.Errorf("decode TOML: %w", err))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, configError(path, fmt.Errorf("decode YAML: %w", err))
		}
	default:
		return nil, configError(path, fmt.Errorf("unsupported config format %q", filepath.Ext(path)))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, configError(path, fmt.Errorf("validation failed: %w", err))
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// LoadOptional loads the first of FileNames found in dir, or returns the
// defaults when there is none.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

func (c *Config) resolvePaths(dir string) {
	for i, p := range c.Theme.Stylesheets {
		if !filepath.IsAbs(p) {
			c.Theme.Stylesheets[i] = filepath.Join(dir, p)
		}
	}
}

func configError(path string, err error) error {
	return &errors.WeftError{
		Op:        "config.Load",
		Kind:      errors.KindConfig,
		Err:       fmt.Errorf("%s: %w", path, err),
		Timestamp: time.Now(),
	}
}
