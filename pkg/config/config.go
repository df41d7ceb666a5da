// Package config loads the pinscroll demo configuration from YAML,
// layering file overrides on top of defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/pinscroll/pkg/ui/anchor"
)

// Default values exported for documentation and validation.
const (
	DefaultPreScroll = Duration(260 * time.Millisecond)
	DefaultSettle    = Duration(320 * time.Millisecond)
	DefaultJump      = Duration(520 * time.Millisecond)
	DefaultEntry     = Duration(200 * time.Millisecond)
	DefaultFallback  = Duration(1200 * time.Millisecond)
	DefaultTickRate  = Duration(16 * time.Millisecond)
	DefaultLogLevel  = "info"
)

// Duration wraps time.Duration so YAML values like "250ms" parse.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML parses durations in time.ParseDuration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"250ms\"")
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders durations in the same syntax they parse from.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Config is the complete pinscroll configuration.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	UI        UIConfig        `yaml:"ui"`
	Log       LogConfig       `yaml:"log"`
}

// AnimationConfig holds the coordinator and entry timings.
type AnimationConfig struct {
	PreScroll Duration `yaml:"pre_scroll"` // batch-opening scroll
	Settle    Duration `yaml:"settle"`     // post-batch drift correction
	Jump      Duration `yaml:"jump"`       // jump-control scroll
	Entry     Duration `yaml:"entry"`      // per-entry height expansion
	Fallback  Duration `yaml:"fallback"`   // stalled-batch force close
}

// UIConfig holds runtime settings.
type UIConfig struct {
	TickRate Duration `yaml:"tick_rate"` // frame interval
	Epsilon  int      `yaml:"epsilon"`   // near-bottom threshold, rows
	Mouse    bool     `yaml:"mouse"`     // enable mouse reporting
}

// LogConfig controls demo logging. A TUI owns the terminal, so logs go
// to a file; an empty path disables logging.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			PreScroll: DefaultPreScroll,
			Settle:    DefaultSettle,
			Jump:      DefaultJump,
			Entry:     DefaultEntry,
			Fallback:  DefaultFallback,
		},
		UI: UIConfig{
			TickRate: DefaultTickRate,
			Epsilon:  0,
			Mouse:    true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads a YAML file and merges it over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var override Config
	// Booleans have no "unset" zero value; seed them so an absent key
	// keeps the default while an explicit false still lands.
	override.UI.Mouse = cfg.UI.Mouse
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	merge(cfg, &override)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays non-zero override fields onto base.
func merge(base, override *Config) {
	if override.Animation.PreScroll != 0 {
		base.Animation.PreScroll = override.Animation.PreScroll
	}
	if override.Animation.Settle != 0 {
		base.Animation.Settle = override.Animation.Settle
	}
	if override.Animation.Jump != 0 {
		base.Animation.Jump = override.Animation.Jump
	}
	if override.Animation.Entry != 0 {
		base.Animation.Entry = override.Animation.Entry
	}
	if override.Animation.Fallback != 0 {
		base.Animation.Fallback = override.Animation.Fallback
	}
	if override.UI.TickRate != 0 {
		base.UI.TickRate = override.UI.TickRate
	}
	if override.UI.Epsilon != 0 {
		base.UI.Epsilon = override.UI.Epsilon
	}
	base.UI.Mouse = override.UI.Mouse
	if override.Log.File != "" {
		base.Log.File = override.Log.File
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	for name, d := range map[string]Duration{
		"animation.pre_scroll": c.Animation.PreScroll,
		"animation.settle":     c.Animation.Settle,
		"animation.jump":       c.Animation.Jump,
		"animation.entry":      c.Animation.Entry,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Animation.Fallback <= 0 {
		return fmt.Errorf("animation.fallback must be positive")
	}
	if c.Animation.Fallback < c.Animation.PreScroll {
		return fmt.Errorf("animation.fallback must not be shorter than animation.pre_scroll")
	}
	if c.UI.TickRate.Std() < time.Millisecond || c.UI.TickRate.Std() > time.Second {
		return fmt.Errorf("ui.tick_rate must be between 1ms and 1s")
	}
	if c.UI.Epsilon < 0 {
		return fmt.Errorf("ui.epsilon must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// AnchorConfig converts the animation settings into the coordinator's
// config.
func (c *Config) AnchorConfig() anchor.Config {
	return anchor.Config{
		PreScroll: c.Animation.PreScroll.Std(),
		Settle:    c.Animation.Settle.Std(),
		Jump:      c.Animation.Jump.Std(),
		Entry:     c.Animation.Entry.Std(),
		Fallback:  c.Animation.Fallback.Std(),
		Epsilon:   c.UI.Epsilon,
	}
}
