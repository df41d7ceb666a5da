package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinscroll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultPreScroll, cfg.Animation.PreScroll)
	assert.Equal(t, DefaultTickRate, cfg.UI.TickRate)
	assert.True(t, cfg.UI.Mouse)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Empty(t, cfg.Log.File, "logging is opt-in")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
animation:
  pre_scroll: 100ms
  entry: 80ms
ui:
  tick_rate: 33ms
log:
  file: /tmp/pinscroll.log
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Duration(100*time.Millisecond), cfg.Animation.PreScroll)
	assert.Equal(t, Duration(80*time.Millisecond), cfg.Animation.Entry)
	assert.Equal(t, Duration(33*time.Millisecond), cfg.UI.TickRate)
	assert.Equal(t, "/tmp/pinscroll.log", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultSettle, cfg.Animation.Settle)
	assert.Equal(t, DefaultJump, cfg.Animation.Jump)
	assert.Equal(t, DefaultFallback, cfg.Animation.Fallback)
	assert.True(t, cfg.UI.Mouse)
}

func TestLoadExplicitMouseFalse(t *testing.T) {
	path := writeConfig(t, "ui:\n  mouse: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.UI.Mouse)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "animation: [not\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
animation:
  fallback: 50ms
  pre_scroll: 100ms
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative_entry", func(c *Config) { c.Animation.Entry = Duration(-time.Second) }, "must not be negative"},
		{"zero_fallback", func(c *Config) { c.Animation.Fallback = 0 }, "fallback must be positive"},
		{"fallback_below_prescroll", func(c *Config) {
			c.Animation.PreScroll = Duration(2 * time.Second)
			c.Animation.Fallback = Duration(time.Second)
		}, "must not be shorter"},
		{"tick_too_fast", func(c *Config) { c.UI.TickRate = Duration(100 * time.Microsecond) }, "tick_rate"},
		{"tick_too_slow", func(c *Config) { c.UI.TickRate = Duration(2 * time.Second) }, "tick_rate"},
		{"negative_epsilon", func(c *Config) { c.UI.Epsilon = -1 }, "epsilon"},
		{"bad_level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnchorConfig(t *testing.T) {
	cfg := Default()
	cfg.Animation.PreScroll = Duration(111 * time.Millisecond)
	cfg.UI.Epsilon = 2

	ac := cfg.AnchorConfig()
	assert.Equal(t, 111*time.Millisecond, ac.PreScroll)
	assert.Equal(t, cfg.Animation.Settle.Std(), ac.Settle)
	assert.Equal(t, cfg.Animation.Jump.Std(), ac.Jump)
	assert.Equal(t, cfg.Animation.Entry.Std(), ac.Entry)
	assert.Equal(t, cfg.Animation.Fallback.Std(), ac.Fallback)
	assert.Equal(t, 2, ac.Epsilon)
}
