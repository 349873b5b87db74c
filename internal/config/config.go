package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
)

const appName = "cuesync"

type Config struct {
	// Playback engine tuning
	Playback PlaybackConfig `koanf:"playback"`

	// Dual-track handling
	Tracks TracksConfig `koanf:"tracks"`

	Log LogConfig `koanf:"log"`

	// Per-media settings database
	State StateConfig `koanf:"state"`
}

// PlaybackConfig holds the playback engine settings. Durations are in
// milliseconds.
type PlaybackConfig struct {
	TickIntervalMs        int     `koanf:"tick_interval_ms"`         // default: 100
	ShowingCheckRadiusMs  int     `koanf:"showing_check_radius_ms"`  // default: 150
	CondensedMarginMs     int     `koanf:"condensed_margin_ms"`      // default: 500
	InitialSeekEstimateMs int     `koanf:"initial_seek_estimate_ms"` // default: 1000
	SeekTimeoutMs         int     `koanf:"seek_timeout_ms"`          // default: 5000
	FastForwardRate       float64 `koanf:"fast_forward_rate"`        // default: 2.7
	AutoPause             string  `koanf:"auto_pause"`               // "start" or "end" (default: "end")
}

// TracksConfig holds dual-track settings.
type TracksConfig struct {
	MergeDual *bool `koanf:"merge_dual"` // default: true
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error (default: info)
	Format string `koanf:"format"` // "console" or "json" (default: console)
	File   string `koanf:"file"`   // log to this file instead of stderr
}

// StateConfig holds the settings database location.
type StateConfig struct {
	Path string `koanf:"path"` // default: $XDG_DATA_HOME/cuesync/cuesync.db
}

// Load reads the config files in priority order. explicit, when non-empty,
// must exist and wins over the others.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		path := expandPath(explicit)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Playback.AutoPause = strings.ToLower(strings.TrimSpace(cfg.Playback.AutoPause))
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	if cfg.State.Path != "" {
		cfg.State.Path = expandPath(cfg.State.Path)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/cuesync/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	// Apply defaults
	if cfg.TickIntervalMs <= 0 {
		cfg.TickIntervalMs = 100
	}
	if cfg.ShowingCheckRadiusMs <= 0 {
		cfg.ShowingCheckRadiusMs = 150
	}
	if cfg.CondensedMarginMs <= 0 {
		cfg.CondensedMarginMs = 500
	}
	if cfg.InitialSeekEstimateMs <= 0 {
		cfg.InitialSeekEstimateMs = 1000
	}
	if cfg.SeekTimeoutMs <= 0 {
		cfg.SeekTimeoutMs = 5000
	}
	if cfg.FastForwardRate <= 1 {
		cfg.FastForwardRate = 2.7
	}
	// Unknown values fall back to "end"
	pref, _ := playback.ParseAutoPausePreference(cfg.AutoPause)
	cfg.AutoPause = pref.String()

	return cfg
}

// MergeDualTracks reports whether dual-track merging is on.
func (c *Config) MergeDualTracks() bool {
	return c.Tracks.MergeDual == nil || *c.Tracks.MergeDual
}

// PlaybackOptions converts the playback section to controller options.
func (c *Config) PlaybackOptions() playback.Options {
	cfg := c.GetPlaybackConfig()
	pref, _ := playback.ParseAutoPausePreference(cfg.AutoPause)
	return playback.Options{
		TickInterval:        ms(cfg.TickIntervalMs),
		CondensedMargin:     ms(cfg.CondensedMarginMs),
		InitialSeekEstimate: ms(cfg.InitialSeekEstimateMs),
		SeekTimeout:         ms(cfg.SeekTimeoutMs),
		FastForwardRate:     cfg.FastForwardRate,
		AutoPause:           pref,
		MergeDualTracks:     c.MergeDualTracks(),
	}
}

// ShowingCheckRadius returns the cue transition window.
func (c *Config) ShowingCheckRadius() time.Duration {
	return ms(c.GetPlaybackConfig().ShowingCheckRadiusMs)
}

// StatePath returns the settings database path, creating the default data
// directory when no path is configured.
func (c *Config) StatePath() (string, error) {
	if c.State.Path != "" {
		return c.State.Path, nil
	}
	path, err := xdg.DataFile(filepath.Join(appName, appName+".db"))
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}
	return path, nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
