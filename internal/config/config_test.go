//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/subs",
			expected: filepath.Join(home, "subs"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/cuesync.db",
			expected: "/var/lib/cuesync.db",
		},
		{
			name:     "relative path unchanged",
			input:    "logs/cuesync.log",
			expected: "logs/cuesync.log",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	// Last path should be local config.toml
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}

	if filepath.Base(paths[0]) != "config.toml" || filepath.Base(filepath.Dir(paths[0])) != appName {
		t.Errorf("first config path = %q, want .../%s/config.toml", paths[0], appName)
	}
}

func TestGetPlaybackConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	got := cfg.GetPlaybackConfig()

	want := PlaybackConfig{
		TickIntervalMs:        100,
		ShowingCheckRadiusMs:  150,
		CondensedMarginMs:     500,
		InitialSeekEstimateMs: 1000,
		SeekTimeoutMs:         5000,
		FastForwardRate:       2.7,
		AutoPause:             "end",
	}
	if got != want {
		t.Errorf("GetPlaybackConfig() = %+v, want %+v", got, want)
	}
}

func TestGetPlaybackConfig_CustomValues(t *testing.T) {
	cfg := &Config{Playback: PlaybackConfig{
		TickIntervalMs:        50,
		ShowingCheckRadiusMs:  200,
		CondensedMarginMs:     800,
		InitialSeekEstimateMs: 300,
		SeekTimeoutMs:         2000,
		FastForwardRate:       4,
		AutoPause:             "start",
	}}
	got := cfg.GetPlaybackConfig()
	if got != cfg.Playback {
		t.Errorf("GetPlaybackConfig() = %+v, want %+v", got, cfg.Playback)
	}
}

func TestGetPlaybackConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		input PlaybackConfig
		check func(t *testing.T, got PlaybackConfig)
	}{
		{
			name:  "negative tick interval",
			input: PlaybackConfig{TickIntervalMs: -5},
			check: func(t *testing.T, got PlaybackConfig) {
				if got.TickIntervalMs != 100 {
					t.Errorf("TickIntervalMs = %d, want 100", got.TickIntervalMs)
				}
			},
		},
		{
			name:  "fast forward rate not above 1",
			input: PlaybackConfig{FastForwardRate: 1},
			check: func(t *testing.T, got PlaybackConfig) {
				if got.FastForwardRate != 2.7 {
					t.Errorf("FastForwardRate = %v, want 2.7", got.FastForwardRate)
				}
			},
		},
		{
			name:  "unknown auto pause preference",
			input: PlaybackConfig{AutoPause: "middle"},
			check: func(t *testing.T, got PlaybackConfig) {
				if got.AutoPause != "end" {
					t.Errorf("AutoPause = %q, want %q", got.AutoPause, "end")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Playback: tt.input}
			tt.check(t, cfg.GetPlaybackConfig())
		})
	}
}

func TestPlaybackOptions(t *testing.T) {
	off := false
	cfg := &Config{
		Playback: PlaybackConfig{CondensedMarginMs: 750, AutoPause: "start"},
		Tracks:   TracksConfig{MergeDual: &off},
	}
	opts := cfg.PlaybackOptions()

	if opts.CondensedMargin != 750*time.Millisecond {
		t.Errorf("CondensedMargin = %v, want 750ms", opts.CondensedMargin)
	}
	if opts.TickInterval != 100*time.Millisecond {
		t.Errorf("TickInterval = %v, want 100ms", opts.TickInterval)
	}
	if opts.AutoPause != playback.AutoPauseAtStart {
		t.Errorf("AutoPause = %v, want start", opts.AutoPause)
	}
	if opts.MergeDualTracks {
		t.Error("MergeDualTracks = true, want false")
	}
	if cfg.ShowingCheckRadius() != 150*time.Millisecond {
		t.Errorf("ShowingCheckRadius() = %v, want 150ms", cfg.ShowingCheckRadius())
	}
}

func TestMergeDualTracks_DefaultOn(t *testing.T) {
	cfg := &Config{}
	if !cfg.MergeDualTracks() {
		t.Error("MergeDualTracks() = false, want true when unset")
	}
}

func TestStatePath_Configured(t *testing.T) {
	cfg := &Config{State: StateConfig{Path: "/tmp/cuesync-test.db"}}
	path, err := cfg.StatePath()
	if err != nil {
		t.Fatalf("StatePath() error = %v", err)
	}
	if path != "/tmp/cuesync-test.db" {
		t.Errorf("StatePath() = %q, want %q", path, "/tmp/cuesync-test.db")
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	return tmpDir
}

func TestLoad_EmptyConfig(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte(""), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	// Load should succeed even with empty config
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	chdirTemp(t)

	configContent := `
[playback]
condensed_margin_ms = 700
fast_forward_rate = 3.5
auto_pause = " Start "

[tracks]
merge_dual = false

[log]
level = "debug"
format = "json"
file = "~/cuesync.log"
`
	if err := os.WriteFile("config.toml", []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Playback.CondensedMarginMs != 700 {
		t.Errorf("CondensedMarginMs = %d, want 700", cfg.Playback.CondensedMarginMs)
	}
	if cfg.Playback.FastForwardRate != 3.5 {
		t.Errorf("FastForwardRate = %v, want 3.5", cfg.Playback.FastForwardRate)
	}
	if cfg.Playback.AutoPause != "start" {
		t.Errorf("AutoPause = %q, want %q", cfg.Playback.AutoPause, "start")
	}
	if cfg.MergeDualTracks() {
		t.Error("MergeDualTracks() = true, want false")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "cuesync.log"); cfg.Log.File != want {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, want)
	}
}

func TestLoad_ExplicitWins(t *testing.T) {
	dir := chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte("[playback]\nseek_timeout_ms = 1000\n"), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	explicit := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(explicit, []byte("[playback]\nseek_timeout_ms = 9000\n"), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Playback.SeekTimeoutMs != 9000 {
		t.Errorf("SeekTimeoutMs = %d, want 9000", cfg.Playback.SeekTimeoutMs)
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	chdirTemp(t)

	if _, err := Load("does-not-exist.toml"); err == nil {
		t.Error("Load() expected error for missing explicit config, got nil")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}
