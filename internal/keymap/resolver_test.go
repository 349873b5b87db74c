//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestNewResolver(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionNextCue, []string{"j", "down"}, "Next cue", "playback"},
	}

	r := NewResolver(bindings)

	if r == nil {
		t.Fatal("NewResolver returned nil")
	}
	if r.actions == nil {
		t.Error("bindings map is nil")
	}
	if r.keys == nil {
		t.Error("byAction map is nil")
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(All)

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"left", ActionSeekBack},
		{"l", ActionSeekForward},
		{"up", ActionPrevCue},
		{"j", ActionNextCue},
		{"a", ActionToggleAutoPause},
		{"c", ActionToggleCondensed},
		{"r", ActionToggleRepeat},
		{"f", ActionToggleFastForward},
		{"[", ActionOffsetEarlier},
		{"]", ActionOffsetLater},
		{"n", ActionToggleNative},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if result := r.Resolve(tt.key); result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionQuit, []string{"q"}, "Quit", "other"},
		{ActionHelp, []string{"?"}, "Help", "global"},
	}

	r := NewResolver(bindings)

	if keys := r.KeysFor(ActionQuit); !slices.Equal(keys, []string{"q", "ctrl+c"}) {
		t.Errorf("KeysFor(quit) = %v, want [q ctrl+c]", keys)
	}
	if keys := r.KeysFor(ActionHelp); !slices.Equal(keys, []string{"?"}) {
		t.Errorf("KeysFor(help) = %v, want [?]", keys)
	}
	if keys := r.KeysFor(ActionRestart); len(keys) != 0 {
		t.Errorf("KeysFor(unbound) = %v, want empty", keys)
	}
}

func TestResolver_FirstBindingWins(t *testing.T) {
	bindings := []Binding{
		{ActionSeekBack, []string{"h", "left"}, "Seek back", "playback"},
		{ActionHelp, []string{"h"}, "Help", "global"},
		{ActionHelp, []string{"?"}, "Help", "global"},
	}

	r := NewResolver(bindings)

	if got := r.Resolve("h"); got != ActionSeekBack {
		t.Errorf("Resolve(h) = %q, want %q", got, ActionSeekBack)
	}
	conflicts := r.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("Conflicts() = %v, want one key", conflicts)
	}
	if got := conflicts["h"]; !slices.Equal(got, []Action{ActionSeekBack, ActionHelp}) {
		t.Errorf("Conflicts()[h] = %v, want [seek_back help]", got)
	}
	// The losing binding still lists the key for documentation.
	if keys := r.KeysFor(ActionHelp); !slices.Equal(keys, []string{"h", "?"}) {
		t.Errorf("KeysFor(help) = %v, want [h ?]", keys)
	}
}

func TestResolver_DefaultBindingsHaveNoConflicts(t *testing.T) {
	if conflicts := NewResolver(All).Conflicts(); len(conflicts) != 0 {
		t.Errorf("default bindings conflict: %v", conflicts)
	}
}
