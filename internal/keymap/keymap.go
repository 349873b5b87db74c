package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "mode", "subtitles"
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionPrevCue, []string{"up", "k"}, "Previous cue", "playback"},
	{ActionNextCue, []string{"down", "j"}, "Next cue", "playback"},
	{ActionRestart, []string{"home", "0"}, "Back to start", "playback"},

	// Modes
	{ActionToggleAutoPause, []string{"a"}, "Auto-pause", "mode"},
	{ActionToggleCondensed, []string{"c"}, "Condensed", "mode"},
	{ActionToggleRepeat, []string{"r"}, "Repeat cue", "mode"},
	{ActionToggleFastForward, []string{"f"}, "Fast-forward", "mode"},

	// Subtitles
	{ActionOffsetEarlier, []string{"["}, "Offset -100ms", "subtitles"},
	{ActionOffsetLater, []string{"]"}, "Offset +100ms", "subtitles"},
	{ActionOffsetReset, []string{"="}, "Reset offset", "subtitles"},
	{ActionToggleNative, []string{"n"}, "Show/hide native track", "subtitles"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help adapts bindings to the bubbles help component.
type Help struct {
	short []key.Binding
	full  [][]key.Binding
}

var contextOrder = []string{"playback", "mode", "subtitles", "global"}

// NewHelp builds help from bindings. The short view lists one binding per
// context plus quit and help.
func NewHelp(bindings []Binding) Help {
	var h Help
	for _, ctx := range contextOrder {
		var column []key.Binding
		for _, b := range bindings {
			if b.Context == ctx {
				column = append(column, toKey(b))
			}
		}
		if len(column) > 0 {
			h.full = append(h.full, column)
		}
	}
	for _, b := range bindings {
		switch b.Action {
		case ActionPlayPause, ActionToggleCondensed, ActionOffsetLater, ActionHelp, ActionQuit:
			h.short = append(h.short, toKey(b))
		}
	}
	return h
}

func toKey(b Binding) key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(helpKey(b.Keys[0]), b.Description),
	)
}

func helpKey(k string) string {
	switch k {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	case "up":
		return "↑"
	case "down":
		return "↓"
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding { return h.short }

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding { return h.full }
