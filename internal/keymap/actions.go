// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionSeekBack    Action = "seek_back"
	ActionSeekForward Action = "seek_forward"
	ActionPrevCue     Action = "prev_cue"
	ActionNextCue     Action = "next_cue"
	ActionRestart     Action = "restart"

	// Mode actions; pressing the active mode's key returns to normal
	ActionToggleAutoPause   Action = "toggle_auto_pause"
	ActionToggleCondensed   Action = "toggle_condensed"
	ActionToggleRepeat      Action = "toggle_repeat"
	ActionToggleFastForward Action = "toggle_fast_forward"

	// Subtitle actions
	ActionOffsetEarlier Action = "offset_earlier"
	ActionOffsetLater   Action = "offset_later"
	ActionOffsetReset   Action = "offset_reset"
	ActionToggleNative  Action = "toggle_native"
)
