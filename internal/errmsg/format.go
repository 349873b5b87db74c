// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Subtitle operations
	OpSubtitleLoad  Op = "load subtitles"
	OpSubtitleParse Op = "parse subtitles"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "pause playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackRate  Op = "change playback rate"
	OpModeToggle    Op = "switch playback mode"
	OpCueNavigate   Op = "jump to cue"

	// Settings
	OpStateLoad    Op = "load saved settings"
	OpStateSave    Op = "save settings"
	OpHistoryLoad  Op = "load history"
	OpConfigLoad   Op = "load configuration"
	OpLoggingSetup Op = "set up logging"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
