// Package app contains the application model and messages for the TUI.
package app

import (
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
)

// TickMsg is sent periodically to refresh the clock and progress bar.
type TickMsg time.Time

// ModeChangedMsg wraps a session mode change.
type ModeChangedMsg playback.ModeChange

// ShowingChangedMsg wraps a change of the displayed cues.
type ShowingChangedMsg playback.ShowingChange

// SeekChangedMsg wraps a seek issue or completion.
type SeekChangedMsg playback.SeekChange

// SessionErrorMsg wraps a media operation failure.
type SessionErrorMsg playback.ErrorEvent

// SessionEventMsg carries events the view does not react to individually.
type SessionEventMsg struct{}

// SessionClosedMsg is sent when the session's subscription closes.
type SessionClosedMsg struct{}

// ClearStatusMsg clears the status line if it still shows the status with
// the same version.
type ClearStatusMsg struct {
	Version int
}
