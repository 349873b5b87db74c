package playback

import (
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

// ModeChange is emitted when the active mode changes.
type ModeChange struct {
	Previous Mode
	Current  Mode
}

// RateChange is emitted when the playback rate changes.
type RateChange struct {
	Rate float64
}

// SeekReason tells why a seek was issued.
type SeekReason string

const (
	SeekManual    SeekReason = "manual"
	SeekCondensed SeekReason = "condensed"
	SeekRepeat    SeekReason = "repeat"
	SeekLoop      SeekReason = "loop"
)

// SeekChange is emitted when a seek is issued and again when it resolves.
//
// Emitted by:
//   - condensed mode when skipping a silent gap
//   - repeat mode when looping back to the start of a cue
//   - the standalone check when looping back to zero
//   - Seek for seeks requested by the caller
//
// Resolved is false for the issue event and true for the completion event.
// Err is set on the completion event of a failed seek.
type SeekChange struct {
	Position time.Duration
	Reason   SeekReason
	Resolved bool
	Elapsed  time.Duration
	Err      error
}

// PauseChange is emitted when playback is paused or resumed.
type PauseChange struct {
	Paused   bool
	Position time.Duration
}

// ShowingChange is emitted when the set of displayed cues changes. The cues
// have already gone through dual-track merging.
type ShowingChange struct {
	Time    time.Duration
	Showing []subtitle.Cue
}

// ErrorEvent is emitted when a media operation fails. Failures never stop
// the tick loop.
type ErrorEvent struct {
	Operation string // e.g., "seek", "pause"
	Err       error
}
