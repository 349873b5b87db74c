// internal/playback/state.go
package playback

import (
	"fmt"
	"strings"
)

// Mode is the active playback behaviour. Modes are mutually exclusive.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAutoPause
	ModeCondensed
	ModeRepeat
	ModeFastForward
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeAutoPause:
		return "AutoPause"
	case ModeCondensed:
		return "Condensed"
	case ModeRepeat:
		return "Repeat"
	case ModeFastForward:
		return "FastForward"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= ModeNormal && m <= ModeFastForward
}

// ParseMode parses a mode name case-insensitively. Both "fastforward" and
// "fast-forward" style spellings are accepted.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for m := ModeNormal; m <= ModeFastForward; m++ {
		if strings.ToLower(m.String()) == key {
			return m, nil
		}
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// AutoPausePreference selects which cue boundary pauses playback in
// ModeAutoPause.
type AutoPausePreference int

const (
	AutoPauseAtEnd AutoPausePreference = iota
	AutoPauseAtStart
)

// String returns the preference name.
func (p AutoPausePreference) String() string {
	switch p {
	case AutoPauseAtStart:
		return "start"
	case AutoPauseAtEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseAutoPausePreference accepts "start"/"atStart" and "end"/"atEnd".
// Empty input selects AutoPauseAtEnd.
func ParseAutoPausePreference(s string) (AutoPausePreference, error) {
	switch strings.TrimPrefix(strings.ToLower(s), "at") {
	case "start":
		return AutoPauseAtStart, nil
	case "end", "":
		return AutoPauseAtEnd, nil
	default:
		return AutoPauseAtEnd, fmt.Errorf("invalid auto-pause preference %q", s)
	}
}
