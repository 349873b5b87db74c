// Package subtitle holds the cue model, the time-indexed cue collection and
// the subtitle file parsers.
package subtitle

import (
	"cmp"
	"time"
)

// Conventional track numbers.
const (
	TrackMaster = 0 // target-language track
	TrackSlave  = 1 // native-language track
)

// Cue is a timed subtitle entry.
type Cue struct {
	Start time.Duration
	End   time.Duration

	// OriginalStart and OriginalEnd are the timings before any offset.
	OriginalStart time.Duration
	OriginalEnd   time.Duration

	Track int
	Index int // stable identity within the track, independent of offset
	Text  string
}

// CueKey identifies a cue regardless of its current timing.
type CueKey struct {
	Track int
	Index int
}

// Key returns the cue identity.
func (c Cue) Key() CueKey {
	return CueKey{Track: c.Track, Index: c.Index}
}

// Duration returns End - Start.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// ShowingAt reports whether the cue is displayed at t (start inclusive, end
// exclusive).
func (c Cue) ShowingAt(t time.Duration) bool {
	return c.Start <= t && t < c.End
}

// Overlaps reports whether the cue intersects [start, end).
func (c Cue) Overlaps(start, end time.Duration) bool {
	return c.Start < end && start < c.End
}

// Shifted returns a copy of the cue moved offset away from its original
// timing.
func (c Cue) Shifted(offset time.Duration) Cue {
	c.Start = c.OriginalStart + offset
	c.End = c.OriginalEnd + offset
	return c
}

func compareCues(a, b Cue) int {
	return cmp.Or(
		cmp.Compare(a.Start, b.Start),
		cmp.Compare(a.Index, b.Index),
		cmp.Compare(a.Track, b.Track),
	)
}

// Slice is the result of querying a Collection at a point in time.
type Slice struct {
	Showing         []Cue
	NextToShow      []Cue
	StartedShowing  []Cue
	WillStopShowing []Cue
}

// Empty reports whether nothing is showing and nothing is upcoming.
func (s Slice) Empty() bool {
	return len(s.Showing) == 0 && len(s.NextToShow) == 0
}

// Next returns the first upcoming cue.
func (s Slice) Next() (Cue, bool) {
	if len(s.NextToShow) == 0 {
		return Cue{}, false
	}
	return s.NextToShow[0], true
}
