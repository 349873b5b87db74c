package subtitle

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// DefaultShowingCheckRadius is the window around cue boundaries in which a
// cue is reported as started or about to stop.
const DefaultShowingCheckRadius = 150 * time.Millisecond

// Collection indexes cues by start time and answers point-in-time queries.
// It is safe for concurrent use.
type Collection struct {
	mu sync.RWMutex

	cues        []Cue // sorted by compareCues
	maxDuration time.Duration
	end         time.Duration
	tracks      map[int]int // cue count per track
	disabled    map[int]bool
	radius      time.Duration
	generation  uint64
}

// NewCollection creates an empty collection using radius for transition
// detection. A non-positive radius selects DefaultShowingCheckRadius.
func NewCollection(radius time.Duration) *Collection {
	if radius <= 0 {
		radius = DefaultShowingCheckRadius
	}
	return &Collection{
		tracks:   map[int]int{},
		disabled: map[int]bool{},
		radius:   radius,
	}
}

// SetSubtitles replaces the indexed cues with a sorted copy of cues. Cues
// with Start > End are stored as zero-duration cues.
func (c *Collection) SetSubtitles(cues []Cue) {
	sorted := make([]Cue, len(cues))
	copy(sorted, cues)
	tracks := map[int]int{}
	var longest, end time.Duration
	for i := range sorted {
		if sorted[i].End < sorted[i].Start {
			sorted[i].End = sorted[i].Start
		}
		longest = max(longest, sorted[i].Duration())
		end = max(end, sorted[i].End)
		tracks[sorted[i].Track]++
	}
	slices.SortStableFunc(sorted, compareCues)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cues = sorted
	c.maxDuration = longest
	c.end = end
	c.tracks = tracks
	c.generation++
}

// SetTrackDisabled excludes or re-includes a track in query results.
func (c *Collection) SetTrackDisabled(track int, disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if disabled {
		c.disabled[track] = true
	} else {
		delete(c.disabled, track)
	}
	c.generation++
}

// TrackDisabled reports whether track is excluded from queries.
func (c *Collection) TrackDisabled(track int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled[track]
}

// Generation changes every time the cue set or the track selection changes.
func (c *Collection) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Len returns the number of indexed cues.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cues)
}

// HasTrack reports whether at least one cue belongs to track.
func (c *Collection) HasTrack(track int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracks[track] > 0
}

// Tracks returns the loaded track numbers in ascending order.
func (c *Collection) Tracks() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.tracks))
	for track := range c.tracks {
		out = append(out, track)
	}
	slices.Sort(out)
	return out
}

// Cues returns a copy of the sorted cues.
func (c *Collection) Cues() []Cue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.cues)
}

// End returns the latest cue end, or zero when empty.
func (c *Collection) End() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.end
}

// SubtitlesAt computes the slice at t. Negative t is treated as zero.
func (c *Collection) SubtitlesAt(t time.Duration) Slice {
	t = max(t, 0)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Slice
	if len(c.cues) == 0 {
		return s
	}

	// First cue starting strictly after t.
	upper := sort.Search(len(c.cues), func(i int) bool {
		return c.cues[i].Start > t
	})

	// Only cues starting within maxDuration before t can still be showing.
	for i := upper - 1; i >= 0; i-- {
		cue := c.cues[i]
		if t-cue.Start > c.maxDuration {
			break
		}
		if !cue.ShowingAt(t) || c.disabled[cue.Track] {
			continue
		}
		s.Showing = append(s.Showing, cue)
		if t-cue.Start <= c.radius {
			s.StartedShowing = append(s.StartedShowing, cue)
		}
		if cue.End-t <= c.radius {
			s.WillStopShowing = append(s.WillStopShowing, cue)
		}
	}
	slices.Reverse(s.Showing)
	slices.Reverse(s.StartedShowing)
	slices.Reverse(s.WillStopShowing)

	var nextStart time.Duration
	for i := upper; i < len(c.cues); i++ {
		cue := c.cues[i]
		if c.disabled[cue.Track] {
			continue
		}
		if len(s.NextToShow) > 0 && cue.Start != nextStart {
			break
		}
		nextStart = cue.Start
		s.NextToShow = append(s.NextToShow, cue)
	}
	return s
}

// Overlapping returns the cues of track intersecting [start, end), in start
// order. Disabled tracks yield nothing.
func (c *Collection) Overlapping(track int, start, end time.Duration) []Cue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disabled[track] || end <= start {
		return nil
	}

	upper := sort.Search(len(c.cues), func(i int) bool {
		return c.cues[i].Start >= end
	})
	var out []Cue
	for i := upper - 1; i >= 0; i-- {
		cue := c.cues[i]
		if start-cue.Start > c.maxDuration {
			break
		}
		if cue.Track == track && cue.Overlaps(start, end) {
			out = append(out, cue)
		}
	}
	slices.Reverse(out)
	return out
}

// NextOnTrack returns the first cue of track starting strictly after t.
// Disabled tracks yield nothing.
func (c *Collection) NextOnTrack(track int, t time.Duration) (Cue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disabled[track] {
		return Cue{}, false
	}
	upper := sort.Search(len(c.cues), func(i int) bool {
		return c.cues[i].Start > t
	})
	for _, cue := range c.cues[upper:] {
		if cue.Track == track {
			return cue, true
		}
	}
	return Cue{}, false
}

// PreviousStart returns the start of the latest cue starting strictly before
// t on an enabled track.
func (c *Collection) PreviousStart(t time.Duration) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lower := sort.Search(len(c.cues), func(i int) bool {
		return c.cues[i].Start >= t
	})
	for i := lower - 1; i >= 0; i-- {
		if !c.disabled[c.cues[i].Track] {
			return c.cues[i].Start, true
		}
	}
	return 0, false
}
