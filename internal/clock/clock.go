// Package clock provides the virtual playback clock that drives cue
// evaluation independently of the media element's own position.
package clock

import (
	"sync"
	"time"
)

// Clock is a rate-scaled logical time source.
//
// While running, logical time advances from an anchor:
//
//	time = anchorLogical + (now - anchorReal) * rate
//
// Every operation that changes rate or position rebases the anchor first, so
// changing the rate never makes logical time jump.
type Clock struct {
	mu sync.Mutex

	now func() time.Time

	anchorReal    time.Time
	anchorLogical time.Duration
	rate          float64
	running       bool
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the wall-clock source. Used by tests and by drivers that
// supply their own notion of real time.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New creates a stopped clock at position zero with rate 1.
func New(opts ...Option) *Clock {
	c := &Clock{
		now:  time.Now,
		rate: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.anchorReal = c.now()
	return c
}

// Start resumes time progression. No-op if already running.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.anchorReal = c.now()
	c.running = true
}

// Stop freezes logical time at its current value.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.anchorLogical = c.elapsedLocked()
	c.anchorReal = c.now()
	c.running = false
}

// SetTime moves logical time to t without changing the running state.
func (c *Clock) SetTime(t time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorLogical = max(t, 0)
	c.anchorReal = c.now()
}

// SetRate changes the progression rate. Non-positive rates are ignored.
func (c *Clock) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorLogical = c.elapsedLocked()
	c.anchorReal = c.now()
	c.rate = rate
}

// Rate returns the current progression rate.
func (c *Clock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Running reports whether logical time is advancing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Time returns logical time clamped to [0, length]. A non-positive length
// disables the upper bound.
func (c *Clock) Time(length time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clamp(c.elapsedLocked(), length)
}

// Progress returns Time(length)/length in [0, 1]. Returns 0 when length is
// unknown.
func (c *Clock) Progress(length time.Duration) float64 {
	if length <= 0 {
		return 0
	}
	return float64(c.Time(length)) / float64(length)
}

func (c *Clock) elapsedLocked() time.Duration {
	if !c.running {
		return c.anchorLogical
	}
	wall := c.now().Sub(c.anchorReal)
	return c.anchorLogical + time.Duration(float64(wall)*c.rate)
}

func clamp(t, length time.Duration) time.Duration {
	if t < 0 {
		return 0
	}
	if length > 0 && t > length {
		return length
	}
	return t
}
