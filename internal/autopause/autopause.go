// Package autopause turns per-tick cue transitions into at-most-once
// notifications.
package autopause

import (
	"sync"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

// Handlers receives transition notifications. Either field may be nil.
type Handlers struct {
	OnStartedShowing  func(subtitle.Cue)
	OnWillStopShowing func(subtitle.Cue)
}

// Context remembers which cues were already notified so that a cue lingering
// in a transition window across several ticks is reported once.
type Context struct {
	mu sync.Mutex

	started map[subtitle.CueKey]struct{}
	stopped map[subtitle.CueKey]struct{}

	subs   map[int]Handlers
	nextID int
}

// New creates an empty context.
func New() *Context {
	return &Context{
		started: map[subtitle.CueKey]struct{}{},
		stopped: map[subtitle.CueKey]struct{}{},
		subs:    map[int]Handlers{},
	}
}

// Subscribe registers h and returns a function that removes it.
func (c *Context) Subscribe(h Handlers) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = h
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Dispatch notifies handlers about cues entering the started or will-stop
// windows of s for the first time since the last Clear. Handlers run on the
// caller's goroutine after the internal lock is released.
func (c *Context) Dispatch(s subtitle.Slice) {
	c.mu.Lock()
	started := collectNew(c.started, s.StartedShowing)
	stopping := collectNew(c.stopped, s.WillStopShowing)
	handlers := make([]Handlers, 0, len(c.subs))
	for id := range c.nextID {
		if h, ok := c.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	for _, cue := range started {
		for _, h := range handlers {
			if h.OnStartedShowing != nil {
				h.OnStartedShowing(cue)
			}
		}
	}
	for _, cue := range stopping {
		for _, h := range handlers {
			if h.OnWillStopShowing != nil {
				h.OnWillStopShowing(cue)
			}
		}
	}
}

// Clear forgets every notification. Called after seeks, offset changes,
// track switches and cue-set replacement.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.started)
	clear(c.stopped)
}

func collectNew(seen map[subtitle.CueKey]struct{}, cues []subtitle.Cue) []subtitle.Cue {
	var fresh []subtitle.Cue
	for _, cue := range cues {
		if _, ok := seen[cue.Key()]; ok {
			continue
		}
		seen[cue.Key()] = struct{}{}
		fresh = append(fresh, cue)
	}
	return fresh
}
