package playback

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/autopause"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/clock"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/dualtrack"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/media"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

const (
	// fastForwardMinGap is the silence length that triggers fast-forward.
	fastForwardMinGap = time.Second

	// standaloneCheckInterval spaces out the loop-to-start check.
	standaloneCheckInterval = time.Second
)

// Options tunes the controller. Zero durations and rates take the
// DefaultOptions value. MergeDualTracks has no default: the zero Options
// leaves merging off, so start from DefaultOptions to keep it on.
type Options struct {
	TickInterval        time.Duration
	CondensedMargin     time.Duration
	InitialSeekEstimate time.Duration
	SeekTimeout         time.Duration
	FastForwardRate     float64
	AutoPause           AutoPausePreference
	MergeDualTracks     bool
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		TickInterval:        100 * time.Millisecond,
		CondensedMargin:     500 * time.Millisecond,
		InitialSeekEstimate: time.Second,
		SeekTimeout:         5 * time.Second,
		FastForwardRate:     2.7,
		AutoPause:           AutoPauseAtEnd,
		MergeDualTracks:     true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.CondensedMargin <= 0 {
		o.CondensedMargin = d.CondensedMargin
	}
	if o.InitialSeekEstimate <= 0 {
		o.InitialSeekEstimate = d.InitialSeekEstimate
	}
	if o.SeekTimeout <= 0 {
		o.SeekTimeout = d.SeekTimeout
	}
	if o.FastForwardRate <= 0 {
		o.FastForwardRate = d.FastForwardRate
	}
	return o
}

// Deps are the collaborators a controller drives. Element may be nil, in
// which case playback is standalone (clock only).
type Deps struct {
	Clock     *clock.Clock
	Subtitles *subtitle.Collection
	AutoPause *autopause.Context
	Element   media.Element
	Logger    *slog.Logger
}

// seekState is the in-flight seek guard. A zero value means no seek is
// pending.
type seekState struct {
	inFlight   bool
	target     time.Duration
	reason     SeekReason
	mode       Mode
	generation uint64
	issued     time.Time
	resume     bool // restart the clock once the seek resolves
}

type transitionKind int

const (
	transitionStarted transitionKind = iota
	transitionWillStop
)

type transition struct {
	kind transitionKind
	cue  subtitle.Cue
}

// Controller is the tick-driven playback state machine.
//
// Each Tick runs, in order: slice computation at the clock's time, transition
// dispatch through the auto-pause context, the active mode's action, and
// dual-track merging of the showing set. Ticks never overlap. Seeks run on
// their own goroutine and block further ticks until they resolve.
type Controller struct {
	mu sync.Mutex

	opts      Options
	log       *slog.Logger
	clock     *clock.Clock
	subs      *subtitle.Collection
	autoPause *autopause.Context
	merger    dualtrack.Merger
	element   media.Element
	length    time.Duration

	mode         Mode
	expectedSeek time.Duration
	seek         seekState
	pending      []transition
	lastCheck    time.Time
	lastShowing  []subtitle.Cue
	published    bool

	unsubscribe func()
	stopTimer   func()
	attachID    int
	closed      bool

	listeners []*Subscription
}

// New creates a controller in ModeNormal.
func New(deps Deps, opts Options) *Controller {
	opts = opts.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		opts:         opts,
		log:          logger.With("component", "playback"),
		clock:        deps.Clock,
		subs:         deps.Subtitles,
		autoPause:    deps.AutoPause,
		merger:       dualtrack.New(),
		element:      deps.Element,
		expectedSeek: opts.InitialSeekEstimate,
	}
	if c.element == nil {
		c.element = media.Standalone{}
	}
	c.unsubscribe = c.autoPause.Subscribe(autopause.Handlers{
		OnStartedShowing: func(cue subtitle.Cue) {
			c.pending = append(c.pending, transition{kind: transitionStarted, cue: cue})
		},
		OnWillStopShowing: func(cue subtitle.Cue) {
			c.pending = append(c.pending, transition{kind: transitionWillStop, cue: cue})
		},
	})
	return c
}

// Options returns the effective tuning.
func (c *Controller) Options() Options {
	return c.opts
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Toggle activates m, or returns to ModeNormal when m is already active.
// It returns the resulting mode.
func (c *Controller) Toggle(ctx context.Context, m Mode) (Mode, error) {
	if !m.Valid() {
		return c.Mode(), ErrInvalidMode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.mode, ErrClosed
	}
	next := m
	if m == c.mode {
		next = ModeNormal
	}
	c.setModeLocked(ctx, next)
	return next, nil
}

// SetMode activates m unconditionally.
func (c *Controller) SetMode(ctx context.Context, m Mode) error {
	if !m.Valid() {
		return ErrInvalidMode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.setModeLocked(ctx, m)
	return nil
}

func (c *Controller) setModeLocked(ctx context.Context, m Mode) {
	prev := c.mode
	if prev == m {
		return
	}
	c.mode = m
	if prev == ModeFastForward {
		c.setRateLocked(ctx, 1)
	}
	c.log.Info("mode changed", "from", prev, "to", m)
	c.publish(func(s *Subscription) { s.sendMode(ModeChange{Previous: prev, Current: m}) })
}

// BindElement attaches the media element. A nil element switches to
// standalone playback.
func (c *Controller) BindElement(e media.Element) {
	if e == nil {
		e = media.Standalone{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.element = e
}

// Standalone reports whether no media element is bound.
func (c *Controller) Standalone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return media.IsStandalone(c.element)
}

// MediaReady applies the element's readiness signal.
func (c *Controller) MediaReady(st media.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.length = st.Duration
	if st.Rate > 0 {
		c.clock.SetRate(st.Rate)
	}
	switch {
	case c.seek.inFlight:
		c.seek.resume = !st.Paused
	case st.Paused:
		c.clock.Stop()
	default:
		c.clock.Start()
	}
}

// SetLength sets the content length used to clamp the clock. Zero means the
// end of the last cue.
func (c *Controller) SetLength(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.length = d
}

// Length returns the effective content length.
func (c *Controller) Length() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lengthLocked()
}

func (c *Controller) lengthLocked() time.Duration {
	if c.length > 0 {
		return c.length
	}
	return c.subs.End()
}

// Time returns the clamped logical time.
func (c *Controller) Time() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Time(c.lengthLocked())
}

// Progress returns the playback progress in [0, 1].
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Progress(c.lengthLocked())
}

// ExpectedSeekTime returns the latest measured seek duration.
func (c *Controller) ExpectedSeekTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expectedSeek
}

// Seeking reports whether a seek is in flight.
func (c *Controller) Seeking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seek.inFlight
}

// Invalidate forgets transition bookkeeping and the last published showing
// set. Call after replacing cues, applying an offset or switching tracks.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoPause.Clear()
	c.pending = c.pending[:0]
	c.lastShowing = nil
	c.published = false
}

// Play starts playback. When a seek is in flight the clock restarts once it
// resolves.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.seek.inFlight {
		c.seek.resume = true
	} else {
		c.clock.Start()
	}
	if err := c.element.Play(ctx); err != nil {
		c.reportLocked("play", err)
		return err
	}
	c.publish(func(s *Subscription) {
		s.sendPause(PauseChange{Paused: false, Position: c.clock.Time(c.lengthLocked())})
	})
	return nil
}

// Pause stops playback.
func (c *Controller) Pause(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.pauseLocked(ctx)
}

func (c *Controller) pauseLocked(ctx context.Context) error {
	c.clock.Stop()
	c.seek.resume = false
	if err := c.element.Pause(ctx); err != nil {
		c.reportLocked("pause", err)
		return err
	}
	c.publish(func(s *Subscription) {
		s.sendPause(PauseChange{Paused: true, Position: c.clock.Time(c.lengthLocked())})
	})
	return nil
}

// Seek requests a seek to target. It returns false when another seek is
// still in flight; the request is then dropped, not queued.
func (c *Controller) Seek(target time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestSeekLocked(target, SeekManual)
}

func (c *Controller) requestSeekLocked(target time.Duration, reason SeekReason) bool {
	if c.closed {
		return false
	}
	if c.seek.inFlight {
		c.log.Debug("seek dropped, another seek in flight",
			"target", target, "reason", reason, "pending", c.seek.target)
		return false
	}
	target = max(target, 0)
	if length := c.lengthLocked(); length > 0 {
		target = min(target, length)
	}

	resume := c.clock.Running()
	c.clock.Stop()
	c.clock.SetTime(target)
	c.autoPause.Clear()
	c.pending = c.pending[:0]

	st := seekState{
		inFlight:   true,
		target:     target,
		reason:     reason,
		mode:       c.mode,
		generation: c.subs.Generation(),
		issued:     time.Now(),
		resume:     resume,
	}
	c.seek = st
	c.log.Debug("seek issued", "target", target, "reason", reason)
	c.publish(func(s *Subscription) { s.sendSeek(SeekChange{Position: target, Reason: reason}) })

	go c.runSeek(c.element, st)
	return true
}

// runSeek waits for the element at most SeekTimeout. An element that ignores
// its context is abandoned; its late result lands in the buffered channel
// and is dropped.
func (c *Controller) runSeek(e media.Element, st seekState) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.SeekTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.Seek(ctx, st.target) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	c.finishSeek(st, time.Since(st.issued), err)
}

// finishSeek releases the guard and restarts the clock. The seek estimate is
// only updated when the mode and cue generation still match the ones the
// seek was issued under.
func (c *Controller) finishSeek(st seekState, elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resume := c.seek.resume
	c.seek = seekState{}
	if c.closed {
		return
	}

	stale := st.mode != c.mode || st.generation != c.subs.Generation()
	switch {
	case err != nil:
		c.log.Warn("seek failed", "target", st.target, "reason", st.reason, "error", err)
		c.reportLocked("seek", err)
	case stale:
		c.log.Debug("stale seek result ignored", "target", st.target, "reason", st.reason)
	case st.reason == SeekCondensed:
		c.expectedSeek = elapsed
	}

	if resume {
		c.clock.Start()
	}
	c.publish(func(s *Subscription) {
		s.sendSeek(SeekChange{
			Position: st.target,
			Reason:   st.reason,
			Resolved: true,
			Elapsed:  elapsed,
			Err:      err,
		})
	})
}

// Tick evaluates the current time once. It is a no-op while a seek is in
// flight.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.seek.inFlight {
		return
	}

	c.checkStandaloneLocked(ctx)
	if c.seek.inFlight {
		return
	}

	if c.subs.Len() == 0 {
		c.publishShowingLocked(0, nil)
		return
	}

	t := c.clock.Time(c.lengthLocked())
	slice := c.subs.SubtitlesAt(t)

	if c.clock.Running() {
		c.autoPause.Dispatch(slice)
		c.handleTransitionsLocked(ctx)
		if !c.seek.inFlight {
			switch c.mode {
			case ModeCondensed:
				c.condenseLocked(t, slice)
			case ModeFastForward:
				c.fastForwardLocked(ctx, t, slice)
			case ModeNormal, ModeAutoPause, ModeRepeat:
			}
		}
	}

	showing := slice.Showing
	if c.opts.MergeDualTracks {
		showing = c.merger.Merge(c.subs, showing)
	}
	c.publishShowingLocked(t, showing)
}

// checkStandaloneLocked loops back to the start when clock-only playback
// runs past the end.
func (c *Controller) checkStandaloneLocked(ctx context.Context) {
	if !media.IsStandalone(c.element) {
		return
	}
	now := time.Now()
	if !c.lastCheck.IsZero() && now.Sub(c.lastCheck) < standaloneCheckInterval {
		return
	}
	c.lastCheck = now

	length := c.lengthLocked()
	if !c.clock.Running() || length <= 0 || c.clock.Progress(length) < 1 {
		return
	}
	c.log.Debug("reached end in standalone playback, looping to start")
	_ = c.pauseLocked(ctx)
	c.requestSeekLocked(0, SeekLoop)
}

func (c *Controller) primaryTrackLocked() int {
	if c.subs.HasTrack(subtitle.TrackMaster) {
		return subtitle.TrackMaster
	}
	if tracks := c.subs.Tracks(); len(tracks) > 0 {
		return tracks[0]
	}
	return subtitle.TrackMaster
}

func (c *Controller) handleTransitionsLocked(ctx context.Context) {
	if len(c.pending) == 0 {
		return
	}
	primary := c.primaryTrackLocked()
	pending := c.pending
	c.pending = nil

	for _, tr := range pending {
		if tr.cue.Track != primary {
			continue
		}
		switch c.mode {
		case ModeAutoPause:
			if (tr.kind == transitionStarted && c.opts.AutoPause == AutoPauseAtStart) ||
				(tr.kind == transitionWillStop && c.opts.AutoPause == AutoPauseAtEnd) {
				c.log.Debug("auto-pausing", "cue", tr.cue.Index, "preference", c.opts.AutoPause)
				_ = c.pauseLocked(ctx)
				return
			}
		case ModeRepeat:
			if tr.kind == transitionWillStop {
				c.requestSeekLocked(tr.cue.Start, SeekRepeat)
				return
			}
		case ModeNormal, ModeCondensed, ModeFastForward:
		}
	}
}

// primaryGapLocked reports the silence on the primary track at t: whether a
// primary cue is showing and the next primary cue, if any. Cues of other
// tracks do not interrupt the silence.
func (c *Controller) primaryGapLocked(t time.Duration, slice subtitle.Slice) (showing bool, next subtitle.Cue, ok bool) {
	primary := c.primaryTrackLocked()
	showing = slices.ContainsFunc(slice.Showing, func(cue subtitle.Cue) bool {
		return cue.Track == primary
	})
	next, ok = c.subs.NextOnTrack(primary, t)
	return showing, next, ok
}

func (c *Controller) condenseLocked(t time.Duration, slice subtitle.Slice) {
	showing, next, ok := c.primaryGapLocked(t, slice)
	if showing || !ok {
		return
	}
	if next.Start-t > c.expectedSeek+c.opts.CondensedMargin {
		c.requestSeekLocked(next.Start, SeekCondensed)
	}
}

func (c *Controller) fastForwardLocked(ctx context.Context, t time.Duration, slice subtitle.Slice) {
	showing, next, ok := c.primaryGapLocked(t, slice)
	if !showing && ok && next.Start-t > fastForwardMinGap {
		c.setRateLocked(ctx, c.opts.FastForwardRate)
		return
	}
	c.setRateLocked(ctx, 1)
}

func (c *Controller) setRateLocked(ctx context.Context, rate float64) {
	if c.clock.Rate() == rate {
		return
	}
	c.clock.SetRate(rate)
	if err := c.element.SetPlaybackRate(ctx, rate); err != nil {
		c.reportLocked("set playback rate", err)
	}
	c.publish(func(s *Subscription) { s.sendRate(RateChange{Rate: rate}) })
}

// Rate returns the clock rate.
func (c *Controller) Rate() float64 {
	return c.clock.Rate()
}

// Showing returns the last published showing set.
func (c *Controller) Showing() []subtitle.Cue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lastShowing)
}

func (c *Controller) publishShowingLocked(t time.Duration, showing []subtitle.Cue) {
	if c.published && slices.EqualFunc(showing, c.lastShowing, sameCue) {
		return
	}
	c.published = true
	c.lastShowing = slices.Clone(showing)
	event := ShowingChange{Time: t, Showing: slices.Clone(showing)}
	c.publish(func(s *Subscription) { s.sendShowing(event) })
}

func sameCue(a, b subtitle.Cue) bool {
	return a.Key() == b.Key() && a.Start == b.Start && a.End == b.End && a.Text == b.Text
}

func (c *Controller) reportLocked(op string, err error) {
	c.log.Warn("media operation failed", "operation", op, "error", err)
	c.publish(func(s *Subscription) { s.sendError(ErrorEvent{Operation: op, Err: err}) })
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := newSubscription()
	if c.closed {
		sub.close()
		return sub
	}
	c.listeners = append(c.listeners, sub)
	return sub
}

func (c *Controller) publish(send func(*Subscription)) {
	for _, sub := range c.listeners {
		send(sub)
	}
}

// Attach drives Tick from s at the configured tick interval. Attaching again
// replaces the previous schedule. The returned function stops ticking.
func (c *Controller) Attach(s Scheduler) (stop func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopTimer != nil {
		c.stopTimer()
	}
	stopTimer := s.Every(c.opts.TickInterval, func() {
		c.Tick(context.Background())
	})
	c.stopTimer = stopTimer
	c.attachID++
	id := c.attachID
	return func() {
		stopTimer()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.attachID == id {
			c.stopTimer = nil
		}
	}
}

// Close stops ticking, detaches from the auto-pause context and signals
// subscribers. A seek still in flight completes but its result is
// discarded.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	c.unsubscribe()
	for _, sub := range c.listeners {
		sub.close()
	}
	c.listeners = nil
	return nil
}
