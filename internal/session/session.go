// Package session wires the clock, cue collection, auto-pause context and
// playback controller of one playback session together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/autopause"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/clock"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/dualtrack"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/media"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

var (
	// ErrNoSubtitles is returned by cue navigation when nothing is loaded.
	ErrNoSubtitles = errors.New("no subtitles loaded")
	// ErrNoCue is returned when there is no cue to navigate to.
	ErrNoCue = errors.New("no cue in that direction")
	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = playback.ErrClosed
)

// Settings is the per-media state a Store persists between sessions.
type Settings struct {
	Offset         time.Duration
	Mode           playback.Mode
	DisabledTracks []int
}

// Store persists Settings keyed by media. Save may be asynchronous.
type Store interface {
	LoadSettings(mediaKey string) (Settings, bool, error)
	SaveSettings(mediaKey string, s Settings)
}

// Options configures a Session.
type Options struct {
	Playback           playback.Options
	ShowingCheckRadius time.Duration

	// Element is the bound media element; nil means standalone playback.
	Element media.Element

	// MediaKey identifies the media for Store. Persistence is disabled when
	// either is empty.
	MediaKey string
	Store    Store

	Logger    *slog.Logger
	ClockOpts []clock.Option
}

// Session owns every component of one playback session. It holds no global
// state; consumers receive the *Session by reference.
type Session struct {
	mu sync.Mutex

	log       *slog.Logger
	clock     *clock.Clock
	subs      *subtitle.Collection
	autoPause *autopause.Context
	ctl       *playback.Controller
	merger    dualtrack.Merger
	merge     bool

	raw    []subtitle.Cue // cues at their original timing
	offset time.Duration

	mediaKey string
	store    Store
	closed   bool
}

// New creates a session. The clock starts stopped at zero.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		log:       logger.With("component", "session"),
		clock:     clock.New(opts.ClockOpts...),
		subs:      subtitle.NewCollection(opts.ShowingCheckRadius),
		autoPause: autopause.New(),
		merger:    dualtrack.New(),
		merge:     opts.Playback.MergeDualTracks,
		mediaKey:  opts.MediaKey,
		store:     opts.Store,
	}
	s.ctl = playback.New(playback.Deps{
		Clock:     s.clock,
		Subtitles: s.subs,
		AutoPause: s.autoPause,
		Element:   opts.Element,
		Logger:    logger,
	}, opts.Playback)
	return s
}

// LoadSubtitles replaces the cue set. The current offset is applied to the
// cues' original timings.
func (s *Session) LoadSubtitles(cues []subtitle.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = slices.Clone(cues)
	s.rebuildLocked()
	s.log.Info("subtitles loaded", "cues", len(cues), "tracks", s.subs.Tracks())
}

// LoadFiles parses subtitle files, the n-th file becoming track n.
func (s *Session) LoadFiles(paths ...string) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	var all []subtitle.Cue
	for track, path := range paths {
		cues, err := subtitle.ParseFile(path, track)
		if err != nil {
			return fmt.Errorf("load track %d: %w", track, err)
		}
		all = append(all, cues...)
	}
	s.LoadSubtitles(all)
	return nil
}

func (s *Session) rebuildLocked() {
	shifted := make([]subtitle.Cue, len(s.raw))
	for i, cue := range s.raw {
		shifted[i] = cue.Shifted(s.offset)
	}
	s.subs.SetSubtitles(shifted)
	s.ctl.Invalidate()
}

// Restore applies the persisted settings for the session's media, if any.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil || s.mediaKey == "" {
		return nil
	}
	settings, ok, err := s.store.LoadSettings(s.mediaKey)
	if err != nil {
		return fmt.Errorf("restore settings: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.offset = settings.Offset
	s.rebuildLocked()
	for _, track := range settings.DisabledTracks {
		s.subs.SetTrackDisabled(track, true)
	}
	s.mu.Unlock()
	s.ctl.Invalidate()

	if err := s.ctl.SetMode(ctx, settings.Mode); err != nil {
		return fmt.Errorf("restore mode: %w", err)
	}
	s.log.Info("settings restored", "media", s.mediaKey, "offset", settings.Offset, "mode", settings.Mode)
	return nil
}

func (s *Session) persist() {
	if s.store == nil || s.mediaKey == "" {
		return
	}
	s.mu.Lock()
	settings := Settings{Offset: s.offset, Mode: s.ctl.Mode()}
	for _, track := range s.subs.Tracks() {
		if s.subs.TrackDisabled(track) {
			settings.DisabledTracks = append(settings.DisabledTracks, track)
		}
	}
	s.mu.Unlock()
	s.store.SaveSettings(s.mediaKey, settings)
}

// SubtitlesAt queries the cue set at t. The showing set is dual-track merged
// when merging is enabled.
func (s *Session) SubtitlesAt(t time.Duration) subtitle.Slice {
	slice := s.subs.SubtitlesAt(t)
	if s.merge {
		slice.Showing = s.merger.Merge(s.subs, slice.Showing)
	}
	return slice
}

// Showing returns the cues to display at the current time.
func (s *Session) Showing() []subtitle.Cue {
	return s.SubtitlesAt(s.ctl.Time()).Showing
}

// Cues returns the loaded cues at their current (offset) timing.
func (s *Session) Cues() []subtitle.Cue {
	return s.subs.Cues()
}

// Time returns the clamped logical time.
func (s *Session) Time() time.Duration { return s.ctl.Time() }

// Progress returns the playback progress in [0, 1].
func (s *Session) Progress() float64 { return s.ctl.Progress() }

// Length returns the content length.
func (s *Session) Length() time.Duration { return s.ctl.Length() }

// Playing reports whether the clock is running.
func (s *Session) Playing() bool { return s.clock.Running() }

// Rate returns the current playback rate.
func (s *Session) Rate() float64 { return s.clock.Rate() }

// Mode returns the active playback mode.
func (s *Session) Mode() playback.Mode { return s.ctl.Mode() }

// ToggleMode toggles m and persists the result.
func (s *Session) ToggleMode(ctx context.Context, m playback.Mode) (playback.Mode, error) {
	next, err := s.ctl.Toggle(ctx, m)
	if err != nil {
		return next, err
	}
	s.persist()
	return next, nil
}

// SetMode switches to m and persists it.
func (s *Session) SetMode(ctx context.Context, m playback.Mode) error {
	if err := s.ctl.SetMode(ctx, m); err != nil {
		return err
	}
	s.persist()
	return nil
}

// Offset returns the time shift applied to every cue.
func (s *Session) Offset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// ApplyOffset shifts every cue by offset relative to its original timing.
// Transition bookkeeping is cleared since cue boundaries moved.
func (s *Session) ApplyOffset(offset time.Duration) {
	s.mu.Lock()
	s.offset = offset
	s.rebuildLocked()
	s.mu.Unlock()
	s.log.Debug("offset applied", "offset", offset)
	s.persist()
}

// SetTrackDisabled hides or shows a track.
func (s *Session) SetTrackDisabled(track int, disabled bool) {
	s.subs.SetTrackDisabled(track, disabled)
	s.ctl.Invalidate()
	s.persist()
}

// TrackDisabled reports whether track is hidden.
func (s *Session) TrackDisabled(track int) bool {
	return s.subs.TrackDisabled(track)
}

// Tracks returns the loaded track numbers.
func (s *Session) Tracks() []int {
	return s.subs.Tracks()
}

// Seek requests a seek to t. It returns false when dropped because another
// seek is in flight.
func (s *Session) Seek(t time.Duration) bool {
	return s.ctl.Seek(t)
}

// SeekToNextCue seeks to the start of the next cue.
func (s *Session) SeekToNextCue() error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if s.subs.Len() == 0 {
		return ErrNoSubtitles
	}
	next, ok := s.subs.SubtitlesAt(s.ctl.Time()).Next()
	if !ok {
		return ErrNoCue
	}
	s.ctl.Seek(next.Start)
	return nil
}

// SeekToPreviousCue seeks to the start of the cue before the one showing,
// or before the current time when nothing is showing.
func (s *Session) SeekToPreviousCue() error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	if s.subs.Len() == 0 {
		return ErrNoSubtitles
	}
	t := s.ctl.Time()
	for _, cue := range s.subs.SubtitlesAt(t).Showing {
		t = min(t, cue.Start)
	}
	prev, ok := s.subs.PreviousStart(t)
	if !ok {
		return ErrNoCue
	}
	s.ctl.Seek(prev)
	return nil
}

// Play starts playback.
func (s *Session) Play(ctx context.Context) error { return s.ctl.Play(ctx) }

// Pause pauses playback.
func (s *Session) Pause(ctx context.Context) error { return s.ctl.Pause(ctx) }

// TogglePlay pauses when playing and plays when paused.
func (s *Session) TogglePlay(ctx context.Context) error {
	if s.Playing() {
		return s.Pause(ctx)
	}
	return s.Play(ctx)
}

// BindElement attaches a media element; nil returns to standalone playback.
func (s *Session) BindElement(e media.Element) { s.ctl.BindElement(e) }

// MediaReady applies the element's readiness signal.
func (s *Session) MediaReady(st media.State) { s.ctl.MediaReady(st) }

// SetLength sets the content length for standalone playback.
func (s *Session) SetLength(d time.Duration) { s.ctl.SetLength(d) }

// Tick runs one evaluation. Drivers that do not use Start call this every
// tick interval.
func (s *Session) Tick(ctx context.Context) { s.ctl.Tick(ctx) }

// Start drives ticks from sched until the returned stop function or Close
// is called.
func (s *Session) Start(sched playback.Scheduler) (stop func()) {
	return s.ctl.Attach(sched)
}

// Subscribe returns a new event subscription.
func (s *Session) Subscribe() *playback.Subscription {
	return s.ctl.Subscribe()
}

// Controller exposes the underlying controller.
func (s *Session) Controller() *playback.Controller { return s.ctl }

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the session down. Pending state saves are left to the Store.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.ctl.Close()
}
