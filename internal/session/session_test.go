package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/media"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func cue(track, index, start, end int, text string) subtitle.Cue {
	return subtitle.Cue{
		Start: ms(start), End: ms(end),
		OriginalStart: ms(start), OriginalEnd: ms(end),
		Track: track, Index: index, Text: text,
	}
}

type memStore struct {
	mu    sync.Mutex
	saved map[string]Settings
	saves int
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]Settings)}
}

func (m *memStore) LoadSettings(key string) (Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saved[key]
	return s, ok, nil
}

func (m *memStore) SaveSettings(key string, s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[key] = s
	m.saves++
}

func (m *memStore) get(key string) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[key]
}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Playback == (playback.Options{}) {
		opts.Playback = playback.DefaultOptions()
	}
	s := New(opts)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_ApplyOffsetShiftsFromOriginal(t *testing.T) {
	s := newSession(t, Options{})
	s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a")})

	s.ApplyOffset(ms(500))
	assert.Equal(t, ms(500), s.Offset())
	got := s.SubtitlesAt(ms(1200)).Showing
	require.Len(t, got, 1)
	assert.Equal(t, ms(1500), got[0].Start)
	assert.Equal(t, ms(1000), got[0].OriginalStart)

	// Not cumulative.
	s.ApplyOffset(ms(-200))
	cues := s.Cues()
	require.Len(t, cues, 1)
	assert.Equal(t, ms(800), cues[0].Start)
	assert.Equal(t, ms(1800), cues[0].End)
}

func TestSession_LoadSubtitlesKeepsOffset(t *testing.T) {
	s := newSession(t, Options{})
	s.ApplyOffset(ms(300))
	s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a")})
	assert.Equal(t, ms(1300), s.Cues()[0].Start)
}

func TestSession_SubtitlesAtMergesDualTracks(t *testing.T) {
	s := newSession(t, Options{})
	s.LoadSubtitles([]subtitle.Cue{
		cue(0, 0, 1000, 3000, "Hello world"),
		cue(1, 0, 900, 2000, "- Hola"),
		cue(1, 1, 2000, 3100, "mundo -"),
	})

	showing := s.SubtitlesAt(ms(1500)).Showing
	require.Len(t, showing, 2)
	assert.Equal(t, "Hello world", showing[0].Text)
	assert.Equal(t, "Hola mundo", showing[1].Text)
	assert.Equal(t, ms(1000), showing[1].Start)
	assert.Equal(t, ms(3000), showing[1].End)

	s.SetTrackDisabled(1, true)
	showing = s.SubtitlesAt(ms(1500)).Showing
	require.Len(t, showing, 1)
	assert.Equal(t, 0, showing[0].Track)
	assert.True(t, s.TrackDisabled(1))
	assert.Equal(t, []int{0, 1}, s.Tracks())
}

func TestSession_MergeDisabled(t *testing.T) {
	opts := playback.DefaultOptions()
	opts.MergeDualTracks = false
	s := newSession(t, Options{Playback: opts})
	s.LoadSubtitles([]subtitle.Cue{
		cue(0, 0, 1000, 3000, "Hello"),
		cue(1, 0, 900, 2000, "Hola"),
	})
	assert.Len(t, s.SubtitlesAt(ms(1500)).Showing, 2)
}

func TestSession_SeekToNextAndPreviousCue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := newSession(t, Options{})
		s.LoadSubtitles([]subtitle.Cue{
			cue(0, 0, 1000, 2000, "a"),
			cue(0, 1, 3000, 4000, "b"),
			cue(0, 2, 6000, 7000, "c"),
		})

		require.NoError(t, s.SeekToNextCue())
		synctest.Wait()
		assert.Equal(t, ms(1000), s.Time())

		require.NoError(t, s.SeekToNextCue())
		synctest.Wait()
		assert.Equal(t, ms(3000), s.Time())

		// Showing "b": previous goes to "a", not to the start of "b".
		s.Seek(ms(3500))
		synctest.Wait()
		require.NoError(t, s.SeekToPreviousCue())
		synctest.Wait()
		assert.Equal(t, ms(1000), s.Time())

		// In the gap after "b": previous is "b".
		s.Seek(ms(5000))
		synctest.Wait()
		require.NoError(t, s.SeekToPreviousCue())
		synctest.Wait()
		assert.Equal(t, ms(3000), s.Time())

		s.Seek(ms(6500))
		synctest.Wait()
		assert.ErrorIs(t, s.SeekToNextCue(), ErrNoCue)

		s.Seek(ms(1500))
		synctest.Wait()
		assert.ErrorIs(t, s.SeekToPreviousCue(), ErrNoCue)
	})
}

func TestSession_NavigationWithoutSubtitles(t *testing.T) {
	s := newSession(t, Options{})
	assert.ErrorIs(t, s.SeekToNextCue(), ErrNoSubtitles)
	assert.ErrorIs(t, s.SeekToPreviousCue(), ErrNoSubtitles)
}

func TestSession_PersistsSettings(t *testing.T) {
	store := newMemStore()
	s := newSession(t, Options{MediaKey: "movie.mkv", Store: store})
	s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 0, 1000, "a"), cue(1, 0, 0, 1000, "b")})
	ctx := context.Background()

	_, err := s.ToggleMode(ctx, playback.ModeCondensed)
	require.NoError(t, err)
	s.ApplyOffset(ms(-250))
	s.SetTrackDisabled(1, true)

	got := store.get("movie.mkv")
	assert.Equal(t, playback.ModeCondensed, got.Mode)
	assert.Equal(t, ms(-250), got.Offset)
	assert.Equal(t, []int{1}, got.DisabledTracks)
	assert.Equal(t, 3, store.saves)
}

func TestSession_NoPersistenceWithoutKey(t *testing.T) {
	store := newMemStore()
	s := newSession(t, Options{Store: store})
	s.ApplyOffset(ms(100))
	assert.Zero(t, store.saves)
}

func TestSession_Restore(t *testing.T) {
	store := newMemStore()
	store.SaveSettings("movie.mkv", Settings{
		Offset:         ms(400),
		Mode:           playback.ModeRepeat,
		DisabledTracks: []int{1},
	})

	s := newSession(t, Options{MediaKey: "movie.mkv", Store: store})
	s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a"), cue(1, 0, 1000, 2000, "b")})
	require.NoError(t, s.Restore(context.Background()))

	assert.Equal(t, ms(400), s.Offset())
	assert.Equal(t, playback.ModeRepeat, s.Mode())
	assert.True(t, s.TrackDisabled(1))
	assert.Equal(t, ms(1400), s.Cues()[0].Start)
}

func TestSession_RestoreUnknownMedia(t *testing.T) {
	s := newSession(t, Options{MediaKey: "other", Store: newMemStore()})
	require.NoError(t, s.Restore(context.Background()))
	assert.Zero(t, s.Offset())
	assert.Equal(t, playback.ModeNormal, s.Mode())
}

// pausedAtCueEnd returns a session in auto-pause mode sitting inside the
// will-stop window of its master cue, plus a function that resumes playback
// and ticks once at the same position.
func pausedAtCueEnd(t *testing.T, opts Options) (*Session, *media.Mock, func()) {
	t.Helper()
	el := media.NewMock()
	opts.Element = el
	s := newSession(t, opts)
	s.LoadSubtitles([]subtitle.Cue{
		cue(0, 0, 1000, 3000, "a"),
		cue(1, 0, 1000, 3000, "b"),
	})
	ctx := context.Background()
	require.NoError(t, s.SetMode(ctx, playback.ModeAutoPause))
	require.True(t, s.Seek(ms(2900)))
	synctest.Wait()

	replay := func() {
		require.NoError(t, s.Play(ctx))
		s.Tick(ctx)
	}
	replay()
	require.Equal(t, 1, el.PauseCount())
	require.False(t, s.Playing())

	// Already notified for this cue.
	replay()
	require.Equal(t, 1, el.PauseCount())
	return s, el, replay
}

func TestSession_CueChangesRearmAutoPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, el, replay := pausedAtCueEnd(t, Options{})

		s.ApplyOffset(0)
		replay()
		assert.Equal(t, 2, el.PauseCount())

		s.SetTrackDisabled(1, true)
		replay()
		assert.Equal(t, 3, el.PauseCount())

		s.LoadSubtitles(s.Cues())
		replay()
		assert.Equal(t, 4, el.PauseCount())
		assert.False(t, s.Playing())
	})
}

func TestSession_RestoreRearmsAutoPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		store := newMemStore()
		s, el, replay := pausedAtCueEnd(t, Options{MediaKey: "movie.mkv", Store: store})
		store.SaveSettings("movie.mkv", Settings{
			Mode:           playback.ModeAutoPause,
			DisabledTracks: []int{1},
		})

		require.NoError(t, s.Restore(context.Background()))
		assert.True(t, s.TrackDisabled(1))
		replay()

		assert.Equal(t, 2, el.PauseCount())
	})
}

func TestSession_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "movie.en.srt")
	native := filepath.Join(dir, "movie.es.srt")
	require.NoError(t, os.WriteFile(master, []byte("1\n00:00:01,000 --> 00:00:02,000\nHello\n"), 0o644))
	require.NoError(t, os.WriteFile(native, []byte("1\n00:00:01,000 --> 00:00:02,000\nHola\n"), 0o644))

	s := newSession(t, Options{})
	require.NoError(t, s.LoadFiles(master, native))
	assert.Equal(t, []int{0, 1}, s.Tracks())

	err := s.LoadFiles(filepath.Join(dir, "missing.srt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load track 0")
}

func TestSession_PlayPauseToggle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := newSession(t, Options{})
		s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a")})
		ctx := context.Background()

		require.NoError(t, s.TogglePlay(ctx))
		assert.True(t, s.Playing())
		time.Sleep(time.Second)
		assert.Equal(t, time.Second, s.Time())

		require.NoError(t, s.TogglePlay(ctx))
		assert.False(t, s.Playing())
		assert.Equal(t, 1.0, s.Rate())
	})
}

func TestSession_ShowingFollowsClock(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := newSession(t, Options{})
		s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a")})
		require.NoError(t, s.Play(context.Background()))

		assert.Empty(t, s.Showing())
		time.Sleep(1500 * time.Millisecond)
		showing := s.Showing()
		require.Len(t, showing, 1)
		assert.Equal(t, "a", showing[0].Text)
		assert.InDelta(t, 0.75, s.Progress(), 0.001)
		assert.Equal(t, ms(2000), s.Length())
	})
}

func TestSession_Closed(t *testing.T) {
	s := New(Options{Playback: playback.DefaultOptions()})
	s.LoadSubtitles([]subtitle.Cue{cue(0, 0, 1000, 2000, "a")})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.SeekToNextCue(), ErrSessionClosed)
	assert.ErrorIs(t, s.LoadFiles("x.srt"), ErrSessionClosed)
	assert.ErrorIs(t, s.Play(context.Background()), ErrSessionClosed)
	_, err := s.ToggleMode(context.Background(), playback.ModeRepeat)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_SetModePersists(t *testing.T) {
	store := newMemStore()
	s := newSession(t, Options{MediaKey: "movie.mkv", Store: store})

	require.NoError(t, s.SetMode(context.Background(), playback.ModeFastForward))
	assert.Equal(t, playback.ModeFastForward, s.Mode())
	assert.Equal(t, playback.ModeFastForward, store.get("movie.mkv").Mode)

	assert.ErrorIs(t, s.SetMode(context.Background(), playback.Mode(99)), playback.ErrInvalidMode)
	assert.Equal(t, 1, store.saves)
}
