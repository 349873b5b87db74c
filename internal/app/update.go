// internal/app/update.go
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/errmsg"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/keymap"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/playerbar"
)

const (
	seekStep   = 5 * time.Second
	offsetStep = 100 * time.Millisecond
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case TickMsg:
		return m, TickCmd()

	case ShowingChangedMsg:
		m.Showing = msg.Showing
		return m, m.WatchSessionEvents()

	case ModeChangedMsg:
		next, cmd := m.withStatus(m.modeStatus(msg.Current))
		return next, tea.Batch(cmd, m.WatchSessionEvents())

	case SeekChangedMsg:
		if msg.Resolved && msg.Err == nil {
			m.ErrorMsg = ""
		}
		return m, m.WatchSessionEvents()

	case SessionErrorMsg:
		m.ErrorMsg = errmsg.Format(operationFor(msg.Operation), msg.Err)
		return m, m.WatchSessionEvents()

	case SessionEventMsg:
		return m, m.WatchSessionEvents()

	case SessionClosedMsg:
		return m, tea.Quit

	case ClearStatusMsg:
		if msg.Version == m.statusVersion {
			m.Status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	s := m.Session

	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp
		return m, nil

	case keymap.ActionPlayPause:
		op := errmsg.OpPlaybackStart
		if s.Playing() {
			op = errmsg.OpPlaybackPause
		}
		if err := s.TogglePlay(ctx); err != nil {
			m.ErrorMsg = errmsg.Format(op, err)
		}
		return m, nil

	case keymap.ActionSeekBack:
		s.Seek(s.Time() - seekStep)
		return m, nil

	case keymap.ActionSeekForward:
		s.Seek(s.Time() + seekStep)
		return m, nil

	case keymap.ActionRestart:
		s.Seek(0)
		return m, nil

	case keymap.ActionPrevCue:
		return m.navigate(s.SeekToPreviousCue())

	case keymap.ActionNextCue:
		return m.navigate(s.SeekToNextCue())

	case keymap.ActionToggleAutoPause:
		return m.toggleMode(ctx, playback.ModeAutoPause)

	case keymap.ActionToggleCondensed:
		return m.toggleMode(ctx, playback.ModeCondensed)

	case keymap.ActionToggleRepeat:
		return m.toggleMode(ctx, playback.ModeRepeat)

	case keymap.ActionToggleFastForward:
		return m.toggleMode(ctx, playback.ModeFastForward)

	case keymap.ActionOffsetEarlier:
		s.ApplyOffset(s.Offset() - offsetStep)
		return m.withStatus("Offset " + playerbar.FormatOffset(s.Offset()))

	case keymap.ActionOffsetLater:
		s.ApplyOffset(s.Offset() + offsetStep)
		return m.withStatus("Offset " + playerbar.FormatOffset(s.Offset()))

	case keymap.ActionOffsetReset:
		s.ApplyOffset(0)
		return m.withStatus("Offset reset")

	case keymap.ActionToggleNative:
		if !hasTrack(s, subtitle.TrackSlave) {
			return m.withStatus("No native subtitles loaded")
		}
		hidden := !s.TrackDisabled(subtitle.TrackSlave)
		s.SetTrackDisabled(subtitle.TrackSlave, hidden)
		if hidden {
			return m.withStatus("Native subtitles hidden")
		}
		return m.withStatus("Native subtitles shown")
	}
	return m, nil
}

func (m Model) navigate(err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		m.ErrorMsg = ""
		return m, nil
	case errors.Is(err, session.ErrNoCue):
		return m.withStatus("No more cues")
	default:
		m.ErrorMsg = errmsg.Format(errmsg.OpCueNavigate, err)
		return m, nil
	}
}

func (m Model) toggleMode(ctx context.Context, mode playback.Mode) (tea.Model, tea.Cmd) {
	if _, err := m.Session.ToggleMode(ctx, mode); err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpModeToggle, err)
	}
	return m, nil
}

// withStatus shows a transient status line.
func (m Model) withStatus(status string) (Model, tea.Cmd) {
	m.statusVersion++
	m.Status = status
	return m, ClearStatusCmd(m.statusVersion)
}

// modeStatus names the mode and the key that leaves it.
func (m Model) modeStatus(mode playback.Mode) string {
	label := playerbar.ModeLabel(mode)
	keys := m.keys.KeysFor(toggleActions[mode])
	if mode == playback.ModeNormal || len(keys) == 0 {
		return label
	}
	return fmt.Sprintf("%s (%s to leave)", label, keys[0])
}

var toggleActions = map[playback.Mode]keymap.Action{
	playback.ModeAutoPause:   keymap.ActionToggleAutoPause,
	playback.ModeCondensed:   keymap.ActionToggleCondensed,
	playback.ModeRepeat:      keymap.ActionToggleRepeat,
	playback.ModeFastForward: keymap.ActionToggleFastForward,
}

func hasTrack(s *session.Session, track int) bool {
	return slices.Contains(s.Tracks(), track)
}

func operationFor(op string) errmsg.Op {
	switch op {
	case "seek":
		return errmsg.OpPlaybackSeek
	case "pause":
		return errmsg.OpPlaybackPause
	case "play":
		return errmsg.OpPlaybackStart
	case "set playback rate":
		return errmsg.OpPlaybackRate
	default:
		return errmsg.Op(fmt.Sprintf("run %s", op))
	}
}
