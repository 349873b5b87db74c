// internal/app/commands.go
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	refreshInterval = 100 * time.Millisecond
	statusLifetime  = 2 * time.Second
)

// TickCmd returns a command that sends TickMsg after the refresh interval.
func TickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ClearStatusCmd returns a command that clears the status line later.
func ClearStatusCmd(version int) tea.Cmd {
	return tea.Tick(statusLifetime, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{Version: version}
	})
}

// WatchSessionEvents returns a command that waits for session events.
// It listens on all subscription channels and converts events to tea.Msg.
func (m Model) WatchSessionEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-m.sub.ModeChanged:
			return ModeChangedMsg(e)
		case e := <-m.sub.ShowingChanged:
			return ShowingChangedMsg(e)
		case e := <-m.sub.SeekChanged:
			return SeekChangedMsg(e)
		case e := <-m.sub.Error:
			return SessionErrorMsg(e)
		case <-m.sub.RateChanged:
			return SessionEventMsg{}
		case <-m.sub.PauseChanged:
			return SessionEventMsg{}
		case <-m.sub.Done:
			return SessionClosedMsg{}
		}
	}
}
