// internal/app/view.go
package app

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/playerbar"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/render"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	bar := playerbar.Render(m.playerState(), m.Width)
	status := m.renderStatus()
	helpView := m.help.View(m.helpKeys)

	cueHeight := max(m.Height-playerbar.Height-lipgloss.Height(helpView)-1, 1)
	cues := lipgloss.Place(m.Width, cueHeight, lipgloss.Center, lipgloss.Center, m.renderCues())

	return strings.Join([]string{cues, status, bar, helpView}, "\n")
}

func (m Model) playerState() playerbar.State {
	s := m.Session
	return playerbar.State{
		Title:    m.Title,
		Playing:  s.Playing(),
		Seeking:  s.Controller().Seeking(),
		Position: s.Time(),
		Duration: s.Length(),
		Mode:     s.Mode(),
		Rate:     s.Rate(),
		Offset:   s.Offset(),
	}
}

// renderCues renders the showing cues, master track first.
func (m Model) renderCues() string {
	width := max(m.Width-4, 10)
	st := styles.T().S()

	showing := slices.Clone(m.Showing)
	slices.SortStableFunc(showing, func(a, b subtitle.Cue) int { return cmp.Compare(a.Track, b.Track) })

	var lines []string
	for _, cue := range showing {
		style := st.Cue(cue.Track)
		for _, line := range render.Wrap(cue.Text, width) {
			lines = append(lines, style.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// renderStatus renders the transient message on the left and the native
// track state on the right.
func (m Model) renderStatus() string {
	st := styles.T().S()
	right := m.trackInfo()
	leftWidth := max(m.Width-lipgloss.Width(right)-1, 0)

	var left string
	switch {
	case m.ErrorMsg != "":
		left = st.Error.Render(render.Truncate(m.ErrorMsg, leftWidth))
	case m.Status != "":
		left = st.Muted.Render(render.Truncate(m.Status, leftWidth))
	}
	if right == "" {
		return left
	}
	return render.Row(left, st.Subtle.Render(right), m.Width)
}

func (m Model) trackInfo() string {
	if !hasTrack(m.Session, subtitle.TrackSlave) {
		return ""
	}
	if m.Session.TrackDisabled(subtitle.TrackSlave) {
		return "native off"
	}
	return "native on"
}
