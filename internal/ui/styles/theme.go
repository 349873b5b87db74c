// Package styles holds the color palette and lipgloss styles of the player.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the palette. Tracks are colored in order; tracks past the
// end of the list reuse the last color.
type Theme struct {
	Accent lipgloss.Color // mode badge, progress

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color
	BgBadge  lipgloss.Color
	Border   lipgloss.Color

	Tracks []lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Mode    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	tracks []lipgloss.Style
}

var defaultTheme = Theme{
	Accent: lipgloss.Color("#a78bfa"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),
	BgBadge:  lipgloss.Color("#303030"),
	Border:   lipgloss.Color("#585858"),

	// Target language first, native language second.
	Tracks: []lipgloss.Color{"#ffffff", "#f1a208", "#7fb4ca"},

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

// Cue returns the style for cue text of track.
func (s *Styles) Cue(track int) lipgloss.Style {
	if len(s.tracks) == 0 {
		return s.Base
	}
	return s.tracks[min(max(track, 0), len(s.tracks)-1)]
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	tracks := make([]lipgloss.Style, len(t.Tracks))
	for i, c := range t.Tracks {
		st := lipgloss.NewStyle().Foreground(c)
		if i == 0 {
			st = st.Bold(true)
		} else {
			st = st.Italic(true)
		}
		tracks[i] = st
	}

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Mode: lipgloss.NewStyle().
			Background(t.BgBadge).
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),
		Success: lipgloss.NewStyle().Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		tracks:  tracks,
	}
}
