// Package playerbar renders the one-line playback status bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/playback"
	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/render"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	seekSymbol  = "⟳"
)

// Height is the bar height including borders.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Title    string
	Playing  bool
	Seeking  bool
	Position time.Duration
	Duration time.Duration
	Mode     playback.Mode
	Rate     float64
	Offset   time.Duration
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)

	status := pauseSymbol
	switch {
	case s.Seeking:
		status = seekSymbol
	case s.Playing:
		status = playSymbol
	}

	title := s.Title
	if title == "" {
		title = "Untitled"
	}

	// Meta: mode badge, rate when not 1x, offset when set
	var meta []string
	if s.Mode != playback.ModeNormal {
		meta = append(meta, modeStyle().Render(ModeLabel(s.Mode)))
	}
	if s.Rate > 0 && s.Rate != 1 {
		meta = append(meta, metaStyle().Render(fmt.Sprintf("%.1f×", s.Rate)))
	}
	if s.Offset != 0 {
		meta = append(meta, metaStyle().Render("offset "+FormatOffset(s.Offset)))
	}
	metaStr := strings.Join(meta, " ")

	timeStr := fmt.Sprintf("%s / %s", FormatDuration(s.Position), FormatDuration(s.Duration))

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	statusWidth := lipgloss.Width(status + "  ")
	timeWidth := lipgloss.Width(timeStr)
	metaWidth := lipgloss.Width(metaStr)
	metaSpace := 0
	if metaStr != "" {
		metaSpace = metaWidth + sepWidth
	}

	// Reserve minimum space for progress bar (at least 10 chars)
	minBarWidth := 10
	availableForTitle := max(innerWidth-statusWidth-timeWidth-sepWidth*2-minBarWidth-metaSpace, 10)
	title = render.TruncateEllipsis(render.Sanitize(title), availableForTitle)
	titleWidth := lipgloss.Width(title)

	barWidth := max(innerWidth-titleWidth-metaSpace-statusWidth-timeWidth-sepWidth*2, 5)

	var ratio float64
	if s.Duration > 0 {
		ratio = float64(s.Position) / float64(s.Duration)
	}
	filled := min(max(int(float64(barWidth)*ratio), 0), barWidth)
	filledBar := progressBarFilled().Render(strings.Repeat("━", filled))
	emptyBar := progressBarEmpty().Render(strings.Repeat("─", barWidth-filled))

	// Title   [Condensed] offset +0.3s   ▶  ━━━───   1:23 / 3:58
	var content strings.Builder
	content.WriteString(titleStyle().Render(title))
	if metaStr != "" {
		content.WriteString(separator)
		content.WriteString(metaStr)
	}
	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(filledBar)
	content.WriteString(emptyBar)
	content.WriteString(separator)
	content.WriteString(progressTimeStyle().Render(timeStr))

	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

// ModeLabel returns the badge text for a mode.
func ModeLabel(m playback.Mode) string {
	switch m {
	case playback.ModeAutoPause:
		return "Auto-pause"
	case playback.ModeCondensed:
		return "Condensed"
	case playback.ModeRepeat:
		return "Repeat"
	case playback.ModeFastForward:
		return "Fast-forward"
	default:
		return "Normal"
	}
}

// FormatDuration formats d as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	d = max(d, 0)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatOffset formats a signed offset with one decimal of seconds.
func FormatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%.1fs", sign, d.Seconds())
}
