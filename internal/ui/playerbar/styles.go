package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/ui/styles"
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(styles.T().Border)

func titleStyle() lipgloss.Style { return styles.T().S().Title }

func metaStyle() lipgloss.Style { return styles.T().S().Muted }

func modeStyle() lipgloss.Style { return styles.T().S().Mode }

func progressTimeStyle() lipgloss.Style { return styles.T().S().Muted }

func progressBarFilled() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Accent)
}

func progressBarEmpty() lipgloss.Style { return styles.T().S().Subtle }
