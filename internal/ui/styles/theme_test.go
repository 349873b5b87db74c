package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStyles_Cue(t *testing.T) {
	st := T().S()

	tests := []struct {
		track int
		want  lipgloss.TerminalColor
	}{
		{0, T().Tracks[0]},
		{1, T().Tracks[1]},
		{2, T().Tracks[2]},
		{7, T().Tracks[len(T().Tracks)-1]},
		{-1, T().Tracks[0]},
	}
	for _, tt := range tests {
		if got := st.Cue(tt.track).GetForeground(); got != tt.want {
			t.Errorf("Cue(%d) foreground = %v, want %v", tt.track, got, tt.want)
		}
	}
	if !st.Cue(0).GetBold() {
		t.Error("master track should be bold")
	}
	if !st.Cue(1).GetItalic() {
		t.Error("native track should be italic")
	}
}

func TestStyles_CueWithoutTracks(t *testing.T) {
	th := Theme{FgBase: lipgloss.Color("#ffffff")}
	if got := th.S().Cue(3).GetForeground(); got != th.FgBase {
		t.Errorf("Cue() foreground = %v, want base %v", got, th.FgBase)
	}
}
