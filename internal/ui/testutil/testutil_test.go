package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestStripANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("cue")
	if got := StripANSI(styled); got != "cue" {
		t.Errorf("StripANSI() = %q, want %q", got, "cue")
	}
	if got := StripANSI("\x1b[1;31mred\x1b[0m text"); got != "red text" {
		t.Errorf("StripANSI() = %q, want %q", got, "red text")
	}
}

func TestMaxWidth(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{"empty", "", 0},
		{"single line", "hello", 5},
		{"widest wins", "ab\nabcd\nabc", 4},
		{"wide runes", "日本", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxWidth(tt.output); got != tt.want {
				t.Errorf("MaxWidth(%q) = %d, want %d", tt.output, got, tt.want)
			}
		})
	}
}

func TestFindLine(t *testing.T) {
	output := "first\n\x1b[1msecond cue\x1b[0m\nthird"
	if got := FindLine(output, "cue"); got != "second cue" {
		t.Errorf("FindLine() = %q, want %q", got, "second cue")
	}
	if got := FindLine(output, "missing"); got != "" {
		t.Errorf("FindLine() = %q, want empty", got)
	}
}

func TestCountLines(t *testing.T) {
	if got := CountLines("a\n\n  \nb\nc"); got != 3 {
		t.Errorf("CountLines() = %d, want 3", got)
	}
}

func TestKeyMsg(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"q", "q"},
		{" ", " "},
		{"left", "left"},
		{"ctrl+c", "ctrl+c"},
		{"]", "]"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := KeyMsg(tt.key).String(); got != tt.want {
				t.Errorf("KeyMsg(%q).String() = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestExecuteCmd(t *testing.T) {
	if ExecuteCmd(nil) != nil {
		t.Error("ExecuteCmd(nil) should return nil")
	}
	if _, ok := ExecuteCmd(tea.Quit).(tea.QuitMsg); !ok {
		t.Error("ExecuteCmd(tea.Quit) should return QuitMsg")
	}
}
