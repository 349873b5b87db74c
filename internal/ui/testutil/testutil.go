// Package testutil provides common testing utilities for UI components.
package testutil

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string for easier testing.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// MaxWidth returns the visual width of the widest line in output.
func MaxWidth(output string) int {
	widest := 0
	for line := range strings.SplitSeq(output, "\n") {
		widest = max(widest, lipgloss.Width(line))
	}
	return widest
}

// FindLine returns the first line containing substr, with ANSI codes
// stripped, or the empty string.
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// CountLines returns the number of non-empty lines in the output.
func CountLines(output string) int {
	count := 0
	for line := range strings.SplitSeq(StripANSI(output), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

var specialKeys = map[string]tea.KeyType{
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"home":   tea.KeyHome,
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEscape,
	"tab":    tea.KeyTab,
	"ctrl+c": tea.KeyCtrlC,
}

// KeyMsg builds the key message bubbletea delivers for key, as spelled in
// key bindings ("left", "ctrl+c", "q", " ").
func KeyMsg(key string) tea.KeyMsg {
	if t, ok := specialKeys[key]; ok {
		return tea.KeyMsg{Type: t}
	}
	if key == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(key)}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
