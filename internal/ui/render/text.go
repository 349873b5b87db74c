// Package render provides text rendering utilities for TUI components.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// Sanitize drops control characters (except tab) and invalid UTF-8 bytes,
// and turns non-breaking spaces into plain spaces. Subtitle files often
// carry all three.
func Sanitize(s string) string {
	if utf8.ValidString(s) && !strings.ContainsFunc(s, unsafeRune) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError:
			return -1
		case r == '\u00a0':
			return ' '
		case unsafeRune(r):
			return -1
		}
		return r
	}, s)
}

func unsafeRune(r rune) bool {
	return r == '\u00a0' || (r != '\t' && unicode.IsControl(r))
}

// Truncate sanitizes s and shortens it to maxWidth cells with a "..." tail.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// TruncateEllipsis shortens s to maxWidth cells with a single "…".
func TruncateEllipsis(s string, maxWidth int) string {
	return runewidth.Truncate(s, max(maxWidth, 0), "…")
}

// Row joins left and right with at least one space, padding to width.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Wrap breaks s into lines no wider than width, splitting on whitespace.
// Words wider than width are truncated. Newlines in s are kept.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(Sanitize(para))
		if len(words) == 0 {
			continue
		}
		for i, word := range words {
			if runewidth.StringWidth(word) > width {
				words[i] = runewidth.Truncate(word, width, "…")
			}
		}
		wrapped := wordwrap.String(strings.Join(words, " "), width)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}
