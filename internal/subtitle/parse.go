package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Format identifies a subtitle file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatSRT
	FormatVTT
	FormatLRC
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatSRT:
		return "srt"
	case FormatVTT:
		return "vtt"
	case FormatLRC:
		return "lrc"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned when a file's format cannot be determined.
var ErrUnknownFormat = errors.New("unknown subtitle format")

// lrcTail is how long the last LRC line stays on screen.
const lrcTail = 5 * time.Second

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".lrc":
		return FormatLRC
	default:
		return FormatUnknown
	}
}

// ParseFile reads a subtitle file and assigns its cues to track.
func ParseFile(path string, track int) ([]Cue, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cues, err := Parse(f, format, track)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cues, nil
}

// Parse reads cues in the given format. Cue indexes follow file order.
func Parse(r io.Reader, format Format, track int) ([]Cue, error) {
	var (
		cues []Cue
		err  error
	)
	switch format {
	case FormatSRT, FormatVTT:
		cues, err = parseBlocks(r)
	case FormatLRC:
		cues, err = parseLRC(r)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	for i := range cues {
		cues[i].Track = track
		cues[i].Index = i
		cues[i].OriginalStart = cues[i].Start
		cues[i].OriginalEnd = cues[i].End
	}
	return cues, nil
}

var (
	// Matches "00:01:02,345 --> 00:01:04,000" (SRT) and "01:02.345 --> 01:04.000 align:start" (VTT).
	timingRe = regexp.MustCompile(`^\s*((?:\d+:)?\d+:\d+[.,]\d+)\s+-->\s+((?:\d+:)?\d+:\d+[.,]\d+)`)

	tagRe = regexp.MustCompile(`<[^>]*>|\{\\[^}]*\}`)
)

// parseBlocks handles SRT and WebVTT. Both are blank-line separated blocks
// with a timing line followed by text; anything before the timing line
// (sequence numbers, cue identifiers, WEBVTT header, NOTE/STYLE blocks) is
// ignored.
func parseBlocks(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues    []Cue
		current *Cue
		lines   []string
	)
	flush := func() {
		if current != nil {
			current.Text = cleanText(strings.Join(lines, "\n"))
			cues = append(cues, *current)
		}
		current = nil
		lines = lines[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, "\ufeff")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if m := timingRe.FindStringSubmatch(line); m != nil {
			flush()
			start, err := parseClockTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			end, err := parseClockTimestamp(m[2])
			if err != nil {
				return nil, err
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		if current != nil {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return cues, nil
}

// parseClockTimestamp parses "HH:MM:SS,mmm", "HH:MM:SS.mmm" or "MM:SS.mmm".
func parseClockTimestamp(value string) (time.Duration, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	whole, frac, ok := strings.Cut(value, ".")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(whole, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(parts[0])
	minutes, errM := strconv.Atoi(parts[1])
	seconds, errS := strconv.Atoi(parts[2])
	millis, errMS := parseFraction(frac)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// parseFraction converts a decimal fraction of a second into milliseconds.
func parseFraction(frac string) (int, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	n, err := strconv.Atoi(frac)
	if err != nil {
		return 0, err
	}
	for range 3 - len(frac) {
		n *= 10
	}
	return n, nil
}

// cleanText strips formatting tags and normalizes the text to NFC.
func cleanText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return norm.NFC.String(strings.TrimSpace(s))
}
