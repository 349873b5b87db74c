package subtitle

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// lrcLine represents a single timestamped LRC line.
type lrcLine struct {
	Time time.Duration
	Text string
}

// Regular expressions for parsing LRC format
var (
	// Matches timestamps like [00:12.34] or [00:12:34] or [00:12]
	lrcTimestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// Matches metadata tags like [ar:Artist Name]
	lrcMetadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// parseLRC converts synced lyrics into cues. Each line lasts until the next
// line starts; empty lines only terminate the previous one.
func parseLRC(r io.Reader) ([]Cue, error) {
	var lines []lrcLine
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || lrcMetadataRe.MatchString(line) {
			continue
		}

		// LRC can have multiple timestamps for the same text: [00:12.34][00:45.67]Text
		matches := lrcTimestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		lastMatch := matches[len(matches)-1]
		text := cleanText(line[lastMatch[1]:])

		for _, match := range matches {
			ts, err := parseLRCTimestamp(line[match[0]:match[1]])
			if err != nil {
				continue
			}
			lines = append(lines, lrcLine{Time: ts, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})

	cues := make([]Cue, 0, len(lines))
	for i, line := range lines {
		if line.Text == "" {
			continue
		}
		end := line.Time + lrcTail
		if i+1 < len(lines) {
			end = lines[i+1].Time
		}
		cues = append(cues, Cue{Start: line.Time, End: end, Text: line.Text})
	}
	return cues, nil
}

// parseLRCTimestamp parses a timestamp like [00:12.34] into a Duration.
func parseLRCTimestamp(s string) (time.Duration, error) {
	matches := lrcTimestampRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}

	seconds, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}

	millis, err := parseFraction(matches[3])
	if err != nil {
		return 0, err
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
