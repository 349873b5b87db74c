package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SRT(t *testing.T) {
	srt := "1\r\n00:00:01,000 --> 00:00:03,500\r\n<i>Hello</i>\r\nthere\r\n\r\n" +
		"2\n00:01:02,250 --> 00:01:04,000\nSecond\n"

	cues, err := Parse(strings.NewReader(srt), FormatSRT, 1)
	require.NoError(t, err)
	require.Len(t, cues, 2)

	assert.Equal(t, time.Second, cues[0].Start)
	assert.Equal(t, 3500*time.Millisecond, cues[0].End)
	assert.Equal(t, "Hello\nthere", cues[0].Text)
	assert.Equal(t, 1, cues[0].Track)
	assert.Equal(t, 0, cues[0].Index)
	assert.Equal(t, cues[0].Start, cues[0].OriginalStart)

	assert.Equal(t, time.Minute+2250*time.Millisecond, cues[1].Start)
	assert.Equal(t, 1, cues[1].Index)
}

func TestParse_VTT(t *testing.T) {
	vtt := `WEBVTT

NOTE this is ignored

intro
00:01.500 --> 00:04.000 align:start position:10%
First line

01:00:00.000 --> 01:00:02.000
Second
`
	cues, err := Parse(strings.NewReader(vtt), FormatVTT, 0)
	require.NoError(t, err)
	require.Len(t, cues, 2)

	assert.Equal(t, 1500*time.Millisecond, cues[0].Start)
	assert.Equal(t, 4*time.Second, cues[0].End)
	assert.Equal(t, "First line", cues[0].Text)
	assert.Equal(t, time.Hour, cues[1].Start)
}

func TestParse_LRC(t *testing.T) {
	lrc := `[ar:Artist]
[00:12.34]First line
[00:15.5]Second line
[00:20.00]
[00:30.00][00:40.00]Chorus`

	cues, err := Parse(strings.NewReader(lrc), FormatLRC, 0)
	require.NoError(t, err)
	require.Len(t, cues, 4)

	assert.Equal(t, 12340*time.Millisecond, cues[0].Start)
	assert.Equal(t, 15500*time.Millisecond, cues[0].End)
	assert.Equal(t, 20*time.Second, cues[1].End)
	assert.Equal(t, "Chorus", cues[2].Text)
	assert.Equal(t, 40*time.Second, cues[2].End)
	assert.Equal(t, 45*time.Second, cues[3].End)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), FormatUnknown, 0)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParse_InvalidTimestamp(t *testing.T) {
	_, err := parseClockTimestamp("12:xx:00,000")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"movie.srt", FormatSRT},
		{"movie.EN.VTT", FormatVTT},
		{"song.lrc", FormatLRC},
		{"movie.ass", FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.path), tt.path)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.srt")
	require.NoError(t, os.WriteFile(path, []byte("1\n00:00:00,000 --> 00:00:01,000\nCafé\n"), 0o644))

	cues, err := ParseFile(path, 0)
	require.NoError(t, err)
	require.Len(t, cues, 1)
	assert.Equal(t, "Café", cues[0].Text)

	_, err = ParseFile(filepath.Join(dir, "a.ass"), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
