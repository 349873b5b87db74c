// Package dualtrack aligns a native-language track to the timing of the
// target-language track.
package dualtrack

import (
	"strings"
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/subtitle"
)

// Source is the cue index the merger reads slave cues from.
type Source interface {
	HasTrack(track int) bool
	TrackDisabled(track int) bool
	Overlapping(track int, start, end time.Duration) []subtitle.Cue
}

// Merger rewrites the showing set so the slave track follows the master.
type Merger struct {
	Master int
	Slave  int
}

// New returns a merger for the conventional master/slave track numbers.
func New() Merger {
	return Merger{Master: subtitle.TrackMaster, Slave: subtitle.TrackSlave}
}

// Active reports whether src has both tracks and the slave is enabled.
func (m Merger) Active(src Source) bool {
	return src.HasTrack(m.Master) && src.HasTrack(m.Slave) && !src.TrackDisabled(m.Slave)
}

// Merge returns showing with every slave cue replaced by at most one
// synthesized cue spanning the showing master cue. Without a master cue no
// slave cue is shown. showing is returned unchanged when the merger is not
// Active.
func (m Merger) Merge(src Source, showing []subtitle.Cue) []subtitle.Cue {
	if !m.Active(src) {
		return showing
	}

	var (
		master    subtitle.Cue
		hasMaster bool
	)
	out := make([]subtitle.Cue, 0, len(showing))
	for _, cue := range showing {
		if cue.Track == m.Slave {
			continue
		}
		if cue.Track == m.Master && !hasMaster {
			master, hasMaster = cue, true
		}
		out = append(out, cue)
	}
	if !hasMaster {
		return out
	}

	if merged, ok := m.mergedSlave(src, master); ok {
		out = append(out, merged)
	}
	return out
}

func (m Merger) mergedSlave(src Source, master subtitle.Cue) (subtitle.Cue, bool) {
	contributing := src.Overlapping(m.Slave, master.Start, master.End)
	if len(contributing) == 0 {
		return subtitle.Cue{}, false
	}
	texts := make([]string, 0, len(contributing))
	for _, cue := range contributing {
		texts = append(texts, cue.Text)
	}
	text := JoinText(texts)
	if text == "" {
		return subtitle.Cue{}, false
	}

	first := contributing[0]
	return subtitle.Cue{
		Start:         master.Start,
		End:           master.End,
		OriginalStart: first.OriginalStart,
		OriginalEnd:   contributing[len(contributing)-1].OriginalEnd,
		Track:         m.Slave,
		Index:         first.Index,
		Text:          text,
	}, true
}

// JoinText concatenates cue texts with single spaces and drops dash tokens
// left floating at either end or doubled up by the concatenation.
func JoinText(texts []string) string {
	tokens := strings.Fields(strings.Join(texts, " "))
	out := tokens[:0]
	for _, tok := range tokens {
		if isDash(tok) && (len(out) == 0 || isDash(out[len(out)-1])) {
			continue
		}
		out = append(out, tok)
	}
	for len(out) > 0 && isDash(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return strings.Join(out, " ")
}

func isDash(tok string) bool {
	return strings.Trim(tok, "-–—") == ""
}
