package fix

import (
	"github.com/QEStudios/ChartTidy/chart"
)

// SustainGap shortens sustains that end too close to the next note. Only durations
// change, and a duration is never shortened past zero. Returns whether any note changed.
func (p *Pipeline) SustainGap(section string, track *chart.Track) bool {
	if track == nil || len(track.Notes) < 2 {
		return false
	}

	minGap := int64(p.opts.MinSustainGap)
	notes := track.SortedNotes()
	changed := false

	for i := 0; i < len(notes)-1; i++ {
		cur, next := notes[i], notes[i+1]
		if cur.Duration == 0 {
			continue
		}
		if p.opts.SkipRepeatNotes && cur.EqualsPlayable(next) {
			continue
		}

		gap := int64(next.Time) - int64(cur.End())
		if gap >= minGap {
			continue
		}

		deficit := minGap - gap
		newDuration := int64(cur.Duration) - deficit
		if newDuration < 0 {
			newDuration = 0
		}
		p.reportAt(chart.SeverityInfo, section, cur.Time, "sustain gap of %d ticks before %d, shortening duration %d -> %d",
			gap, next.Time, cur.Duration, newDuration)
		notes[i].Duration = uint32(newDuration)
		changed = true
	}

	if changed {
		track.ReplaceNotes(notes)
	}
	return changed
}
