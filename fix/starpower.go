package fix

import (
	"sort"

	"github.com/QEStudios/ChartTidy/chart"
)

// Star power phrases use index 2 in every track the editors write.
const starPowerIndex = 2

// MissingStarPower adds evenly spaced star power phrases to note tracks that have none.
// A phrase starts on every (phrase + interval) measure boundary, but only where at least
// one note starts inside it.
func (p *Pipeline) MissingStarPower(doc *chart.Document) bool {
	sp := p.opts.StarPower
	if !sp.Enabled {
		return false
	}
	if sp.PhraseMeasures == 0 {
		p.report(chart.SeverityWarning, "", "cannot insert star power: phrase length is 0 measures")
		return false
	}

	measure := uint64(doc.MeasureTicks())
	phrase := uint64(sp.PhraseMeasures) * measure
	step := uint64(sp.PhraseMeasures+sp.IntervalMeasures) * measure

	changed := false
	for _, name := range doc.TrackNames() {
		track := doc.Tracks[name]
		if track.HasStarPower() || len(track.Notes) == 0 {
			continue
		}

		times := track.Times()
		last := uint64(times[len(times)-1])
		inserted := 0
		for start := uint64(0); start <= last; start += step {
			// First note at or after the phrase start.
			i := sort.Search(len(times), func(i int) bool { return uint64(times[i]) >= start })
			if i == len(times) || uint64(times[i]) >= start+phrase {
				continue
			}
			track.Events = append(track.Events, chart.NewStarPower(uint32(start), starPowerIndex, uint32(phrase)))
			inserted++
		}

		if inserted > 0 {
			p.report(chart.SeverityInfo, name, "inserted %d star power phrases", inserted)
			changed = true
		}
	}
	return changed
}
