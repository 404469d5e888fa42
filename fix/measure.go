package fix

import (
	"math"

	"github.com/QEStudios/ChartTidy/chart"
)

// NoLeadingMeasure makes sure there's a blank measure before the first note, without
// which HOPO calculations can be wrong at the start of a song.
//
// The audio offset is reduced by one second, everything except the start section is
// shifted forward by one measure, and a one second 4/4 measure at 240 BPM is inserted
// at tick 0. Offsets below one second can't make room, so the pass is skipped.
func (p *Pipeline) NoLeadingMeasure(doc *chart.Document) bool {
	if doc.Song.Offset < leadingMeasureSeconds {
		p.report(chart.SeverityInfo, chart.SongSection, "cannot fix no leading measure: offset %v is less than %d", doc.Song.Offset, leadingMeasureSeconds)
		return false
	}

	shift := doc.MeasureTicks()
	if overflows(doc, shift) {
		p.report(chart.SeverityWarning, chart.SongSection, "cannot fix no leading measure: shifting by %d ticks would overflow", shift)
		return false
	}

	// Offsets are stored to 3 d.p.
	doc.Song.SetOffset(math.Round((doc.Song.Offset-leadingMeasureSeconds)*1000) / 1000)

	syncTrack := make([]chart.Event, 0, len(doc.SyncTrack)+2)
	syncTrack = append(syncTrack,
		chart.NewTempo(0, leadingMeasureBPMT),
		chart.NewTimeSig(0, leadingMeasureNumerator),
	)
	doc.SyncTrack = append(syncTrack, chart.ShiftEvents(doc.SyncTrack, shift, nil)...)

	// The start section stays where it is.
	doc.Events = chart.ShiftEvents(doc.Events, shift, chart.IsStartMarker)

	for _, name := range doc.TrackNames() {
		track := doc.Tracks[name]
		track.Events = chart.ShiftEvents(track.Events, shift, nil)

		// Notes are keyed by time, so the map is rebuilt rather than edited.
		notes := track.SortedNotes()
		for i := range notes {
			notes[i].Time += shift
		}
		track.ReplaceNotes(notes)
	}

	p.report(chart.SeverityInfo, chart.SyncTrackSection, "inserted leading measure of %d/4 at %d BPM, shifted by %d ticks",
		leadingMeasureNumerator, leadingMeasureBPMT/1000, shift)
	return true
}

// overflows reports whether moving any tick forward by shift would wrap around.
func overflows(doc *chart.Document, shift uint32) bool {
	limit := uint32(math.MaxUint32) - shift
	check := func(events []chart.Event) bool {
		for _, evt := range events {
			if evt.Time > limit {
				return true
			}
		}
		return false
	}
	if check(doc.SyncTrack) || check(doc.Events) {
		return true
	}
	for _, track := range doc.Tracks {
		if check(track.Events) {
			return true
		}
		for time := range track.Notes {
			if time > limit {
				return true
			}
		}
	}
	return false
}
