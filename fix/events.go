package fix

import (
	"math"

	"github.com/QEStudios/ChartTidy/chart"
)

// MissingStartEvent inserts a section marker at tick 0 if there isn't one.
func (p *Pipeline) MissingStartEvent(doc *chart.Document) bool {
	for _, evt := range doc.Events {
		if chart.IsStartMarker(evt) {
			return false
		}
	}

	events := make([]chart.Event, 0, len(doc.Events)+1)
	events = append(events, chart.NewMarker(0, chart.StartMarker))
	doc.Events = append(events, doc.Events...)
	p.reportAt(chart.SeverityInfo, chart.EventsSection, 0, "inserted start section")
	return true
}

// MissingEndEvent appends an "end" marker after the last sustain of any track
// if the chart doesn't already have one.
func (p *Pipeline) MissingEndEvent(doc *chart.Document) bool {
	for _, evt := range doc.Events {
		if evt.Kind == chart.KindMarker && evt.Text == chart.EndMarker {
			return false
		}
	}

	var end uint64
	found := false
	for _, name := range doc.TrackNames() {
		last, ok := doc.Tracks[name].LastNote()
		if !ok {
			continue // No notes in this section.
		}
		if !found || last.End() > end {
			end = last.End()
			found = true
		}
	}
	if !found {
		p.report(chart.SeverityWarning, chart.EventsSection, "cannot insert end event: no notes in any track")
		return false
	}

	end += uint64(p.opts.EndPadding)
	if end > math.MaxUint32 {
		p.report(chart.SeverityWarning, chart.EventsSection, "cannot insert end event: end time %d out of range", end)
		return false
	}

	doc.Events = append(doc.Events, chart.NewMarker(uint32(end), chart.EndMarker))
	p.reportAt(chart.SeverityInfo, chart.EventsSection, uint32(end), "inserted end event")
	return true
}
