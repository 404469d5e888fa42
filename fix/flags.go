package fix

import (
	"github.com/QEStudios/ChartTidy/chart"
)

// flagFor returns the flag index a residual event stands for, if any. Both marker text and
// stray flag fragments count.
func (p *Pipeline) flagFor(evt chart.Event) (uint32, bool) {
	switch evt.Kind {
	case chart.KindMarker:
		switch evt.Text {
		case p.opts.TapMarker:
			return chart.FlagTap, true
		case p.opts.ForceMarker:
			return chart.FlagForce, true
		}
	case chart.KindNote:
		if evt.IsFlag() && (evt.Value == chart.FlagTap || evt.Value == chart.FlagForce) {
			return evt.Value, true
		}
	}
	return 0, false
}

// SetNoteFlags folds tap and HOPO flip markers into the flag bits of the note at the same
// tick. Markers with no note at their tick are left where they are.
func (p *Pipeline) SetNoteFlags(section string, track *chart.Track) bool {
	if track == nil {
		return false
	}

	events := make([]chart.Event, 0, len(track.Events))
	changed := false
	for _, evt := range track.Events {
		flag, ok := p.flagFor(evt)
		if !ok {
			events = append(events, evt)
			continue
		}
		note, ok := track.Notes[evt.Time]
		if !ok {
			p.reportAt(chart.SeverityWarning, section, evt.Time, "no note to set flag %d on, keeping %s", flag, evt.Payload())
			events = append(events, evt)
			continue
		}
		note.Value |= 1 << flag
		track.Notes[evt.Time] = note
		changed = true
	}

	if changed {
		track.Events = events
	}
	return changed
}

// UnsetNoteFlags is the inverse of SetNoteFlags: tap and HOPO flip bits are cleared from
// every note and written back out as marker events.
func (p *Pipeline) UnsetNoteFlags(section string, track *chart.Track) bool {
	if track == nil {
		return false
	}

	notes := track.SortedNotes()
	events := track.Events
	changed := false
	for i, note := range notes {
		if note.IsTap() {
			events = append(events, chart.NewMarker(note.Time, p.opts.TapMarker))
			notes[i].Value &^= 1 << chart.FlagTap
			changed = true
		}
		if note.IsForce() {
			events = append(events, chart.NewMarker(note.Time, p.opts.ForceMarker))
			notes[i].Value &^= 1 << chart.FlagForce
			changed = true
		}
	}

	if changed {
		track.Events = events
		track.ReplaceNotes(notes)
		p.report(chart.SeverityInfo, section, "moved tap and HOPO flip flags to track events")
	}
	return changed
}
