package chart

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Aggregate folds the records decoded from one note track section into notes.
//
// Note fragments sharing a tick become a single Note with one bit set per index.
// The note takes the duration of the first playable fragment; if playable fragments
// disagree, the first one wins and a warning is returned. Fragments at a tick with no
// playable lane, star power phrases and markers are returned as residual events.
func Aggregate(section string, records []Event) (map[uint32]Note, []Event, []Diagnostic) {
	byTime := make(map[uint32][]Event)
	for _, rec := range records {
		byTime[rec.Time] = append(byTime[rec.Time], rec)
	}

	times := maps.Keys(byTime)
	slices.Sort(times)

	notes := make(map[uint32]Note)
	var residual []Event
	var diags []Diagnostic

	for _, time := range times {
		var fragments []Event
		for _, rec := range byTime[time] {
			if rec.Kind == KindNote {
				fragments = append(fragments, rec)
			} else {
				residual = append(residual, rec)
			}
		}
		if len(fragments) == 0 {
			continue
		}

		note, playable, conflict := fold(time, fragments)
		if !playable {
			residual = append(residual, fragments...)
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Section:  section,
				Time:     time,
				HasTime:  true,
				Message:  "note flag has no playable note to apply to, keeping it as a track event",
			})
			continue
		}
		if conflict {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Section:  section,
				Time:     time,
				HasTime:  true,
				Message:  fmt.Sprintf("unequal note durations, keeping the first (%d)", note.Duration),
			})
		}
		notes[time] = note
	}

	return notes, residual, diags
}

// fold combines note fragments that share a tick. playable is false when none of
// the fragments is a playable lane.
func fold(time uint32, fragments []Event) (note Note, playable bool, conflict bool) {
	note.Time = time
	durations := make(map[uint32]bool)
	for _, frag := range fragments {
		note.Value |= 1 << frag.Value
		if frag.IsFlag() {
			continue
		}
		if !playable {
			note.Duration = frag.Duration
			playable = true
		}
		durations[frag.Duration] = true
	}
	return note, playable, len(durations) > 1
}

// FoldNotes is Aggregate for callers that only have note fragments, e.g. fragments at one tick.
// It returns false when no fragment is a playable lane.
func FoldNotes(fragments []Event) (Note, bool) {
	if len(fragments) == 0 {
		return Note{}, false
	}
	note, playable, _ := fold(fragments[0].Time, fragments)
	return note, playable
}
