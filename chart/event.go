package chart

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Kind identifies which record type an Event holds.
type Kind int

const (
	KindMarker    Kind = iota // Free text marker, "E text".
	KindTempo                 // Tempo change, "B bpm*1000".
	KindTimeSig               // Time signature numerator, "TS n".
	KindNote                  // Note fragment, "N index duration".
	KindStarPower             // Star power phrase, "S index duration".
)

func (k Kind) isValid() bool {
	switch k {
	case KindMarker, KindTempo, KindTimeSig, KindNote, KindStarPower:
		return true
	default:
		return false
	}
}

// Tag returns the record type tag used for the kind in chart text.
func (k Kind) Tag() string {
	switch k {
	case KindMarker:
		return "E"
	case KindTempo:
		return "B"
	case KindTimeSig:
		return "TS"
	case KindNote:
		return "N"
	case KindStarPower:
		return "S"
	default:
		return ""
	}
}

// KindForTag is the inverse of Kind.Tag.
func KindForTag(tag string) (Kind, bool) {
	switch tag {
	case "E":
		return KindMarker, true
	case "B":
		return KindTempo, true
	case "TS":
		return KindTimeSig, true
	case "N":
		return KindNote, true
	case "S":
		return KindStarPower, true
	default:
		return 0, false
	}
}

// A single timed record in one of the chart's sections.
//
// Only the fields relevant to Kind are meaningful:
// markers use Text, tempo and time signature events use Value,
// note fragments and star power phrases use Value (the index) and Duration.
type Event struct {
	Time     uint32
	Kind     Kind
	Text     string
	Value    uint32
	Duration uint32
}

func NewMarker(time uint32, text string) Event {
	return Event{Time: time, Kind: KindMarker, Text: text}
}

func NewTempo(time uint32, bpmT uint32) Event {
	return Event{Time: time, Kind: KindTempo, Value: bpmT}
}

func NewTimeSig(time uint32, numerator uint32) Event {
	return Event{Time: time, Kind: KindTimeSig, Value: numerator}
}

func NewNoteFragment(time uint32, index uint32, duration uint32) Event {
	return Event{Time: time, Kind: KindNote, Value: index, Duration: duration}
}

func NewStarPower(time uint32, index uint32, duration uint32) Event {
	return Event{Time: time, Kind: KindStarPower, Value: index, Duration: duration}
}

// IsFlag reports whether the event is a note fragment carrying a non-playable flag index.
func (e Event) IsFlag() bool {
	return e.Kind == KindNote && !IsPlayableIndex(e.Value)
}

// Payload returns the right hand side of the record, e.g. "N 0 24" or "E \"end\"".
func (e Event) Payload() string {
	if !e.Kind.isValid() {
		panic(fmt.Sprintf("unhandled event kind %d", e.Kind))
	}
	switch e.Kind {
	case KindMarker:
		if e.Text == "" {
			return "E"
		}
		return "E " + e.Text
	case KindTempo, KindTimeSig:
		return fmt.Sprintf("%s %d", e.Kind.Tag(), e.Value)
	default:
		return fmt.Sprintf("%s %d %d", e.Kind.Tag(), e.Value, e.Duration)
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%d = %s", e.Time, e.Payload())
}

// compareEvents orders by time, then tag, then text, then value, then duration.
func compareEvents(a, b Event) int {
	switch {
	case a.Time != b.Time:
		return cmpUint(a.Time, b.Time)
	case a.Kind != b.Kind:
		return strings.Compare(a.Kind.Tag(), b.Kind.Tag())
	case a.Text != b.Text:
		return strings.Compare(a.Text, b.Text)
	case a.Value != b.Value:
		return cmpUint(a.Value, b.Value)
	default:
		return cmpUint(a.Duration, b.Duration)
	}
}

func cmpUint(a, b uint32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// SortEvents sorts events in place into serialization order.
func SortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) bool {
		return compareEvents(a, b) < 0
	})
}

// ShiftEvents returns a copy of events with every time moved forward by delta,
// except the events for which keep returns true.
func ShiftEvents(events []Event, delta uint32, keep func(Event) bool) []Event {
	out := make([]Event, 0, len(events))
	for _, evt := range events {
		if keep == nil || !keep(evt) {
			evt.Time += delta
		}
		out = append(out, evt)
	}
	return out
}
