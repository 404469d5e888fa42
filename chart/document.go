package chart

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Names of the fixed sections.
const (
	SongSection      = "Song"
	SyncTrackSection = "SyncTrack"
	EventsSection    = "Events"
)

// Text of the global markers the fix passes look for and insert.
const (
	SectionMarkerPrefix = "\"section"
	StartMarker         = "\"section Start\""
	EndMarker           = "\"end\""
)

var difficulties = []string{"Easy", "Medium", "Hard", "Expert"}

var instruments = []string{
	"Single",
	"DoubleGuitar",
	"DoubleBass",
	"DoubleRhythm",
	"EnhancedGuitar",
	"CoopLead",
	"CoopBass",
	"10KeyGuitar",
	"Drums",
	"DoubleDrums",
	"Vocals",
	"Keyboard",
	"GHLGuitar",
	"GHLBass",
}

// IsNoteTrack reports whether a section name follows the <Difficulty><Instrument> naming
// used for note tracks, e.g. "ExpertSingle" or "HardDoubleBass".
func IsNoteTrack(section string) bool {
	for _, d := range difficulties {
		rest, found := strings.CutPrefix(section, d)
		if !found {
			continue
		}
		for _, inst := range instruments {
			if rest == inst {
				return true
			}
		}
	}
	return false
}

// IsStartMarker reports whether a global event is the section marker at tick 0.
func IsStartMarker(evt Event) bool {
	return evt.Kind == KindMarker && evt.Time == 0 && strings.HasPrefix(evt.Text, SectionMarkerPrefix)
}

// A note track section. Notes holds the folded playable notes keyed by tick;
// Events holds everything else in the section (markers, star power, stray flags).
type Track struct {
	Events []Event
	Notes  map[uint32]Note
}

func NewTrack() *Track {
	return &Track{Notes: make(map[uint32]Note)}
}

// Times returns the ticks that have a note, in ascending order.
func (t *Track) Times() []uint32 {
	times := maps.Keys(t.Notes)
	slices.Sort(times)
	return times
}

// SortedNotes returns the track's notes in ascending time order.
func (t *Track) SortedNotes() []Note {
	times := t.Times()
	notes := make([]Note, 0, len(times))
	for _, time := range times {
		notes = append(notes, t.Notes[time])
	}
	return notes
}

// LastNote returns the note with the greatest tick.
func (t *Track) LastNote() (Note, bool) {
	var last Note
	found := false
	for time, note := range t.Notes {
		if !found || time > last.Time {
			last = note
			found = true
		}
	}
	return last, found
}

// HasStarPower reports whether the track has any star power phrase.
func (t *Track) HasStarPower() bool {
	for _, evt := range t.Events {
		if evt.Kind == KindStarPower {
			return true
		}
	}
	return false
}

// ReplaceNotes swaps the note map for one built from notes. Notes are keyed by their own Time.
func (t *Track) ReplaceNotes(notes []Note) {
	m := make(map[uint32]Note, len(notes))
	for _, n := range notes {
		m[n.Time] = n
	}
	t.Notes = m
}

// Merged returns residual events and unfolded notes as a single sorted list.
func (t *Track) Merged(opts EncodeOptions) []Event {
	opts = opts.withDefaults()
	out := make([]Event, 0, len(t.Events)+len(t.Notes))
	for _, evt := range t.Events {
		if opts.FeedbackSafe && evt.Kind == KindNote {
			switch evt.Value {
			case FlagTap:
				evt = NewMarker(evt.Time, opts.TapMarker)
			case FlagForce:
				evt = NewMarker(evt.Time, opts.ForceMarker)
			}
		}
		out = append(out, evt)
	}
	for _, note := range t.Notes {
		out = append(out, note.Unfold(opts.FeedbackSafe, opts.TapMarker, opts.ForceMarker)...)
	}
	SortEvents(out)
	return out
}

// The whole chart. A Document is built by one parse and then owned by whoever fixes
// and serializes it; nothing in it is shared with other documents.
type Document struct {
	Song      Song
	SyncTrack []Event
	Events    []Event
	Tracks    map[string]*Track

	// Note track names in the order they first appeared.
	trackOrder []string
}

func NewDocument() *Document {
	return &Document{Tracks: make(map[string]*Track)}
}

// Track returns the named note track, creating it if needed.
func (d *Document) Track(name string) *Track {
	if t, ok := d.Tracks[name]; ok {
		return t
	}
	t := NewTrack()
	d.Tracks[name] = t
	d.trackOrder = append(d.trackOrder, name)
	return t
}

// TrackNames returns the names of every note track in document order.
func (d *Document) TrackNames() []string {
	names := make([]string, 0, len(d.Tracks))
	seen := make(map[string]bool, len(d.Tracks))
	for _, name := range d.trackOrder {
		if _, ok := d.Tracks[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	// Tracks assigned directly to the map rather than through Track().
	var extra []string
	for name := range d.Tracks {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// Resolution returns the chart's ticks per quarter note, falling back to DefaultResolution.
func (d *Document) Resolution() uint32 {
	if d.Song.Resolution <= 0 {
		return DefaultResolution
	}
	return uint32(d.Song.Resolution)
}

// MeasureTicks is the length of one 4/4 measure in ticks.
func (d *Document) MeasureTicks() uint32 {
	return 4 * d.Resolution()
}

// NoteCount returns the number of folded notes across all tracks.
func (d *Document) NoteCount() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t.Notes)
	}
	return n
}
