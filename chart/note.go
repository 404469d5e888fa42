package chart

import (
	"fmt"
	"math/bits"
)

// Note indices as they appear in "N index duration" records.
const (
	LaneGreen  = 0
	LaneRed    = 1
	LaneYellow = 2
	LaneBlue   = 3
	LaneOrange = 4
	FlagForce  = 5 // HOPO flip.
	FlagTap    = 6
	LaneOpen   = 7

	NumLanes     = 5
	MaxNoteIndex = 31
)

// Bits of Note.Value that are sustainable, playable lanes.
const playableMask uint32 = (1<<NumLanes - 1) | 1<<LaneOpen

// IsPlayableIndex reports whether a note index is a playable lane rather than a flag.
func IsPlayableIndex(index uint32) bool {
	return index <= MaxNoteIndex && playableMask&(1<<index) != 0
}

// A note folded from every note fragment sharing a tick.
// Value holds one bit per note index present at Time.
type Note struct {
	Time     uint32
	Value    uint32
	Duration uint32
}

func (n Note) Has(index uint32) bool {
	return index <= MaxNoteIndex && n.Value&(1<<index) != 0
}

func (n Note) IsTap() bool   { return n.Has(FlagTap) }
func (n Note) IsForce() bool { return n.Has(FlagForce) }

// Playable returns only the playable lane bits of the note.
func (n Note) Playable() uint32 {
	return n.Value & playableMask
}

// EqualsPlayable is true when both notes press the same set of lanes, ignoring tap/force status.
func (n Note) EqualsPlayable(other Note) bool {
	return n.Playable() == other.Playable()
}

// End returns the tick at which the note's sustain finishes.
func (n Note) End() uint64 {
	return uint64(n.Time) + uint64(n.Duration)
}

// Unfold expands the note back into one fragment per set bit, lowest index first.
// Flag bits are not sustainable, so their fragments always have a duration of zero.
// When feedbackSafe is set, the tap and force bits become marker events instead.
func (n Note) Unfold(feedbackSafe bool, tapMarker, forceMarker string) []Event {
	out := make([]Event, 0, bits.OnesCount32(n.Value))
	for b := uint32(0); b <= MaxNoteIndex; b++ {
		if !n.Has(b) {
			continue
		}
		if IsPlayableIndex(b) {
			out = append(out, NewNoteFragment(n.Time, b, n.Duration))
			continue
		}
		if feedbackSafe {
			switch b {
			case FlagTap:
				out = append(out, NewMarker(n.Time, tapMarker))
				continue
			case FlagForce:
				out = append(out, NewMarker(n.Time, forceMarker))
				continue
			}
		}
		out = append(out, NewNoteFragment(n.Time, b, 0))
	}
	return out
}

func (n Note) String() string {
	return fmt.Sprintf("[%d, 0b%08b, %d]", n.Time, n.Value, n.Duration)
}
