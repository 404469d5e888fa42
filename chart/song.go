package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrUnknownKey is returned by Song.Set for keys outside the [Song] vocabulary.
var ErrUnknownKey = errors.New("unknown song key")

// Keys of the [Song] section, in the order they are written.
var SongKeys = []string{
	"Name",
	"Artist",
	"Charter",
	"Offset",
	"Resolution",
	"Player2",
	"Difficulty",
	"PreviewStart",
	"PreviewEnd",
	"Genre",
	"MediaType",
	"MusicStream",
}

// DefaultResolution is the tick resolution assumed when a chart doesn't set one.
const DefaultResolution = 192

// Song metadata from the [Song] section. String values are kept exactly as written,
// including any surrounding quotes.
type Song struct {
	Name         string
	Artist       string
	Charter      string
	Offset       float64 // Seconds of audio before tick 0.
	Resolution   int     // Ticks per quarter note.
	Player2      string
	Difficulty   int
	PreviewStart float64
	PreviewEnd   float64
	Genre        string
	MediaType    string
	MusicStream  string

	// Keys that were explicitly set, so they are written back even when empty or zero.
	present map[string]bool
}

// Set parses value into the field named by key.
func (s *Song) Set(key, value string) error {
	var err error
	switch key {
	case "Name":
		s.Name = value
	case "Artist":
		s.Artist = value
	case "Charter":
		s.Charter = value
	case "Offset":
		err = setFloat(&s.Offset, value)
	case "Resolution":
		err = setInt(&s.Resolution, value)
	case "Player2":
		s.Player2 = value
	case "Difficulty":
		err = setInt(&s.Difficulty, value)
	case "PreviewStart":
		err = setFloat(&s.PreviewStart, value)
	case "PreviewEnd":
		err = setFloat(&s.PreviewEnd, value)
	case "Genre":
		s.Genre = value
	case "MediaType":
		s.MediaType = value
	case "MusicStream":
		s.MusicStream = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	s.markPresent(key)
	return nil
}

// SetOffset changes the audio offset and makes sure it is written out.
func (s *Song) SetOffset(offset float64) {
	s.Offset = offset
	s.markPresent("Offset")
}

func (s *Song) markPresent(key string) {
	if s.present == nil {
		s.present = make(map[string]bool)
	}
	s.present[key] = true
}

// Get returns the text form of a field and whether it should be written.
// A field is written when it was set explicitly or holds a non-zero value.
func (s *Song) Get(key string) (string, bool) {
	var value string
	var zero bool
	switch key {
	case "Name":
		value, zero = s.Name, s.Name == ""
	case "Artist":
		value, zero = s.Artist, s.Artist == ""
	case "Charter":
		value, zero = s.Charter, s.Charter == ""
	case "Offset":
		value, zero = formatFloat(s.Offset), s.Offset == 0
	case "Resolution":
		value, zero = strconv.Itoa(s.Resolution), s.Resolution == 0
	case "Player2":
		value, zero = s.Player2, s.Player2 == ""
	case "Difficulty":
		value, zero = strconv.Itoa(s.Difficulty), s.Difficulty == 0
	case "PreviewStart":
		value, zero = formatFloat(s.PreviewStart), s.PreviewStart == 0
	case "PreviewEnd":
		value, zero = formatFloat(s.PreviewEnd), s.PreviewEnd == 0
	case "Genre":
		value, zero = s.Genre, s.Genre == ""
	case "MediaType":
		value, zero = s.MediaType, s.MediaType == ""
	case "MusicStream":
		value, zero = s.MusicStream, s.MusicStream == ""
	default:
		return "", false
	}
	return value, !zero || s.present[key]
}

// setFloat stores a finite float in dst. dst is left alone on error.
func setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%q is not a finite number", value)
	}
	*dst = v
	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
