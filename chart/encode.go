package chart

import (
	"bytes"
	"fmt"
	"io"
)

// Default note track markers for the tap and HOPO flip flags.
const (
	DefaultTapMarker   = "t"
	DefaultForceMarker = "*"
)

// EncodeOptions controls how note flags are written.
type EncodeOptions struct {
	// Write tap/force flags as marker events instead of flag note indices,
	// for editors that don't understand the flag indices.
	FeedbackSafe bool
	TapMarker    string
	ForceMarker  string
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.TapMarker == "" {
		o.TapMarker = DefaultTapMarker
	}
	if o.ForceMarker == "" {
		o.ForceMarker = DefaultForceMarker
	}
	return o
}

// Encode serializes the document to chart text.
// Every section's records are sorted first, so encoding is deterministic and
// encoding a re-parsed encoding gives the same bytes.
func (d *Document) Encode(opts EncodeOptions) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer can't fail.
	_, _ = d.EncodeTo(&buf, opts)
	return buf.Bytes()
}

// EncodeTo writes the encoded document to w.
func (d *Document) EncodeTo(w io.Writer, opts EncodeOptions) (int64, error) {
	cw := &countingWriter{w: w}

	beginSection(cw, SongSection)
	for _, key := range SongKeys {
		if value, ok := d.Song.Get(key); ok {
			fmt.Fprintf(cw, "\t%s = %s\n", key, value)
		}
	}
	endSection(cw)

	writeEventSection(cw, SyncTrackSection, d.SyncTrack)
	writeEventSection(cw, EventsSection, d.Events)

	for _, name := range d.TrackNames() {
		writeEventSection(cw, name, d.Tracks[name].Merged(opts))
	}

	return cw.n, cw.err
}

// Serialize encodes the document with default options.
func Serialize(d *Document) string {
	return string(d.Encode(EncodeOptions{}))
}

func writeEventSection(w io.Writer, name string, events []Event) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	beginSection(w, name)
	for _, evt := range sorted {
		fmt.Fprintf(w, "\t%s\n", evt)
	}
	endSection(w)
}

func beginSection(w io.Writer, name string) {
	fmt.Fprintf(w, "[%s]\n{\n", name)
}

func endSection(w io.Writer) {
	fmt.Fprint(w, "}\n")
}

// countingWriter remembers the first error so section writers don't have to check every line.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
