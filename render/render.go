// Package render draws note tracks as rows of ASCII lanes, one column per time unit.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/QEStudios/ChartTidy/chart"
)

const (
	glyphEmpty = '-'
	glyphNote  = 'x'
	glyphTap   = 'e'
	glyphBar   = '|'
)

var laneLabels = [chart.NumLanes]string{"G", "R", "Y", "B", "O"}

// ANSI colours matching the fret colours.
var laneColours = [chart.NumLanes]lipgloss.Color{"2", "1", "3", "4", "208"}

type Options struct {
	TicksPerColumn uint32
	ColumnsPerBar  int
	BarsPerRow     int
	// Draw without any styling even if the writer is a colour terminal.
	NoColor bool
}

func DefaultOptions() Options {
	return Options{
		TicksPerColumn: 48,
		ColumnsPerBar:  48,
		BarsPerRow:     2,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TicksPerColumn == 0 {
		o.TicksPerColumn = def.TicksPerColumn
	}
	if o.ColumnsPerBar <= 0 {
		o.ColumnsPerBar = def.ColumnsPerBar
	}
	if o.BarsPerRow <= 0 {
		o.BarsPerRow = def.BarsPerRow
	}
	return o
}

type styles struct {
	lanes [chart.NumLanes]lipgloss.Style
	tap   [chart.NumLanes]lipgloss.Style
	empty lipgloss.Style
	bar   lipgloss.Style
	title lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	r := lipgloss.NewRenderer(w)
	var s styles
	if noColor {
		for i := range s.lanes {
			s.lanes[i] = r.NewStyle()
			s.tap[i] = r.NewStyle()
		}
		s.empty, s.bar, s.title = r.NewStyle(), r.NewStyle(), r.NewStyle()
		return s
	}
	for i, c := range laneColours {
		s.lanes[i] = r.NewStyle().Foreground(c)
		s.tap[i] = r.NewStyle().Foreground(c).Bold(true)
	}
	s.empty = r.NewStyle().Faint(true)
	s.bar = r.NewStyle().Foreground(lipgloss.Color("8"))
	s.title = r.NewStyle().Bold(true)
	return s
}

// A column of the lane grid. Each entry is a lane glyph.
type column [chart.NumLanes]rune

func emptyColumn() column {
	var c column
	for i := range c {
		c[i] = glyphEmpty
	}
	return c
}

// columns lays the track's notes out on the grid. Notes falling into the same column
// are merged.
func columns(track *chart.Track, ticksPerColumn uint32) []column {
	times := track.Times()
	if len(times) == 0 {
		return nil
	}
	cols := make([]column, times[len(times)-1]/ticksPerColumn+1)
	for i := range cols {
		cols[i] = emptyColumn()
	}
	for _, time := range times {
		note := track.Notes[time]
		c := &cols[time/ticksPerColumn]
		for lane := uint32(0); lane < chart.NumLanes; lane++ {
			if !note.Has(lane) {
				continue
			}
			if note.IsTap() || c[lane] == glyphTap {
				c[lane] = glyphTap
			} else {
				c[lane] = glyphNote
			}
		}
	}
	return cols
}

// Render writes the song header followed by every note track.
func Render(w io.Writer, doc *chart.Document, opts Options) error {
	opts = opts.withDefaults()
	st := newStyles(w, opts.NoColor)

	var b strings.Builder
	fmt.Fprintf(&b, "Name:   \t%s\n", doc.Song.Name)
	fmt.Fprintf(&b, "Artist: \t%s\n", doc.Song.Artist)
	fmt.Fprintf(&b, "Charter:\t%s\n", doc.Song.Charter)
	b.WriteString("\n")

	for _, name := range doc.TrackNames() {
		b.WriteString(st.title.Render(name))
		b.WriteString("\n\n")
		writeTrack(&b, st, columns(doc.Tracks[name], opts.TicksPerColumn), opts)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing render: %w", err)
	}
	return nil
}

func writeTrack(b *strings.Builder, st styles, cols []column, opts Options) {
	perRow := opts.ColumnsPerBar * opts.BarsPerRow
	for start := 0; start == 0 || start < len(cols); start += perRow {
		row := cols[start:min(start+perRow, len(cols))]
		for lane := 0; lane < chart.NumLanes; lane++ {
			b.WriteString(laneLabels[lane])
			b.WriteString(st.bar.Render(string(glyphBar)))
			for i, c := range row {
				b.WriteString(glyph(st, lane, c[lane]))
				if (i+1)%opts.ColumnsPerBar == 0 && i+1 < len(row) {
					b.WriteString(st.bar.Render(string(glyphBar)))
				}
			}
			if len(row) > 0 {
				b.WriteString(st.bar.Render(string(glyphBar)))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func glyph(st styles, lane int, g rune) string {
	switch g {
	case glyphNote:
		return st.lanes[lane].Render(string(g))
	case glyphTap:
		return st.tap[lane].Render(string(g))
	default:
		return st.empty.Render(string(g))
	}
}
