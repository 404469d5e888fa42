package fix

import (
	"fmt"
	"log"

	"github.com/QEStudios/ChartTidy/chart"
)

// Time durations in ticks at the 192 tick resolution most charting programs use.
const (
	Duration1_1  = 768 // One measure.
	Duration1_32 = Duration1_1 / 32
)

const (
	// Ticks of padding between the end of the last note and the inserted end event.
	DefaultEndPadding = 100

	// Tempo (BPM * 1000) and time signature of the inserted leading measure.
	// One 4/4 measure at 240 BPM lasts exactly one second.
	leadingMeasureBPMT      = 240000
	leadingMeasureNumerator = 4
	leadingMeasureSeconds   = 1
)

// StarPowerOptions configures phrase insertion for tracks without star power.
type StarPowerOptions struct {
	Enabled          bool
	PhraseMeasures   uint32 // How long each phrase is.
	IntervalMeasures uint32 // Space between phrases.
}

type Options struct {
	// Smallest allowed gap between the end of a sustain and the next note.
	MinSustainGap uint32
	// Leave sustains alone when the next note presses the same lanes.
	SkipRepeatNotes bool
	EndPadding      uint32
	TapMarker       string
	ForceMarker     string
	StarPower       StarPowerOptions
}

func DefaultOptions() Options {
	return Options{
		MinSustainGap: Duration1_32,
		EndPadding:    DefaultEndPadding,
		TapMarker:     chart.DefaultTapMarker,
		ForceMarker:   chart.DefaultForceMarker,
		StarPower: StarPowerOptions{
			PhraseMeasures:   2,
			IntervalMeasures: 6,
		},
	}
}

// Pipeline runs corrective passes over a document. Passes never fail: a pass that
// can't apply logs why and leaves the document untouched.
type Pipeline struct {
	logger      *log.Logger
	opts        Options
	diagnostics []chart.Diagnostic
}

func NewPipeline(logger *log.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if opts.TapMarker == "" {
		opts.TapMarker = chart.DefaultTapMarker
	}
	if opts.ForceMarker == "" {
		opts.ForceMarker = chart.DefaultForceMarker
	}
	return &Pipeline{logger: logger, opts: opts}
}

// Diagnostics returns everything the passes have reported so far.
func (p *Pipeline) Diagnostics() []chart.Diagnostic {
	return p.diagnostics
}

func (p *Pipeline) report(sev chart.Severity, section string, format string, args ...any) {
	d := chart.Diagnostic{Severity: sev, Section: section, Message: fmt.Sprintf(format, args...)}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Print(d)
}

func (p *Pipeline) reportAt(sev chart.Severity, section string, time uint32, format string, args ...any) {
	d := chart.Diagnostic{
		Severity: sev,
		Section:  section,
		Time:     time,
		HasTime:  true,
		Message:  fmt.Sprintf(format, args...),
	}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Print(d)
}

// All runs every pass in order. The leading measure shift runs before the sustain gap
// pass so gaps are measured on the final note times.
func (p *Pipeline) All(doc *chart.Document) {
	p.MissingStartEvent(doc)
	p.MissingEndEvent(doc)
	p.NoLeadingMeasure(doc)
	p.MissingStarPower(doc)
	for _, name := range doc.TrackNames() {
		track := doc.Tracks[name]
		p.SetNoteFlags(name, track)
		p.SustainGap(name, track)
	}
}

// FeedbackSafe moves every flag bit back out to marker events, for editors that don't
// read flag-only note records.
func (p *Pipeline) FeedbackSafe(doc *chart.Document) {
	for _, name := range doc.TrackNames() {
		p.UnsetNoteFlags(name, doc.Tracks[name])
	}
}
