package dotchart

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/QEStudios/ChartTidy/chart"
)

// Longest line the scanner accepts. Lyrics and section names can get long.
const maxLineLength = 1024 * 1024

const utf8BOM = "\ufeff"

// Options for decoding note track markers.
type Options struct {
	// Note track marker texts that are read as the tap and HOPO flip flags.
	TapMarker   string
	ForceMarker string
}

func DefaultOptions() Options {
	return Options{
		TapMarker:   chart.DefaultTapMarker,
		ForceMarker: chart.DefaultForceMarker,
	}
}

// Where the section reader is relative to a [Section] { ... } block.
type state int

const (
	stateOutside    state = iota // No current section.
	stateHeaderRead              // Section name read, waiting for "{".
	stateInBlock                 // Reading records.
)

func (s state) String() string {
	switch s {
	case stateOutside:
		return "outside section"
	case stateHeaderRead:
		return "after section header"
	case stateInBlock:
		return "in section block"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Parser struct {
	scanner    *bufio.Scanner
	logger     *log.Logger
	opts       Options
	lineNumber int
	state      state
	section    string
	doc        *chart.Document

	// Decoded note track records per section, folded into notes once the input ends.
	fragments map[string][]chart.Event

	// Sections we don't understand, so they're only reported once.
	unknownSections map[string]bool

	// Collect any diagnostics whilst parsing.
	diagnostics []chart.Diagnostic

	// Whether or not the parser has already been used.
	// Parsing can only be done once per Parser.
	used bool
}

type ParseResult struct {
	Document    *chart.Document
	Diagnostics []chart.Diagnostic
	// False if any diagnostic is an error. The document is still as complete as possible.
	OK bool
}

// NewParser creates a new parser to parse a chart.
func NewParser(r io.Reader, logger *log.Logger, opts Options) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	if opts.TapMarker == "" {
		opts.TapMarker = chart.DefaultTapMarker
	}
	if opts.ForceMarker == "" {
		opts.ForceMarker = chart.DefaultForceMarker
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Parser{
		scanner:         scanner,
		logger:          logger,
		opts:            opts,
		state:           stateOutside,
		doc:             chart.NewDocument(),
		fragments:       make(map[string][]chart.Event),
		unknownSections: make(map[string]bool),
	}
}

// Parse parses text in one go, returning the document, every diagnostic and whether
// the text parsed without errors.
func Parse(text string, logger *log.Logger, opts Options) (*chart.Document, []chart.Diagnostic, bool) {
	result, err := NewParser(strings.NewReader(text), logger, opts).Parse()
	if err != nil {
		// Reading from a strings.Reader can't fail, and the parser is fresh.
		panic(fmt.Sprintf("parsing in-memory chart: %v", err))
	}
	return result.Document, result.Diagnostics, result.OK
}

func (p *Parser) addDiagnostic(sev chart.Severity, format string, args ...any) {
	d := chart.Diagnostic{
		Severity: sev,
		Line:     p.lineNumber,
		Section:  p.section,
		Message:  fmt.Sprintf(format, args...),
	}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Print(d)
}

func (p *Parser) addTimedDiagnostic(sev chart.Severity, time uint32, format string, args ...any) {
	d := chart.Diagnostic{
		Severity: sev,
		Line:     p.lineNumber,
		Section:  p.section,
		Time:     time,
		HasTime:  true,
		Message:  fmt.Sprintf(format, args...),
	}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Print(d)
}

// Parse reads the whole input. Malformed lines never stop parsing; they're reported
// as diagnostics. An error is only returned if the input can't be read.
func (p *Parser) Parse() (*ParseResult, error) {
	if p.used {
		return nil, fmt.Errorf("parser already used")
	}
	p.used = true

	for p.scanner.Scan() {
		p.lineNumber++
		line := p.scanner.Text()
		if p.lineNumber == 1 {
			// Editors often save charts with a UTF-8 byte order mark.
			line = strings.TrimPrefix(line, utf8BOM)
		}
		line = strings.TrimSpace(line)

		// Blank lines are always ignored regardless of location in the file.
		if line == "" {
			continue
		}

		switch p.state {
		case stateOutside:
			name, ok := parseSectionHeader(line)
			if !ok {
				p.addDiagnostic(chart.SeverityError, "expected a section header, found: %s", line)
				continue
			}
			p.section = name
			p.state = stateHeaderRead

		case stateHeaderRead:
			if line != "{" {
				p.addDiagnostic(chart.SeverityError, "expected '{' to open section, found: %s", line)
				continue
			}
			p.state = stateInBlock
			p.openSection()

		case stateInBlock:
			if line == "}" {
				p.state = stateOutside
				p.section = ""
				continue
			}
			p.decodeLine(line)
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: error while reading chart: %w", p.lineNumber, err)
	}

	if p.state != stateOutside {
		p.addDiagnostic(chart.SeverityError, "unexpected end of input %s", p.state)
	}

	p.section = ""
	p.aggregateNotes()

	return &ParseResult{
		Document:    p.doc,
		Diagnostics: p.diagnostics,
		OK:          !chart.HasErrors(p.diagnostics),
	}, nil
}

// parseSectionHeader returns the name inside a "[name]" line.
func parseSectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}

// openSection is called when a block opens, so note tracks keep the order they appear in
// even when empty.
func (p *Parser) openSection() {
	switch p.section {
	case chart.SongSection, chart.SyncTrackSection, chart.EventsSection:
	default:
		if chart.IsNoteTrack(p.section) {
			p.doc.Track(p.section)
			return
		}
		if !p.unknownSections[p.section] {
			p.unknownSections[p.section] = true
			p.addDiagnostic(chart.SeverityError, "unknown section, skipping its contents")
		}
	}
}

func (p *Parser) decodeLine(line string) {
	var err error
	switch p.section {
	case chart.SongSection:
		err = p.decodeSongLine(line)
	case chart.SyncTrackSection:
		err = p.decodeSyncTrackLine(line)
	case chart.EventsSection:
		err = p.decodeEventsLine(line)
	default:
		if !chart.IsNoteTrack(p.section) {
			return // Already reported once in openSection.
		}
		err = p.decodeNoteTrackLine(line)
	}
	if err != nil {
		p.addDiagnostic(chart.SeverityError, "%v: %s", err, line)
	}
}

func (p *Parser) aggregateNotes() {
	for _, name := range p.doc.TrackNames() {
		notes, residual, diags := chart.Aggregate(name, p.fragments[name])
		track := p.doc.Track(name)
		track.Notes = notes
		track.Events = residual
		for _, d := range diags {
			p.logger.Print(d)
		}
		p.diagnostics = append(p.diagnostics, diags...)
	}
}
