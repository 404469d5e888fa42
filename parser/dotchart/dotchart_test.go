package dotchart

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QEStudios/ChartTidy/chart"
)

var quiet = log.New(io.Discard, "", 0)

func errorsOf(diags []chart.Diagnostic) []chart.Diagnostic {
	var out []chart.Diagnostic
	for _, d := range diags {
		if d.Severity == chart.SeverityError {
			out = append(out, d)
		}
	}
	return out
}

func TestParse(t *testing.T) {
	const text = `[Song]
{
  Name = "Song"
  Offset = 0.25
  Resolution = 480
}

[SyncTrack]
{
  0 = TS 4
  0 = B 120000
}
[Events]
{
  0 = E "section Intro"
}
[ExpertSingle]
{
  0 = N 0 0
  0 = N 1 0
  480 = N 7 240
  480 = S 2 960
}
`
	doc, diags, ok := Parse(text, quiet, DefaultOptions())
	require.True(t, ok, spew.Sdump(diags))
	assert.Empty(t, diags)

	assert.Equal(t, `"Song"`, doc.Song.Name)
	assert.Equal(t, 0.25, doc.Song.Offset)
	assert.Equal(t, uint32(480), doc.Resolution())
	assert.Equal(t, []chart.Event{chart.NewTimeSig(0, 4), chart.NewTempo(0, 120000)}, doc.SyncTrack)
	assert.Equal(t, []chart.Event{chart.NewMarker(0, `"section Intro"`)}, doc.Events)

	track := doc.Tracks["ExpertSingle"]
	require.NotNil(t, track)
	assert.Equal(t, map[uint32]chart.Note{
		0:   {Time: 0, Value: 0b11},
		480: {Time: 480, Value: 1 << chart.LaneOpen, Duration: 240},
	}, track.Notes)
	assert.Equal(t, []chart.Event{chart.NewStarPower(480, 2, 960)}, track.Events)
}

func TestParseByteOrderMarkAndCRLF(t *testing.T) {
	text := "\ufeff[Song]\r\n{\r\n\tOffset = 2\r\n\tResolution = 480\r\n}\r\n" +
		"[ExpertSingle]\r\n{\r\n\t0 = N 0 0\r\n}\r\n"
	doc, diags, ok := Parse(text, quiet, DefaultOptions())
	require.True(t, ok, spew.Sdump(diags))
	assert.Empty(t, diags)

	assert.Equal(t, 2.0, doc.Song.Offset)
	assert.Equal(t, uint32(480), doc.Resolution())
	assert.Len(t, doc.Tracks["ExpertSingle"].Notes, 1)
	assert.Contains(t, chart.Serialize(doc), "[Song]\n{\n\tOffset = 2\n\tResolution = 480\n}\n")
}

func TestParseByteOrderMarkOnlyOnFirstLine(t *testing.T) {
	_, diags, ok := Parse("[Song]\n{\n}\n\ufeff[Events]\n{\n}\n", quiet, DefaultOptions())
	assert.False(t, ok)
	errs := errorsOf(diags)
	require.NotEmpty(t, errs)
	assert.Equal(t, 4, errs[0].Line)
}

func TestParseMarkers(t *testing.T) {
	text := "[ExpertSingle]\n{\n\t0 = N 0 0\n\t0 = E T\n\t10 = N 1 0\n\t10 = E F\n\t10 = E t\n\t20 = E orphan\n}\n"
	doc, diags, ok := Parse(text, quiet, Options{TapMarker: "T", ForceMarker: "F"})
	require.True(t, ok)

	notes := doc.Tracks["ExpertSingle"].Notes
	assert.True(t, notes[0].IsTap())
	assert.True(t, notes[10].IsForce())
	assert.False(t, notes[10].IsTap(), "default tap marker isn't special once overridden")
	assert.Empty(t, doc.Tracks["ExpertSingle"].Events)

	assert.Equal(t, 2, chart.Count(diags, chart.SeverityInfo))
	assert.Equal(t, 2, chart.Count(diags, chart.SeverityWarning))
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		messages []string
		lines    []int
	}{
		{
			name:     "line outside section",
			text:     "0 = N 0 0\n[Song]\n{\n}\n",
			messages: []string{"expected a section header"},
			lines:    []int{1},
		},
		{
			name:     "missing open brace",
			text:     "[Song]\nName = x\n{\n}\n",
			messages: []string{"expected '{' to open section"},
			lines:    []int{2},
		},
		{
			name:     "unterminated section",
			text:     "[Events]\n{\n0 = E x\n",
			messages: []string{"unexpected end of input in section block"},
			lines:    []int{3},
		},
		{
			name:     "header without block",
			text:     "[Events]\n",
			messages: []string{"unexpected end of input after section header"},
			lines:    []int{1},
		},
		{
			name:     "unknown section reported once",
			text:     "[Lyrics]\n{\n0 = E x\n}\n[Lyrics]\n{\n}\n",
			messages: []string{"unknown section"},
			lines:    []int{2},
		},
		{
			name: "bad records",
			text: "[Song]\n{\nTempo = 1\nOffset = abc\n}\n[SyncTrack]\n{\n0 = X 1\nx = B 1\n0 = B\n}\n" +
				"[Events]\n{\n0 = N 0 0\n}\n[ExpertSingle]\n{\n0 = N 32 0\n0 = N 1\n0 = Q 1 1\n0 N 0 0\n}\n",
			messages: []string{
				"unknown song key", "invalid value for Offset",
				"unknown sync track event type", "invalid time", "invalid B value",
				"unknown event type",
				"note index 32 out of range", "expected 'index duration'", "unknown note track event type", "expected 'time = TYPE value'",
			},
			lines: []int{3, 4, 8, 9, 10, 14, 18, 19, 20, 21},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags, ok := Parse(tt.text, quiet, DefaultOptions())
			assert.False(t, ok)
			errs := errorsOf(diags)
			require.Len(t, errs, len(tt.messages), spew.Sdump(diags))
			for i, d := range errs {
				assert.Contains(t, d.Message, tt.messages[i])
				assert.Equal(t, tt.lines[i], d.Line, d.String())
			}
		})
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	text := "garbage\n[ExpertSingle]\n{\n0 = N 0 0\nbroken\n96 = N 1 0\n}\n"
	doc, _, ok := Parse(text, quiet, DefaultOptions())
	assert.False(t, ok)
	assert.Len(t, doc.Tracks["ExpertSingle"].Notes, 2)
}

func TestParseTrackOrder(t *testing.T) {
	doc, _, ok := Parse("[HardSingle]\n{\n}\n[ExpertSingle]\n{\n0 = N 0 0\n}\n[HardSingle]\n{\n10 = N 0 0\n}\n", quiet, DefaultOptions())
	require.True(t, ok)
	assert.Equal(t, []string{"HardSingle", "ExpertSingle"}, doc.TrackNames())
	assert.Len(t, doc.Tracks["HardSingle"].Notes, 1)
}

func TestParserLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	_, _, _ = Parse("[Nope]\n{\n}\n", log.New(&buf, "", 0), DefaultOptions())
	assert.Equal(t, "error line 2 [Nope]: unknown section, skipping its contents\n", buf.String())
}

func TestParserSingleUse(t *testing.T) {
	p := NewParser(strings.NewReader(""), quiet, DefaultOptions())
	res, err := p.Parse()
	require.NoError(t, err)
	assert.True(t, res.OK)

	_, err = p.Parse()
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParserReadError(t *testing.T) {
	_, err := NewParser(failingReader{}, quiet, DefaultOptions()).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSplitRecord(t *testing.T) {
	time, tag, payload, err := splitRecord(`  768 =   E   "section Verse 1" `)
	require.NoError(t, err)
	assert.Equal(t, uint32(768), time)
	assert.Equal(t, "E", tag)
	assert.Equal(t, `"section Verse 1"`, payload)

	_, _, _, err = splitRecord("4294967296 = B 1")
	assert.Error(t, err)
}
