package render

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QEStudios/ChartTidy/parser/dotchart"
)

func TestRender(t *testing.T) {
	const text = `[Song]
{
	Name = "Song"
	Artist = "Band"
}
[ExpertSingle]
{
	0 = N 0 0
	96 = N 1 0
	96 = N 6 0
	240 = N 4 0
}
[EasySingle]
{
}
`
	doc, _, ok := dotchart.Parse(text, log.New(io.Discard, "", 0), dotchart.DefaultOptions())
	require.True(t, ok)

	var buf bytes.Buffer
	err := Render(&buf, doc, Options{TicksPerColumn: 48, ColumnsPerBar: 4, BarsPerRow: 2, NoColor: true})
	require.NoError(t, err)

	expected := "Name:   \t\"Song\"\n" +
		"Artist: \t\"Band\"\n" +
		"Charter:\t\n" +
		"\n" +
		"ExpertSingle\n\n" +
		"G|x---|--|\n" +
		"R|--e-|--|\n" +
		"Y|----|--|\n" +
		"B|----|--|\n" +
		"O|----|-x|\n" +
		"\n" +
		"EasySingle\n\n" +
		"G|\n" +
		"R|\n" +
		"Y|\n" +
		"B|\n" +
		"O|\n" +
		"\n"
	assert.Equal(t, expected, buf.String())
}

func TestRenderWrapsRows(t *testing.T) {
	doc, _, ok := dotchart.Parse("[ExpertSingle]\n{\n\t0 = N 0 0\n\t480 = N 2 0\n}\n", log.New(io.Discard, "", 0), dotchart.DefaultOptions())
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, Options{TicksPerColumn: 48, ColumnsPerBar: 3, BarsPerRow: 2, NoColor: true}))

	// 11 columns: a full row of 2x3, then the remaining 5.
	assert.Contains(t, buf.String(), "G|x--|---|\nR|---|---|\nY|---|---|\n")
	assert.Contains(t, buf.String(), "G|---|--|\nR|---|--|\nY|---|-x|\n")
}

func TestColumnsMergeNotes(t *testing.T) {
	doc, _, ok := dotchart.Parse("[ExpertSingle]\n{\n\t0 = N 0 0\n\t10 = N 1 0\n\t10 = N 6 0\n}\n", log.New(io.Discard, "", 0), dotchart.DefaultOptions())
	require.True(t, ok)

	cols := columns(doc.Tracks["ExpertSingle"], 48)
	require.Len(t, cols, 1)
	assert.Equal(t, column{'x', 'e', '-', '-', '-'}, cols[0])
}
