package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QEStudios/ChartTidy/chart"
)

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.CHART")
	require.NoError(t, os.WriteFile(good, nil, 0o644))
	wrongExt := filepath.Join(dir, "notes.mid")
	require.NoError(t, os.WriteFile(wrongExt, nil, 0o644))

	assert.NoError(t, validatePath(good))
	assert.Error(t, validatePath(wrongExt))
	assert.Error(t, validatePath(filepath.Join(dir, "missing.chart")))

	path, err := choosePath(dir, []string{good})
	require.NoError(t, err)
	assert.Equal(t, good, path)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "", outputPath("song/notes.chart", ""))
	assert.Equal(t, "", outputPath("-", "fixed_"))
	assert.Equal(t, filepath.Join("song", "fixed_notes.chart"), outputPath("song/notes.chart", "fixed_"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.chart")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, writeFileAtomic(path, []byte("new")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestPrintDiagnostics(t *testing.T) {
	color.NoColor = true
	diags := []chart.Diagnostic{
		{Severity: chart.SeverityInfo, Message: "changed"},
		{Severity: chart.SeverityError, Line: 2, Message: "broken"},
	}

	var buf bytes.Buffer
	printDiagnostics(&buf, "notes.chart", diags, false)
	assert.Equal(t, "notes.chart: error line 2: broken\n", buf.String())

	buf.Reset()
	printDiagnostics(&buf, "notes.chart", diags, true)
	assert.Equal(t, "notes.chart: info: changed\nnotes.chart: error line 2: broken\n", buf.String())
}
