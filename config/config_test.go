package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charttidy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "t", c.TapMarker)
	assert.Equal(t, "*", c.ForceMarker)
	assert.Equal(t, uint32(24), c.MinSustainGap)
	assert.Equal(t, uint32(100), c.EndPadding)
	assert.False(t, c.StarPower.Enabled)
	assert.Equal(t, uint32(2), c.StarPower.PhraseMeasures)
	assert.Equal(t, uint32(6), c.StarPower.IntervalMeasures)
	assert.NoError(t, c.Validate())
}

func TestResolvePrecedence(t *testing.T) {
	path := writeFile(t, `
tap_marker: tap
min_sustain_gap: 48
feedback_safe: true
star_power:
  enabled: true
`)

	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, c)
	require.NoError(t, fs.Parse([]string{"--min-gap", "12", "--prefix", "fixed_"}))
	require.NoError(t, Resolve(fs, c, path))

	assert.Equal(t, "tap", c.TapMarker, "file over default")
	assert.Equal(t, "*", c.ForceMarker, "default kept")
	assert.Equal(t, uint32(12), c.MinSustainGap, "flag over file")
	assert.True(t, c.FeedbackSafe)
	assert.True(t, c.StarPower.Enabled)
	assert.Equal(t, uint32(2), c.StarPower.PhraseMeasures)
	assert.Equal(t, "fixed_", c.OutputPrefix)
}

func TestResolveWithoutFile(t *testing.T) {
	c := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs, c)
	require.NoError(t, fs.Parse([]string{"-f", "--tap-marker", "T"}))
	require.NoError(t, Resolve(fs, c, ""))

	assert.True(t, c.FeedbackSafe)
	assert.Equal(t, "T", c.EncodeOptions().TapMarker)
	assert.Equal(t, "T", c.ParserOptions().TapMarker)
	assert.Equal(t, "T", c.FixOptions().TapMarker)
}

func TestLoadFileErrors(t *testing.T) {
	c := Default()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, c.LoadFile(writeFile(t, "unknown_key: 1\n")))
	assert.NoError(t, c.LoadFile(writeFile(t, "")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty tap marker", func(c *Config) { c.TapMarker = "" }},
		{"empty force marker", func(c *Config) { c.ForceMarker = "" }},
		{"same markers", func(c *Config) { c.ForceMarker = c.TapMarker }},
		{"zero length star power", func(c *Config) {
			c.StarPower.Enabled = true
			c.StarPower.PhraseMeasures = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}
