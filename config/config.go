// Package config holds the settings shared by every charttidy command. Values come from
// the defaults, then an optional YAML file, then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/QEStudios/ChartTidy/chart"
	"github.com/QEStudios/ChartTidy/fix"
	"github.com/QEStudios/ChartTidy/parser/dotchart"
)

type StarPower struct {
	Enabled          bool   `yaml:"enabled"`
	PhraseMeasures   uint32 `yaml:"phrase_measures"`
	IntervalMeasures uint32 `yaml:"interval_measures"`
}

type Config struct {
	TapMarker       string    `yaml:"tap_marker"`
	ForceMarker     string    `yaml:"force_marker"`
	MinSustainGap   uint32    `yaml:"min_sustain_gap"`
	SkipRepeatNotes bool      `yaml:"skip_repeat_notes"`
	FeedbackSafe    bool      `yaml:"feedback_safe"`
	EndPadding      uint32    `yaml:"end_padding"`
	StarPower       StarPower `yaml:"star_power"`

	// Output file name prefix. Empty writes to stdout.
	OutputPrefix string `yaml:"output_prefix"`
	// SQLite report database. Empty disables the report.
	ReportPath string `yaml:"report"`
	// Listen address for serve.
	Addr    string `yaml:"addr"`
	NoColor bool   `yaml:"no_color"`
}

func Default() *Config {
	f := fix.DefaultOptions()
	return &Config{
		TapMarker:     f.TapMarker,
		ForceMarker:   f.ForceMarker,
		MinSustainGap: f.MinSustainGap,
		EndPadding:    f.EndPadding,
		StarPower: StarPower{
			PhraseMeasures:   f.StarPower.PhraseMeasures,
			IntervalMeasures: f.StarPower.IntervalMeasures,
		},
		Addr: "localhost:8080",
	}
}

// LoadFile decodes a YAML file over c. Keys missing from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		// An empty file has nothing to decode.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// BindFlags registers a flag for every setting, writing straight into c.
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVar(&c.TapMarker, "tap-marker", c.TapMarker, "note track event text read as a tap flag")
	fs.StringVar(&c.ForceMarker, "force-marker", c.ForceMarker, "note track event text read as a HOPO flip flag")
	fs.Uint32VarP(&c.MinSustainGap, "min-gap", "g", c.MinSustainGap, "minimum ticks between the end of a sustain and the next note")
	fs.BoolVar(&c.SkipRepeatNotes, "skip-repeat-notes", c.SkipRepeatNotes, "don't shorten sustains followed by the same lanes")
	fs.BoolVarP(&c.FeedbackSafe, "feedback-safe", "f", c.FeedbackSafe, "write tap and HOPO flip flags as track events")
	fs.Uint32Var(&c.EndPadding, "end-padding", c.EndPadding, "ticks between the last note and an inserted end event")
	fs.BoolVar(&c.StarPower.Enabled, "star-power", c.StarPower.Enabled, "insert star power into tracks that have none")
	fs.Uint32Var(&c.StarPower.PhraseMeasures, "star-power-length", c.StarPower.PhraseMeasures, "length of inserted star power phrases in measures")
	fs.Uint32Var(&c.StarPower.IntervalMeasures, "star-power-interval", c.StarPower.IntervalMeasures, "measures between inserted star power phrases")
	fs.StringVarP(&c.OutputPrefix, "prefix", "p", c.OutputPrefix, "write each output next to its input with this file name prefix (default: stdout)")
	fs.StringVar(&c.ReportPath, "report", c.ReportPath, "SQLite database to record the run in")
	fs.StringVar(&c.Addr, "addr", c.Addr, "address for serve to listen on")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "disable coloured output")
}

// Resolve loads the YAML file at path (if any) over c, then reapplies every flag the user
// set explicitly so flags win over the file.
func Resolve(fs *pflag.FlagSet, c *Config, path string) error {
	if path == "" {
		return c.Validate()
	}

	changed := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := c.LoadFile(path); err != nil {
		return err
	}

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("reapplying --%s: %w", name, err)
		}
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.TapMarker == "" || c.ForceMarker == "" {
		return errors.New("tap and force markers must not be empty")
	}
	if c.TapMarker == c.ForceMarker {
		return fmt.Errorf("tap and force markers must differ, both are %q", c.TapMarker)
	}
	if c.StarPower.Enabled && c.StarPower.PhraseMeasures == 0 {
		return errors.New("star power phrase length must be at least 1 measure")
	}
	return nil
}

func (c *Config) ParserOptions() dotchart.Options {
	return dotchart.Options{
		TapMarker:   c.TapMarker,
		ForceMarker: c.ForceMarker,
	}
}

func (c *Config) FixOptions() fix.Options {
	return fix.Options{
		MinSustainGap:   c.MinSustainGap,
		SkipRepeatNotes: c.SkipRepeatNotes,
		EndPadding:      c.EndPadding,
		TapMarker:       c.TapMarker,
		ForceMarker:     c.ForceMarker,
		StarPower: fix.StarPowerOptions{
			Enabled:          c.StarPower.Enabled,
			PhraseMeasures:   c.StarPower.PhraseMeasures,
			IntervalMeasures: c.StarPower.IntervalMeasures,
		},
	}
}

func (c *Config) EncodeOptions() chart.EncodeOptions {
	return chart.EncodeOptions{
		FeedbackSafe: c.FeedbackSafe,
		TapMarker:    c.TapMarker,
		ForceMarker:  c.ForceMarker,
	}
}
