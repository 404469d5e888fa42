// Package charttidy parses a .chart file, runs every fix over it and writes it back out.
package charttidy

import (
	"fmt"
	"io"
	"log"

	"github.com/QEStudios/ChartTidy/chart"
	"github.com/QEStudios/ChartTidy/config"
	"github.com/QEStudios/ChartTidy/fix"
	"github.com/QEStudios/ChartTidy/parser/dotchart"
)

type Result struct {
	Document    *chart.Document
	Output      []byte
	Diagnostics []chart.Diagnostic
	// False if the input had errors. Output is still written from whatever parsed.
	OK bool
}

// Process reads a chart from r, fixes it and encodes the result.
// Only a failed read is returned as an error. Everything else is a diagnostic.
func Process(r io.Reader, logger *log.Logger, cfg *config.Config) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	parsed, err := dotchart.NewParser(r, logger, cfg.ParserOptions()).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	doc := parsed.Document

	pipeline := fix.NewPipeline(logger, cfg.FixOptions())
	pipeline.All(doc)
	if cfg.FeedbackSafe {
		pipeline.FeedbackSafe(doc)
	}

	diags := make([]chart.Diagnostic, 0, len(parsed.Diagnostics)+len(pipeline.Diagnostics()))
	diags = append(diags, parsed.Diagnostics...)
	diags = append(diags, pipeline.Diagnostics()...)

	return &Result{
		Document:    doc,
		Output:      doc.Encode(cfg.EncodeOptions()),
		Diagnostics: diags,
		OK:          parsed.OK,
	}, nil
}
