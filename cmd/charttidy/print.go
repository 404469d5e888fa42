package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/QEStudios/ChartTidy/chart"
)

var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

func severityColor(sev chart.Severity) *color.Color {
	switch sev {
	case chart.SeverityError:
		return red
	case chart.SeverityWarning:
		return yellow
	default:
		return faint
	}
}

// printDiagnostics writes warnings and errors, and info diagnostics too if withInfo is set.
func printDiagnostics(w io.Writer, name string, diags []chart.Diagnostic, withInfo bool) {
	for _, d := range diags {
		if d.Severity == chart.SeverityInfo && !withInfo {
			continue
		}
		severityColor(d.Severity).Fprintf(w, "%s: %s\n", name, d)
	}
}

func printError(name string, err error) {
	red.Fprintf(os.Stderr, "%s: %v\n", name, err)
}

func printSummary(w io.Writer, name string, diags []chart.Diagnostic) {
	fmt.Fprintf(w, "%s: %d errors, %d warnings, %d changes\n", name,
		chart.Count(diags, chart.SeverityError),
		chart.Count(diags, chart.SeverityWarning),
		chart.Count(diags, chart.SeverityInfo))
}
