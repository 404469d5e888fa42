package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/QEStudios/ChartTidy/chart"
	"github.com/QEStudios/ChartTidy/parser/dotchart"
)

var inspectDump bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump the whole parsed document")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect file.chart",
	Short: "Shows what a chart contains without changing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, name, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		res, err := dotchart.NewParser(in, logger, cfg.ParserOptions()).Parse()
		if err != nil {
			return err
		}
		inspect(os.Stdout, name, res.Document)
		if inspectDump {
			spew.Fdump(os.Stdout, res.Document)
		}
		printDiagnostics(os.Stderr, name, res.Diagnostics, verbose)
		printSummary(os.Stdout, name, res.Diagnostics)
		return nil
	},
}

func inspect(w io.Writer, name string, doc *chart.Document) {
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  name: %s\n", doc.Song.Name)
	fmt.Fprintf(w, "  resolution: %d\n", doc.Resolution())
	fmt.Fprintf(w, "  offset: %v\n", doc.Song.Offset)
	fmt.Fprintf(w, "  sync track events: %d\n", len(doc.SyncTrack))
	fmt.Fprintf(w, "  global events: %d\n", len(doc.Events))
	for _, track := range doc.TrackNames() {
		t := doc.Tracks[track]
		taps, forced := 0, 0
		for _, n := range t.Notes {
			if n.IsTap() {
				taps++
			}
			if n.IsForce() {
				forced++
			}
		}
		fmt.Fprintf(w, "  %s: %d notes (%d tap, %d forced), %d other events, star power: %v\n",
			track, len(t.Notes), taps, forced, len(t.Events), t.HasStarPower())
	}
}
