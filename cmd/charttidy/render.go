package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/QEStudios/ChartTidy/fix"
	"github.com/QEStudios/ChartTidy/parser/dotchart"
	"github.com/QEStudios/ChartTidy/render"
)

var (
	renderOpts  = render.DefaultOptions()
	renderFixed bool
)

func init() {
	flags := renderCmd.Flags()
	flags.Uint32Var(&renderOpts.TicksPerColumn, "ticks-per-column", renderOpts.TicksPerColumn, "ticks drawn as one column")
	flags.IntVar(&renderOpts.ColumnsPerBar, "columns-per-bar", renderOpts.ColumnsPerBar, "columns between bar lines")
	flags.IntVar(&renderOpts.BarsPerRow, "bars-per-row", renderOpts.BarsPerRow, "bars drawn on each row")
	flags.BoolVar(&renderFixed, "fixed", false, "run the fixes before drawing")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [file.chart | -]",
	Short: "Draws the note tracks of a chart as text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := inputPaths(args)
		if err != nil {
			return err
		}
		in, name, err := openInput(paths[0])
		if err != nil {
			return err
		}
		defer in.Close()

		res, err := dotchart.NewParser(in, logger, cfg.ParserOptions()).Parse()
		if err != nil {
			return err
		}
		printDiagnostics(os.Stderr, name, res.Diagnostics, verbose)
		if renderFixed {
			fix.NewPipeline(logger, cfg.FixOptions()).All(res.Document)
		}

		renderOpts.NoColor = cfg.NoColor
		return render.Render(os.Stdout, res.Document, renderOpts)
	},
}
