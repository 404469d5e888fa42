package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"

	charttidy "github.com/QEStudios/ChartTidy"
	"github.com/QEStudios/ChartTidy/config"
	"github.com/QEStudios/ChartTidy/report"
)

var (
	cfg        = config.Default()
	configPath string
	verbose    bool

	logger *log.Logger
)

func init() {
	flags := rootCmd.PersistentFlags()
	config.BindFlags(flags, cfg)
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every change and informational diagnostic")
}

var rootCmd = &cobra.Command{
	Use:   "charttidy [flags] [file.chart | -]...",
	Short: "Fixes common problems in .chart files",
	Long: `Fixes common problems in .chart files: missing start and end events, sustains
that end too close to the next note, and songs with no blank measure before the
first note. With no files, a file dialog is opened. "-" reads from stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Resolve(cmd.Flags(), cfg, configPath); err != nil {
			return err
		}
		color.NoColor = color.NoColor || cfg.NoColor

		out := io.Discard
		if verbose {
			out = os.Stderr
		}
		logger = log.New(out, "", log.Ldate|log.Ltime)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := inputPaths(args)
		if err != nil {
			return err
		}
		return fixFiles(paths)
	},
}

// inputPaths returns the files to process, asking with a dialog when none were given.
func inputPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}
	path, err := choosePath(cwd, nil)
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return nil, errors.New("user cancelled the file dialog")
		}
		return nil, fmt.Errorf("failed to determine file path: %w", err)
	}
	return []string{path}, nil
}

func fixFiles(paths []string) error {
	var store *report.SQLiteStore
	var runID string
	if cfg.ReportPath != "" {
		var err error
		store, err = report.NewSQLiteStore(cfg.ReportPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if runID, err = store.StartRun(); err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range paths {
		res := fixFile(path)
		if !res.OK {
			failed++
		}
		if store != nil {
			if _, err := store.AddFile(runID, res); err != nil {
				logger.Printf("failed to record %s: %v", path, err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files had errors", failed, len(paths))
	}
	return nil
}

// fixFile processes one input. Errors are reported and stored in the result so the
// remaining files still get processed.
func fixFile(path string) report.FileResult {
	res := report.FileResult{Path: path}

	in, name, err := openInput(path)
	if err != nil {
		res.Err = err.Error()
		printError(path, err)
		return res
	}
	defer in.Close()

	out, err := charttidy.Process(in, logger, cfg)
	if err != nil {
		res.Err = err.Error()
		printError(path, err)
		return res
	}
	res.Diagnostics = out.Diagnostics
	res.Notes = out.Document.NoteCount()
	printDiagnostics(os.Stderr, name, out.Diagnostics, verbose)

	if err := writeOutput(path, out.Output); err != nil {
		res.Err = err.Error()
		printError(path, err)
		return res
	}
	res.OK = out.OK
	return res
}
