package main

import (
	"github.com/spf13/cobra"

	"github.com/QEStudios/ChartTidy/report"
	"github.com/QEStudios/ChartTidy/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the fixer over HTTP",
	Long:  `Serves the fixer over HTTP. POST a chart to /fix to get back the fixed chart and its diagnostics as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *report.SQLiteStore
		if cfg.ReportPath != "" {
			var err error
			if store, err = report.NewSQLiteStore(cfg.ReportPath); err != nil {
				return err
			}
			defer store.Close()
		}

		s, err := server.New(logger, cfg, store)
		if err != nil {
			return err
		}
		return s.ListenAndServe()
	},
}
