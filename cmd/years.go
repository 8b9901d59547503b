package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Count incidents per calendar year",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}
		incidents, err := p.LoadIncidents(cmd.Context())
		if err != nil {
			return err
		}

		rep := p.Years(incidents)
		if rep.Unparsed > 0 {
			logger.Warn("incidents with unparseable dates skipped", zap.Int("count", rep.Unparsed))
		}
		return newConsole(cmd).YearTable(rep.Counts)
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
