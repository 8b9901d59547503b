package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var weekdaysChart chartFlags

var weekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Count incidents per weekday and draw the chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}
		incidents, err := p.LoadIncidents(cmd.Context())
		if err != nil {
			return err
		}

		rep := p.Weekdays(incidents)
		if rep.Unparsed > 0 {
			logger.Warn("incidents with unparseable dates skipped", zap.Int("count", rep.Unparsed))
		}

		loc := p.Locale()
		if err := newConsole(cmd).WeekdayTable(rep.Counts, loc.XLabel, loc.YLabel); err != nil {
			return err
		}

		path, err := weekdaysChart.render(rep, loc)
		if err != nil {
			return err
		}
		if path != "" {
			logger.Info("chart written", zap.String("path", path))
		}
		return nil
	},
}

func init() {
	weekdaysChart.register(weekdaysCmd)
	rootCmd.AddCommand(weekdaysCmd)
}
