package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shootings-cli/internal/report"
)

var (
	reportChart  chartFlags
	reportExport string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run all three analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := initPipeline()
		if err != nil {
			return err
		}

		res, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}

		con := newConsole(cmd)
		if err := con.Section("Race × signs of mental illness"); err != nil {
			return err
		}
		if err := con.RaceTable(res.Races.Rows); err != nil {
			return err
		}
		if err := con.TopRace(res.Races, res.Locale.TopRace); err != nil {
			return err
		}

		if err := con.Section(res.Locale.Title); err != nil {
			return err
		}
		if err := con.WeekdayTable(res.Weekdays.Counts, res.Locale.XLabel, res.Locale.YLabel); err != nil {
			return err
		}

		if err := con.Section("Incidents per year"); err != nil {
			return err
		}
		if err := con.YearTable(res.Years.Counts); err != nil {
			return err
		}

		if err := con.Section("Shootings per million residents"); err != nil {
			return err
		}
		if err := con.StateTable(res.States); err != nil {
			return err
		}

		if path, err := reportChart.render(res.Weekdays, res.Locale); err != nil {
			return err
		} else if path != "" {
			logger.Info("chart written", zap.String("path", path))
		}

		export := cfg.Report.ExportPath
		if reportExport != "" {
			export = reportExport
		}
		if export != "" {
			if err := report.ExportXLSX(export, res); err != nil {
				return err
			}
			logger.Info("report exported", zap.String("path", export))
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
			return err
		}
		return con.Quality(res.Quality)
	},
}

func init() {
	reportChart.register(reportCmd)
	reportCmd.Flags().StringVar(&reportExport, "export", "", "xlsx export path (overrides report.export_path)")
	rootCmd.AddCommand(reportCmd)
}
