package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sells-group/shootings-cli/internal/fetcher"
	"github.com/sells-group/shootings-cli/internal/locale"
	"github.com/sells-group/shootings-cli/internal/pipeline"
	"github.com/sells-group/shootings-cli/internal/report"
)

// sourcesFromConfig maps the sources section onto pipeline lookups.
func sourcesFromConfig() pipeline.Sources {
	s := cfg.Sources
	return pipeline.Sources{
		IncidentsURL: s.IncidentsURL,
		StateCodes:   pipeline.Lookup{URL: s.StateCodesURL, Table: s.StateCodesTable, Key: s.StateCodesKey, Value: s.StateCodesValue},
		Population: pipeline.PopulationLookup{
			Lookup:   pipeline.Lookup{URL: s.PopulationURL, Table: s.PopulationTable, Key: s.PopulationKey, Value: s.PopulationValue},
			Baseline: s.PopulationBaseline,
		},
	}
}

// initPipeline builds the fetchers, cache, locale and Pipeline from the loaded config.
func initPipeline() (*pipeline.Pipeline, error) {
	loc, err := locale.Resolve(cfg.Locale.Language, cfg.Locale.WeekdaysFile)
	if err != nil {
		return nil, err
	}

	f := &fetcher.Multi{
		HTTP: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:   cfg.Fetch.UserAgent,
			Timeout:     cfg.Fetch.Timeout(),
			MaxAttempts: cfg.Fetch.MaxAttempts,
			DefaultRate: rate.Limit(cfg.Fetch.RequestsPerSecond),
			Logger:      logger,
		}),
		FTP: fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: cfg.Fetch.Timeout(), Logger: logger}),
	}
	cache := fetcher.NewCache(cfg.Fetch.CacheDir, f, logger)

	return pipeline.New(cache, sourcesFromConfig(), loc, logger), nil
}

func newConsole(cmd *cobra.Command) *report.Console {
	return report.NewConsole(cmd.OutOrStdout(), !color.NoColor)
}

// chartFlags are shared by the commands that draw the weekday chart.
type chartFlags struct {
	output string
	off    bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.output, "chart", "", "chart output path (overrides chart.output)")
	cmd.Flags().BoolVar(&f.off, "no-chart", false, "skip rendering the weekday chart")
}

// render draws the weekday chart unless disabled and returns the written path.
func (f *chartFlags) render(wr pipeline.WeekdayReport, loc locale.Weekdays) (string, error) {
	if f.off {
		return "", nil
	}
	out := cfg.Chart.Output
	if f.output != "" {
		out = f.output
	}
	chart, err := report.NewChart(cfg.Chart.Format, out, cfg.Chart.WidthInches, cfg.Chart.HeightInches)
	if err != nil {
		return "", err
	}
	if err := chart.Render(wr.Counts, loc); err != nil {
		return "", err
	}
	return chart.Path(), nil
}
