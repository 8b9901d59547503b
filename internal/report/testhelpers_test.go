package report

import (
	"time"

	"github.com/sells-group/shootings-cli/internal/analysis"
	"github.com/sells-group/shootings-cli/internal/enrich"
	"github.com/sells-group/shootings-cli/internal/locale"
	"github.com/sells-group/shootings-cli/internal/pipeline"
)

func int64p(n int64) *int64 { return &n }

func sampleCounts() []analysis.WeekdayCount {
	return analysis.LocalizeWeekdays(map[time.Weekday]int{
		time.Monday:  2,
		time.Tuesday: 2,
		time.Sunday:  1,
	}, locale.Polish)
}

func sampleResult() *pipeline.Result {
	races := []analysis.RaceBreakdown{
		{Race: "A", Counts: map[bool]int{false: 3}},
		{Race: "B", Counts: map[bool]int{true: 3, false: 1}, Percentage: 75},
		{Race: "W", Counts: map[bool]int{true: 1, false: 1}, Percentage: 50},
	}
	return &pipeline.Result{
		RunID:     "test-run",
		Incidents: 9,
		Races:     pipeline.RaceReport{Rows: races, TopRace: "B", HasTop: true},
		Weekdays:  pipeline.WeekdayReport{Counts: sampleCounts()},
		Years:     pipeline.YearReport{Counts: []analysis.YearCount{{Year: 2015, Count: 5}, {Year: 2016, Count: 4}}},
		States: pipeline.StateReport{
			Rates: []analysis.StateRate{
				{State: "Texas", Incidents: 3, Population: int64p(3_000_000), BaselinePopulation: int64p(2_500_000), PerMillion: 1, HasRate: true},
				{State: "AZ", Incidents: 1},
			},
			PopulationLabel: "population 2020",
			BaselineLabel:   "population 2010",
			Names:      enrich.Outcome{Status: enrich.Partial, Unmatched: 1, Missing: []string{"AZ"}},
			Population: enrich.Outcome{Status: enrich.Partial, Unmatched: 1, Missing: []string{"AZ"}},
		},
		Locale:  locale.Polish,
		Quality: pipeline.Quality{Complete: false, Issues: []string{"state names join partial"}},
	}
}
