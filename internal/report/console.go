// Package report renders analysis results as console tables, charts and spreadsheets.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sells-group/shootings-cli/internal/analysis"
	"github.com/sells-group/shootings-cli/internal/pipeline"
)

var (
	headlineColor = color.New(color.FgCyan, color.Bold)
	okColor       = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow, color.Bold)
)

// Console writes human-readable tables to w.
type Console struct {
	w         io.Writer
	useColors bool
}

// NewConsole creates a Console. Colors are only applied when useColors is set.
func NewConsole(w io.Writer, useColors bool) *Console {
	return &Console{w: w, useColors: useColors}
}

func (c *Console) paint(col *color.Color, s string) string {
	if !c.useColors {
		return s
	}
	return col.Sprint(s)
}

// TopRace prints the race with the highest share of incidents showing signs of mental illness,
// introduced by the localized headline.
func (c *Console) TopRace(rep pipeline.RaceReport, headline string) error {
	if !rep.HasTop {
		_, err := fmt.Fprintln(c.w, c.paint(warnColor, headline+": n/a"))
		return err
	}
	var pct float64
	for _, r := range rep.Rows {
		if r.Race == rep.TopRace {
			pct = r.Percentage
			break
		}
	}
	line := fmt.Sprintf("%s: %s (%.2f%%)", headline, rep.TopRace, pct)
	_, err := fmt.Fprintln(c.w, c.paint(headlineColor, line))
	return err
}

// RaceTable prints the race × signs_of_mental_illness cross-tab with its percentage column.
func (c *Console) RaceTable(rows []analysis.RaceBreakdown) error {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Race,
			bucket(r.Counts, false),
			bucket(r.Counts, true),
			fmt.Sprintf("%.2f", r.Percentage),
		})
	}
	return c.render([]string{"Race", "False", "True", "Mental Illness %"}, data)
}

// bucket renders a missing flag bucket as blank so it reads differently from a zero count.
func bucket(counts map[bool]int, flag bool) string {
	n, ok := counts[flag]
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// WeekdayTable prints the localized weekday counts.
func (c *Console) WeekdayTable(counts []analysis.WeekdayCount, dayHeader, countHeader string) error {
	data := make([][]string, 0, len(counts))
	for _, wc := range counts {
		data = append(data, []string{wc.Label, strconv.Itoa(wc.Count)})
	}
	return c.render([]string{dayHeader, countHeader}, data)
}

// YearTable prints incident counts per calendar year.
func (c *Console) YearTable(counts []analysis.YearCount) error {
	data := make([][]string, 0, len(counts))
	for _, yc := range counts {
		data = append(data, []string{strconv.Itoa(yc.Year), strconv.Itoa(yc.Count)})
	}
	return c.render([]string{"Year", "Incidents"}, data)
}

// StateTable prints per-state incident counts and rates. The baseline census column only
// appears when the report has one. Missing figures show "-".
func (c *Console) StateTable(rep pipeline.StateReport) error {
	headers := []string{"Rank", "State", "Incidents", orDefault(rep.PopulationLabel, "Population")}
	if rep.BaselineLabel != "" {
		headers = append(headers, rep.BaselineLabel)
	}
	headers = append(headers, "Per Million")

	data := make([][]string, 0, len(rep.Rates))
	for i, r := range rep.Rates {
		row := []string{strconv.Itoa(i + 1), r.State, strconv.Itoa(r.Incidents), figure(r.Population)}
		if rep.BaselineLabel != "" {
			row = append(row, figure(r.BaselinePopulation))
		}
		rate := "-"
		if r.HasRate {
			rate = fmt.Sprintf("%.3f", r.PerMillion)
		}
		data = append(data, append(row, rate))
	}
	return c.render(headers, data)
}

func figure(p *int64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Quality prints the completeness marker and every issue that degraded the report.
func (c *Console) Quality(q pipeline.Quality) error {
	if q.Complete {
		_, err := fmt.Fprintln(c.w, c.paint(okColor, "Report complete"))
		return err
	}
	if _, err := fmt.Fprintln(c.w, c.paint(warnColor, "Report INCOMPLETE:")); err != nil {
		return err
	}
	for _, issue := range q.Issues {
		if _, err := fmt.Fprintf(c.w, "  - %s\n", issue); err != nil {
			return err
		}
	}
	return nil
}

// Section prints a heading line.
func (c *Console) Section(title string) error {
	_, err := fmt.Fprintf(c.w, "\n%s\n", c.paint(headlineColor, title))
	return err
}

func (c *Console) render(headers []string, data [][]string) error {
	table := tablewriter.NewWriter(c.w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
