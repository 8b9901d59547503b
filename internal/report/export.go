package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/shootings-cli/internal/pipeline"
)

// Sheet names used by ExportXLSX.
const (
	SheetRaces    = "races"
	SheetWeekdays = "weekdays"
	SheetYears    = "years"
	SheetStates   = "states"
)

// ExportXLSX writes the analyses to an .xlsx workbook, one sheet each.
func ExportXLSX(path string, res *pipeline.Result) error {
	if res == nil {
		return eris.New("report: nothing to export")
	}
	f := xlsx.NewFile()

	races, err := f.AddSheet(SheetRaces)
	if err != nil {
		return eris.Wrap(err, "xlsx: add races sheet")
	}
	addStrings(races, "race", "false", "true", "signs_of_mental_illness_percentage")
	for _, r := range res.Races.Rows {
		row := races.AddRow()
		row.AddCell().SetString(r.Race)
		addCount(row, r.Counts, false)
		addCount(row, r.Counts, true)
		row.AddCell().SetFloat(r.Percentage)
	}

	days, err := f.AddSheet(SheetWeekdays)
	if err != nil {
		return eris.Wrap(err, "xlsx: add weekdays sheet")
	}
	addStrings(days, res.Locale.XLabel, res.Locale.YLabel)
	for _, wc := range res.Weekdays.Counts {
		row := days.AddRow()
		row.AddCell().SetString(wc.Label)
		row.AddCell().SetInt(wc.Count)
	}

	years, err := f.AddSheet(SheetYears)
	if err != nil {
		return eris.Wrap(err, "xlsx: add years sheet")
	}
	addStrings(years, "year", "incidents")
	for _, yc := range res.Years.Counts {
		row := years.AddRow()
		row.AddCell().SetInt(yc.Year)
		row.AddCell().SetInt(yc.Count)
	}

	states, err := f.AddSheet(SheetStates)
	if err != nil {
		return eris.Wrap(err, "xlsx: add states sheet")
	}
	withBaseline := res.States.BaselineLabel != ""
	header := []string{"state", "incidents", orDefault(res.States.PopulationLabel, "population")}
	if withBaseline {
		header = append(header, res.States.BaselineLabel)
	}
	addStrings(states, append(header, "per_million")...)
	for _, r := range res.States.Rates {
		row := states.AddRow()
		row.AddCell().SetString(r.State)
		row.AddCell().SetInt(r.Incidents)
		addFigure(row, r.Population)
		if withBaseline {
			addFigure(row, r.BaselinePopulation)
		}
		rate := row.AddCell()
		if r.HasRate {
			rate.SetFloat(r.PerMillion)
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, vals ...string) {
	row := sheet.AddRow()
	for _, v := range vals {
		row.AddCell().SetString(v)
	}
}

func addFigure(row *xlsx.Row, p *int64) {
	c := row.AddCell()
	if p != nil {
		c.SetInt64(*p)
	}
}

func addCount(row *xlsx.Row, counts map[bool]int, flag bool) {
	c := row.AddCell()
	if n, ok := counts[flag]; ok {
		c.SetInt(n)
	}
}
