package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func sheetRows(t *testing.T, f *xlsx.File, name string) [][]string {
	t.Helper()
	sheet, ok := f.Sheet[name]
	require.True(t, ok, "sheet %q missing", name)
	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, ExportXLSX(path, sampleResult()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 4)

	races := sheetRows(t, f, SheetRaces)
	require.Len(t, races, 4)
	assert.Equal(t, "race", races[0][0])
	assert.Equal(t, "B", races[2][0])
	assert.Equal(t, "3", races[2][2])

	days := sheetRows(t, f, SheetWeekdays)
	require.Len(t, days, 8)
	assert.Equal(t, []string{"Dzień tygodnia", "Liczba interwencji"}, days[0])
	assert.Equal(t, []string{"Poniedziałek", "2"}, days[1])
	assert.Equal(t, []string{"Niedziela", "1"}, days[7])

	years := sheetRows(t, f, SheetYears)
	require.Len(t, years, 3)
	assert.Equal(t, []string{"2015", "5"}, years[1])

	states := sheetRows(t, f, SheetStates)
	require.Len(t, states, 3)
	assert.Equal(t, []string{"state", "incidents", "population 2020", "population 2010", "per_million"}, states[0])
	assert.Equal(t, "Texas", states[1][0])
	assert.Equal(t, "3000000", states[1][2])
	assert.Equal(t, "2500000", states[1][3])
	assert.Equal(t, "AZ", states[2][0])
}

func TestExportXLSX_NilResult(t *testing.T) {
	assert.Error(t, ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}
