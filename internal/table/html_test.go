package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const populationPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>States</title></head>
<body>
<table class="wikitable sortable">
<thead>
<tr><th>Rank</th><th>State</th><th>Census population, April 1, 2020<sup>[1]</sup><sup>[2]</sup></th></tr>
</thead>
<tbody>
<tr><td>1</td><td><a href="/wiki/California">California</a></td><td>39,538,223</td></tr>
<tr><td>2</td><td>Texas<sup class="reference">[a]</sup></td><td>29,145,505</td></tr>
<tr><td>4</td><td>New&nbsp;York</td><td>20,201,249</td></tr>
</tbody>
</table>
</body></html>`

func TestParseHTMLTables_Basic(t *testing.T) {
	tables, err := ParseHTMLTables(strings.NewReader(populationPage))
	require.NoError(t, err)
	require.Len(t, tables, 1)

	tbl := tables[0]
	assert.Equal(t, []string{"Rank", "State", "Census population, April 1, 2020"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"1", "California", "39,538,223"}, tbl.Rows[0])
	assert.Equal(t, "Texas[a]", tbl.Rows[1][1], "data cells keep footnotes until cleaned")
	assert.Equal(t, "New York", tbl.Rows[2][1])
}

func TestParseHTMLTables_Spans(t *testing.T) {
	doc := `<table>
<tr><th rowspan="2">Name</th><th colspan="2">Codes</th></tr>
<tr><th>USPS</th><th>ANSI</th></tr>
<tr><td>Texas</td><td>TX</td><td>48</td></tr>
<tr><td rowspan="2">Shared</td><td>AA</td><td>1</td></tr>
<tr><td>BB</td><td>2</td></tr>
</table>`
	tables, err := ParseHTMLTables(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 1)

	tbl := tables[0]
	assert.Equal(t, []string{"Name", "Codes", "Codes"}, tbl.Columns)
	assert.Equal(t, [][]string{
		{"Name", "USPS", "ANSI"},
		{"Texas", "TX", "48"},
		{"Shared", "AA", "1"},
		{"Shared", "BB", "2"},
	}, tbl.Rows)
}

func TestParseHTMLTables_NestedTablesAreSeparate(t *testing.T) {
	doc := `<table>
<tr><th>Outer</th><th>Detail</th></tr>
<tr><td>a</td><td>text<table><tr><th>Inner</th></tr><tr><td>x</td></tr></table></td></tr>
</table>`
	tables, err := ParseHTMLTables(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, [][]string{{"a", "text"}}, tables[0].Rows)
	assert.Equal(t, []string{"Inner"}, tables[1].Columns)
	assert.Equal(t, [][]string{{"x"}}, tables[1].Rows)
}

func TestParseHTMLTables_Latin1(t *testing.T) {
	doc := "<html><head><meta charset=\"iso-8859-1\"></head><body><table>" +
		"<tr><th>Dzie\xf1</th></tr><tr><td>Pi\xe1tek</td></tr></table></body></html>"
	tables, err := ParseHTMLTables(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Dzieñ"}, tables[0].Columns)
	assert.Equal(t, "Piátek", tables[0].Rows[0][0])
}

func TestLoadHTMLTable_Index(t *testing.T) {
	doc := `<table><tr><th>first</th></tr></table><table><tr><th>second</th></tr><tr><td>2</td></tr></table>`

	tbl, err := LoadHTMLTable(strings.NewReader(doc), 1)
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"second"}, tbl.Columns)

	_, err = LoadHTMLTable(strings.NewReader(doc), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoadHTMLTable_NoTables(t *testing.T) {
	tbl, err := LoadHTMLTable(strings.NewReader(`<html><body><p>nothing here</p></body></html>`), 0)
	require.NoError(t, err)
	assert.Nil(t, tbl)
}

func TestLoadHTMLTable_EmptyTableIsValid(t *testing.T) {
	tbl, err := LoadHTMLTable(strings.NewReader(`<html><body><table></table></body></html>`), 0)
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.Columns)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestParseHTMLTables_ReadError(t *testing.T) {
	_, err := ParseHTMLTables(failingReader{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}
