package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "id,name,date,race,signs_of_mental_illness,state\n" +
		"3,Tim Elliot,2015-01-02,A,True,WA\n" +
		"4,Lewis Lee Lembke,2015-01-02,W,False,OR\n"
	tbl, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "date", "race", "signs_of_mental_illness", "state"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"3", "Tim Elliot", "2015-01-02", "A", "True", "WA"}, tbl.Rows[0])
}

func TestReadCSV_QuotedAndRagged(t *testing.T) {
	input := "name,city,state\n\"Smith, John\",\"Dallas\",TX\nshort\n"
	tbl, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith, John", "Dallas", "TX"}, tbl.Rows[0])
	assert.Equal(t, []string{"short", "", ""}, tbl.Rows[1])
}

func TestReadCSV_Options(t *testing.T) {
	input := "\ufeff a | b \n# comment\n 1 | 2 \n"
	tbl, err := ReadCSV(strings.NewReader(input), CSVOptions{Delimiter: '|', Comment: '#', TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	_, err = ReadCSV(strings.NewReader("a,b\n\"unterminated,1\n"), CSVOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("date, race \n2015-01-04 , B\n"), 0o644))

	tbl, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "race"}, tbl.Columns)
	assert.Equal(t, [][]string{{"2015-01-04", "B"}}, tbl.Rows)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
