package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shootings-cli/internal/model"
)

func TestYear(t *testing.T) {
	tests := map[string]int{
		"2015-01-02":           2015,
		"2020-12-31T23:00:00Z": 2020,
		"01/02/2017":           2017,
		" 2019-06-01 ":         2019,
	}
	for in, want := range tests {
		got, err := Year(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Year("someday")
	assert.Error(t, err)
}

func TestAddYear(t *testing.T) {
	in := []model.Incident{
		{Date: "2015-01-02"},
		{Date: "bogus"},
		{Date: "2016-03-04"},
	}
	out, bad := AddYear(in)

	assert.Equal(t, 1, bad)
	require.Len(t, out, 3)
	assert.Equal(t, 2015, out[0].Year)
	assert.Zero(t, out[1].Year)
	assert.Equal(t, 2016, out[2].Year)
	assert.Zero(t, in[0].Year, "input must not be modified")
}

func TestCountByYear(t *testing.T) {
	got := CountByYear([]model.Incident{
		{Year: 2016},
		{Year: 2015},
		{Year: 2016},
		{Year: 0},
	})
	assert.Equal(t, []YearCount{{Year: 2015, Count: 1}, {Year: 2016, Count: 2}}, got)

	assert.Empty(t, CountByYear(nil))
}
