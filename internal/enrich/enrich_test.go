package enrich

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/shootings-cli/internal/model"
	"github.com/sells-group/shootings-cli/internal/table"
)

func codesTable() *table.Table {
	return table.New(
		[]string{"Name", "Status", "USPS (& ANSI)"},
		[][]string{
			{"Texas", "State", "TX"},
			{"California", "State", "CA"},
			{"New York", "State", "NY"},
			{"Texas (duplicate)", "State", "TX"},
		},
	)
}

func popsTable() *table.Table {
	return table.New(
		[]string{"Rank", "State", "Census population, April 1, 2020[1]", "Census population, April 1, 2010"},
		[][]string{
			{"1", "California", "39,538,223", "37,253,956"},
			{"2", "Texas", "29,145,505[a]", "25,145,561"},
			{"4", "New York", "20,201,249", "19,378,102"},
			{"5", "Nowhere", "n/a", "n/a"},
		},
	)
}

func incidents(states ...string) []model.Incident {
	out := make([]model.Incident, len(states))
	for i, s := range states {
		out[i] = model.Incident{State: s}
	}
	return out
}

func states(in []model.Incident) []string {
	out := make([]string, len(in))
	for i, inc := range in {
		out[i] = inc.State
	}
	return out
}

func TestResolveStateNames(t *testing.T) {
	in := incidents("TX", "CA", "NY", "AZ")
	out, o := ResolveStateNames(in, codesTable(), "USPS (& ANSI)", "Name", zap.NewNop())

	assert.Equal(t, []string{"Texas", "California", "New York", "AZ"}, states(out))
	assert.Equal(t, Partial, o.Status)
	assert.Equal(t, 3, o.Matched)
	assert.Equal(t, 1, o.Unmatched)
	assert.Equal(t, []string{"AZ"}, o.Missing)
	assert.NoError(t, o.Err)

	assert.Equal(t, []string{"TX", "CA", "NY", "AZ"}, states(in), "input must not be modified")
}

func TestResolveStateNames_AllMatched(t *testing.T) {
	_, o := ResolveStateNames(incidents("TX", "TX"), codesTable(), "USPS (& ANSI)", "Name", zap.NewNop())
	assert.Equal(t, Enriched, o.Status)
	assert.Equal(t, 2, o.Matched)
	assert.Empty(t, o.Missing)
}

func TestResolveStateNames_DuplicateKeysIdempotent(t *testing.T) {
	codes := codesTable()
	once, _ := ResolveStateNames(incidents("TX"), codes, "USPS (& ANSI)", "Name", zap.NewNop())

	doubled := codes.Clone()
	doubled.Rows = append(doubled.Rows, codes.Rows...)
	twice, _ := ResolveStateNames(incidents("TX"), doubled, "USPS (& ANSI)", "Name", zap.NewNop())

	assert.Equal(t, once, twice)
	assert.Equal(t, "Texas", once[0].State)
}

func TestResolveStateNames_MissingTable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	in := incidents("TX", "CA")

	out, o := ResolveStateNames(in, nil, "USPS (& ANSI)", "Name", zap.New(core))

	assert.Equal(t, Failed, o.Status)
	require.Error(t, o.Err)
	assert.True(t, errors.Is(o.Err, ErrJoin))
	assert.Equal(t, states(in), states(out))
	assert.Equal(t, 1, logs.Len())
}

func TestResolveStateNames_MissingColumn(t *testing.T) {
	out, o := ResolveStateNames(incidents("TX"), codesTable(), "Abbreviation", "Name", zap.NewNop())
	assert.Equal(t, Failed, o.Status)
	assert.True(t, errors.Is(o.Err, ErrJoin))
	assert.Equal(t, []string{"TX"}, states(out))
}

func TestAttachPopulation(t *testing.T) {
	in := incidents("Texas", "California", "New York")
	out, o := AttachPopulation(in, popsTable(), "State", "Census population, April 1, 2020", zap.NewNop())

	require.Len(t, out, 3)
	var got []int64
	for _, inc := range out {
		require.NotNil(t, inc.Population)
		got = append(got, *inc.Population)
	}
	assert.Equal(t, []int64{29145505, 39538223, 20201249}, got)
	assert.Equal(t, Enriched, o.Status)
	for _, inc := range in {
		assert.Nil(t, inc.Population)
	}
}

func TestAttachPopulation_Unmatched(t *testing.T) {
	out, o := AttachPopulation(incidents("AZ", "Nowhere", "Texas"), popsTable(), "State", "Census population, April 1, 2020", nil)

	assert.Nil(t, out[0].Population)
	assert.Nil(t, out[1].Population, "non-numeric figure counts as no match")
	require.NotNil(t, out[2].Population)
	assert.Equal(t, Partial, o.Status)
	assert.Equal(t, []string{"AZ", "Nowhere"}, o.Missing)
}

func TestAttachPopulation_MissingTable(t *testing.T) {
	pop := int64(5)
	in := []model.Incident{{State: "Texas", Population: &pop}}
	out, o := AttachPopulation(in, nil, "State", "Population", zap.NewNop())

	assert.Equal(t, Failed, o.Status)
	assert.True(t, errors.Is(o.Err, ErrJoin))
	require.NotNil(t, out[0].Population)
	assert.Equal(t, int64(5), *out[0].Population)
}

func TestAttachBaselinePopulation(t *testing.T) {
	in := incidents("Texas", "AZ")
	withPop, _ := AttachPopulation(in, popsTable(), "State", "Census population, April 1, 2020", zap.NewNop())
	out, o := AttachBaselinePopulation(withPop, popsTable(), "State", "Census population, April 1, 2010", zap.NewNop())

	require.NotNil(t, out[0].BaselinePopulation)
	assert.Equal(t, int64(25145561), *out[0].BaselinePopulation)
	require.NotNil(t, out[0].Population, "rate figure is left alone")
	assert.Equal(t, int64(29145505), *out[0].Population)
	assert.Nil(t, out[1].BaselinePopulation)
	assert.Equal(t, Partial, o.Status)
	assert.Equal(t, []string{"AZ"}, o.Missing)
	assert.Nil(t, withPop[0].BaselinePopulation, "input must not be modified")
}

func TestAttachBaselinePopulation_MissingColumn(t *testing.T) {
	pops := table.New([]string{"State", "Census population, April 1, 2020"}, [][]string{{"Texas", "1"}})
	out, o := AttachBaselinePopulation(incidents("Texas"), pops, "State", "Census population, April 1, 2010", zap.NewNop())

	assert.Equal(t, Failed, o.Status)
	assert.True(t, errors.Is(o.Err, ErrJoin))
	assert.Nil(t, out[0].BaselinePopulation)
}

func TestParsePopulation(t *testing.T) {
	tests := map[string]int64{
		"39,538,223":    39538223,
		"29,145,505[4]": 29145505,
		" 576,851 ":     576851,
		"1 000 000":     1000000,
	}
	for in, want := range tests {
		got, err := ParsePopulation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePopulation("unknown")
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "enriched", Enriched.String())
	assert.Equal(t, "partial", Partial.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
