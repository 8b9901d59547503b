// Package model defines the incident record shared by the loaders, enrichment and analyses.
package model

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/shootings-cli/internal/table"
)

// Column names in the incident CSV.
const (
	ColID            = "id"
	ColName          = "name"
	ColDate          = "date"
	ColRace          = "race"
	ColMentalIllness = "signs_of_mental_illness"
	ColState         = "state"
)

// Incident is one row of the incident table.
type Incident struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Date string `json:"date"`
	// Race is the dataset's single-letter code (A, B, H, N, O, W); empty when unknown.
	Race string `json:"race"`
	// MentalIllness is only meaningful when MentalIllnessKnown is true.
	MentalIllness      bool `json:"signs_of_mental_illness"`
	MentalIllnessKnown bool `json:"-"`
	// State holds the two-letter code until enrichment resolves it to the full name.
	State string `json:"state"`
	// DayOfWeek is the English weekday name derived from Date.
	DayOfWeek string `json:"day_of_week,omitempty"`
	// Year is derived from Date; 0 when the date is unreadable.
	Year int `json:"year,omitempty"`
	// Population is attached by enrichment; nil when the state had no match.
	// Per-capita rates are computed from it.
	Population *int64 `json:"population,omitempty"`
	// BaselinePopulation is an earlier census figure shown alongside Population.
	BaselinePopulation *int64 `json:"baseline_population,omitempty"`
}

// IncidentsFromTable converts raw rows into incidents. date, race, signs_of_mental_illness
// and state are required columns; id and name are optional.
func IncidentsFromTable(t *table.Table) ([]Incident, error) {
	if t == nil {
		return nil, eris.New("model: nil incident table")
	}

	required := map[string]int{}
	for _, c := range []string{ColDate, ColRace, ColMentalIllness, ColState} {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return nil, eris.Wrapf(table.ErrNoColumn, "model: incident column %q", c)
		}
		required[c] = idx
	}
	idIdx, nameIdx := t.ColumnIndex(ColID), t.ColumnIndex(ColName)

	out := make([]Incident, 0, t.Len())
	for _, r := range t.Rows {
		inc := Incident{
			Date:  strings.TrimSpace(r[required[ColDate]]),
			Race:  strings.TrimSpace(r[required[ColRace]]),
			State: strings.TrimSpace(r[required[ColState]]),
		}
		if idIdx >= 0 {
			inc.ID = r[idIdx]
		}
		if nameIdx >= 0 {
			inc.Name = r[nameIdx]
		}
		if v, err := strconv.ParseBool(strings.TrimSpace(r[required[ColMentalIllness]])); err == nil {
			inc.MentalIllness = v
			inc.MentalIllnessKnown = true
		}
		out = append(out, inc)
	}
	return out, nil
}

// Clone copies the slice so callers can rewrite fields without aliasing the input.
func Clone(in []Incident) []Incident {
	out := make([]Incident, len(in))
	copy(out, in)
	for i := range out {
		out[i].Population = copyInt64(out[i].Population)
		out[i].BaselinePopulation = copyInt64(out[i].BaselinePopulation)
	}
	return out
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
