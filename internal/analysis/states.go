package analysis

import (
	"sort"

	"github.com/sells-group/shootings-cli/internal/model"
)

// StateRate is one row of the per-state summary.
type StateRate struct {
	State     string `json:"state"`
	Incidents int    `json:"incidents"`
	// Population is nil when the state could not be matched to a population figure.
	Population *int64 `json:"population,omitempty"`
	// BaselinePopulation is the earlier census figure, when one was attached.
	BaselinePopulation *int64 `json:"baseline_population,omitempty"`
	// PerMillion is incidents per million residents; only meaningful when HasRate is true.
	PerMillion float64 `json:"per_million"`
	HasRate    bool    `json:"has_rate"`
}

// CountByState counts incidents per state and carries the first population figures seen for each.
// Rows are sorted by incident count (highest first), then by state.
func CountByState(incidents []model.Incident) []StateRate {
	out := groupByState(incidents)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Incidents != out[b].Incidents {
			return out[a].Incidents > out[b].Incidents
		}
		return out[a].State < out[b].State
	})
	return out
}

// PerCapita counts incidents per state and divides by the attached population. Rows are
// sorted by rate (highest first), then by state; states without a rate come last.
func PerCapita(incidents []model.Incident) []StateRate {
	out := groupByState(incidents)
	for i := range out {
		if p := out[i].Population; p != nil && *p > 0 {
			out[i].PerMillion = float64(out[i].Incidents) / float64(*p) * 1e6
			out[i].HasRate = true
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		x, y := out[a], out[b]
		if x.HasRate != y.HasRate {
			return x.HasRate
		}
		if x.PerMillion != y.PerMillion {
			return x.PerMillion > y.PerMillion
		}
		return x.State < y.State
	})
	return out
}

func groupByState(incidents []model.Incident) []StateRate {
	idx := map[string]int{}
	var out []StateRate
	for _, inc := range incidents {
		i, ok := idx[inc.State]
		if !ok {
			i = len(out)
			idx[inc.State] = i
			out = append(out, StateRate{State: inc.State})
		}
		out[i].Incidents++
		if out[i].Population == nil && inc.Population != nil {
			p := *inc.Population
			out[i].Population = &p
		}
		if out[i].BaselinePopulation == nil && inc.BaselinePopulation != nil {
			p := *inc.BaselinePopulation
			out[i].BaselinePopulation = &p
		}
	}
	return out
}
