// Package analysis computes the grouped counts and rates reported by the CLI.
package analysis

import (
	"sort"

	"github.com/sells-group/shootings-cli/internal/model"
)

// RaceBreakdown is one row of the race × signs_of_mental_illness cross-tab.
type RaceBreakdown struct {
	Race string `json:"race"`
	// Counts is keyed by the flag value. A missing key means no row had that value.
	Counts     map[bool]int `json:"counts"`
	Percentage float64      `json:"signs_of_mental_illness_percentage"`
}

// Total returns the number of incidents in the row.
func (r RaceBreakdown) Total() int {
	return r.Counts[true] + r.Counts[false]
}

// CrossTab groups incidents by race and counts each mental-illness flag value. Rows without a
// race or without a readable flag are left out. Races are returned in ascending order.
func CrossTab(incidents []model.Incident) []RaceBreakdown {
	byRace := map[string]map[bool]int{}
	for _, inc := range incidents {
		if inc.Race == "" || !inc.MentalIllnessKnown {
			continue
		}
		counts, ok := byRace[inc.Race]
		if !ok {
			counts = map[bool]int{}
			byRace[inc.Race] = counts
		}
		counts[inc.MentalIllness]++
	}

	races := make([]string, 0, len(byRace))
	for r := range byRace {
		races = append(races, r)
	}
	sort.Strings(races)

	out := make([]RaceBreakdown, 0, len(races))
	for _, r := range races {
		out = append(out, RaceBreakdown{Race: r, Counts: byRace[r]})
	}
	return out
}

// MentalIllnessPercentage returns the share of true flags in counts, in percent. It is 0 when
// the total is 0 and when there is no true bucket at all; the result is always in [0, 100].
func MentalIllnessPercentage(counts map[bool]int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total <= 0 {
		return 0
	}
	yes, ok := counts[true]
	if !ok || yes <= 0 {
		return 0
	}
	return float64(yes) / float64(total) * 100
}

// WithPercentages returns a copy of rows with Percentage filled in.
func WithPercentages(rows []RaceBreakdown) []RaceBreakdown {
	out := make([]RaceBreakdown, len(rows))
	for i, r := range rows {
		r.Percentage = MentalIllnessPercentage(r.Counts)
		out[i] = r
	}
	return out
}

// TopRace returns the race with the strictly highest percentage. On ties the earlier row wins.
// ok is false when rows is empty.
func TopRace(rows []RaceBreakdown) (race string, ok bool) {
	best := -1.0
	for _, r := range rows {
		if r.Percentage > best {
			best = r.Percentage
			race = r.Race
			ok = true
		}
	}
	return race, ok
}
