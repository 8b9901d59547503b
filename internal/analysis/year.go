package analysis

import (
	"sort"

	"github.com/sells-group/shootings-cli/internal/model"
)

// Year parses an incident date and returns its calendar year.
func Year(date string) (int, error) {
	t, err := parseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// AddYear returns a copy of incidents with Year set from Date. Rows whose date can't be
// parsed keep a zero Year; their number is returned.
func AddYear(incidents []model.Incident) ([]model.Incident, int) {
	out := model.Clone(incidents)
	bad := 0
	for i := range out {
		y, err := Year(out[i].Date)
		if err != nil {
			out[i].Year = 0
			bad++
			continue
		}
		out[i].Year = y
	}
	return out, bad
}

// YearCount is the number of incidents in one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CountByYear counts incidents per Year, oldest first. Rows without a year are ignored.
func CountByYear(incidents []model.Incident) []YearCount {
	counts := map[int]int{}
	for _, inc := range incidents {
		if inc.Year != 0 {
			counts[inc.Year]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Year < out[b].Year })
	return out
}
