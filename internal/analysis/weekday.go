package analysis

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/shootings-cli/internal/locale"
	"github.com/sells-group/shootings-cli/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

func parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, nil
		}
	}
	if len(date) > 10 {
		if t, err := time.Parse(dateLayouts[0], date[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("analysis: unrecognized date %q", date)
}

// DayOfWeek parses an incident date and returns its weekday (Sunday = 0).
func DayOfWeek(date string) (time.Weekday, error) {
	t, err := parseDate(date)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// AddDayOfWeek returns a copy of incidents with DayOfWeek set to the English weekday name.
// Rows whose date can't be parsed keep an empty DayOfWeek; their number is returned.
func AddDayOfWeek(incidents []model.Incident) ([]model.Incident, int) {
	out := model.Clone(incidents)
	bad := 0
	for i := range out {
		d, err := DayOfWeek(out[i].Date)
		if err != nil {
			out[i].DayOfWeek = ""
			bad++
			continue
		}
		out[i].DayOfWeek = d.String()
	}
	return out, bad
}

// CountByWeekday counts incidents per DayOfWeek. Rows without a recognized day are ignored.
func CountByWeekday(incidents []model.Incident) map[time.Weekday]int {
	byName := make(map[string]time.Weekday, 7)
	for _, d := range locale.Order {
		byName[d.String()] = d
	}

	counts := map[time.Weekday]int{}
	for _, inc := range incidents {
		if d, ok := byName[inc.DayOfWeek]; ok {
			counts[d]++
		}
	}
	return counts
}

// WeekdayCount is one bar of the weekday chart.
type WeekdayCount struct {
	Day   time.Weekday `json:"-"`
	Label string       `json:"day"`
	Count int          `json:"count"`
}

// LocalizeWeekdays reindexes counts onto all seven weekdays, Monday first, filling absent days
// with zero and labeling each with loc.
func LocalizeWeekdays(counts map[time.Weekday]int, loc locale.Weekdays) []WeekdayCount {
	out := make([]WeekdayCount, 0, len(locale.Order))
	for _, d := range locale.Order {
		out = append(out, WeekdayCount{Day: d, Label: loc.Label(d), Count: counts[d]})
	}
	return out
}
