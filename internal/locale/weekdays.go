// Package locale holds the swappable label tables used to present weekday results.
package locale

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Weekdays maps each weekday to its display label, plus the chart captions and the top-race
// headline in that language.
type Weekdays struct {
	Tag    string                  `yaml:"tag"`
	Names  map[time.Weekday]string `yaml:"-"`
	Title  string                  `yaml:"title"`
	XLabel string                  `yaml:"x_label"`
	YLabel string                  `yaml:"y_label"`
	// TopRace introduces the race with the highest share of incidents showing signs of
	// mental illness.
	TopRace string `yaml:"top_race"`
}

// Order is the presentation order: Monday first, Sunday last.
var Order = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Polish is the default table.
var Polish = Weekdays{
	Tag: "pl",
	Names: map[time.Weekday]string{
		time.Monday:    "Poniedziałek",
		time.Tuesday:   "Wtorek",
		time.Wednesday: "Środa",
		time.Thursday:  "Czwartek",
		time.Friday:    "Piątek",
		time.Saturday:  "Sobota",
		time.Sunday:    "Niedziela",
	},
	Title:   "Liczba interwencji policji w poszczególne dni tygodnia",
	XLabel:  "Dzień tygodnia",
	YLabel:  "Liczba interwencji",
	TopRace: "Najwyższy procent ofiar z oznakami choroby psychicznej",
}

// English keeps the calendar names unchanged.
var English = Weekdays{
	Tag: "en",
	Names: map[time.Weekday]string{
		time.Monday:    "Monday",
		time.Tuesday:   "Tuesday",
		time.Wednesday: "Wednesday",
		time.Thursday:  "Thursday",
		time.Friday:    "Friday",
		time.Saturday:  "Saturday",
		time.Sunday:    "Sunday",
	},
	Title:   "Police interventions by day of week",
	XLabel:  "Day of week",
	YLabel:  "Interventions",
	TopRace: "Highest share of victims showing signs of mental illness",
}

var builtin = []Weekdays{Polish, English}

var matcher = language.NewMatcher([]language.Tag{
	language.Polish,
	language.English,
})

// ForLanguage picks the built-in table closest to a BCP 47 tag ("pl", "en-US", "pl-PL").
// Unknown or unparsable tags get Polish. The result is a copy the caller may modify.
func ForLanguage(tag string) Weekdays {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return Polish.Clone()
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return Polish.Clone()
	}
	return builtin[idx].Clone()
}

// Clone returns a copy of w with its own Names map.
func (w Weekdays) Clone() Weekdays {
	names := make(map[time.Weekday]string, len(w.Names))
	for d, s := range w.Names {
		names[d] = s
	}
	w.Names = names
	return w
}

// Label returns the localized name for day, falling back to the English name.
func (w Weekdays) Label(day time.Weekday) string {
	if s, ok := w.Names[day]; ok && s != "" {
		return s
	}
	return day.String()
}

type fileFormat struct {
	Tag     string            `yaml:"tag"`
	Title   string            `yaml:"title"`
	XLabel  string            `yaml:"x_label"`
	YLabel  string            `yaml:"y_label"`
	TopRace string            `yaml:"top_race"`
	Days    map[string]string `yaml:"days"`
}

// Parse reads a YAML weekday table. Day keys are English weekday names (any case).
// Missing days and captions fall back to English.
//
//	tag: de
//	title: Polizeieinsätze nach Wochentag
//	days:
//	  Monday: Montag
func Parse(data []byte) (Weekdays, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Weekdays{}, eris.Wrap(err, "locale: parse weekday table")
	}

	byName := make(map[string]time.Weekday, 7)
	for _, d := range Order {
		byName[strings.ToLower(d.String())] = d
	}

	w := Weekdays{
		Tag:     f.Tag,
		Names:   make(map[time.Weekday]string, 7),
		Title:   firstNonEmpty(f.Title, English.Title),
		XLabel:  firstNonEmpty(f.XLabel, English.XLabel),
		YLabel:  firstNonEmpty(f.YLabel, English.YLabel),
		TopRace: firstNonEmpty(f.TopRace, English.TopRace),
	}
	for k, v := range f.Days {
		d, ok := byName[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return Weekdays{}, eris.Errorf("locale: unknown weekday %q", k)
		}
		w.Names[d] = strings.TrimSpace(v)
	}
	for _, d := range Order {
		if w.Names[d] == "" {
			w.Names[d] = d.String()
		}
	}
	return w, nil
}

// LoadFile reads a YAML weekday table from disk.
func LoadFile(path string) (Weekdays, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weekdays{}, eris.Wrapf(err, "locale: read %s", path)
	}
	return Parse(data)
}

// Resolve returns the table from file when set, else the built-in for tag.
func Resolve(tag, file string) (Weekdays, error) {
	if file != "" {
		return LoadFile(file)
	}
	return ForLanguage(tag), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
