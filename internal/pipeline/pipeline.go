// Package pipeline wires the fetch cache, table loaders, enrichment and analyses into the
// report the CLI prints.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shootings-cli/internal/analysis"
	"github.com/sells-group/shootings-cli/internal/enrich"
	"github.com/sells-group/shootings-cli/internal/fetcher"
	"github.com/sells-group/shootings-cli/internal/locale"
	"github.com/sells-group/shootings-cli/internal/model"
	"github.com/sells-group/shootings-cli/internal/table"
)

// ErrNoTable means a lookup page was fetched but held no <table> elements.
var ErrNoTable = eris.New("no table found")

// Lookup locates a key/value pair of columns in one HTML table of a page.
type Lookup struct {
	URL   string
	Table int
	Key   string
	Value string
}

// PopulationLookup is the population table. Value holds the figure rates are computed from;
// Baseline names an optional earlier census column shown next to it.
type PopulationLookup struct {
	Lookup
	Baseline string
}

// Sources lists where each input comes from.
type Sources struct {
	IncidentsURL string
	StateCodes   Lookup
	Population   PopulationLookup
}

// URLs returns every source URL in load order.
func (s Sources) URLs() []string {
	return []string{s.IncidentsURL, s.StateCodes.URL, s.Population.URL}
}

// Pipeline runs the three analyses over cached inputs. It is sequential.
type Pipeline struct {
	cache   *fetcher.Cache
	sources Sources
	locale  locale.Weekdays
	log     *zap.Logger
}

// New creates a Pipeline. A nil logger falls back to the global one.
func New(cache *fetcher.Cache, sources Sources, loc locale.Weekdays, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.L()
	}
	return &Pipeline{cache: cache, sources: sources, locale: loc, log: log}
}

// Locale returns the weekday labels the pipeline localizes with.
func (p *Pipeline) Locale() locale.Weekdays { return p.locale }

// Fetch makes sure every source is present in the cache and returns the local paths.
func (p *Pipeline) Fetch(ctx context.Context) ([]string, error) {
	var paths []string
	for _, u := range p.sources.URLs() {
		path, _, err := p.cache.EnsureLocal(ctx, u)
		if err != nil {
			return paths, eris.Wrapf(err, "pipeline: fetch %s", u)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// LoadIncidents fetches (if needed) and parses the incident CSV, which may be shipped inside a
// ZIP archive. Failure here is terminal.
func (p *Pipeline) LoadIncidents(ctx context.Context) ([]model.Incident, error) {
	rc, err := p.openIncidents(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load incidents")
	}
	defer rc.Close() //nolint:errcheck

	t, err := table.ReadCSV(rc, table.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: parse incidents")
	}
	incidents, err := model.IncidentsFromTable(t)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read incidents")
	}
	p.log.Info("pipeline: incidents loaded", zap.Int("rows", len(incidents)))
	return incidents, nil
}

func (p *Pipeline) openIncidents(ctx context.Context) (io.ReadCloser, error) {
	u := p.sources.IncidentsURL
	path, err := p.cache.Path(u)
	if err != nil || !fetcher.IsZIP(path) {
		return p.cache.Open(ctx, u)
	}
	if _, _, err := p.cache.EnsureLocal(ctx, u); err != nil {
		return nil, err
	}
	return fetcher.OpenZIPEntry(path, ".csv")
}

// LoadLookup fetches (if needed) a page and extracts its index-th table. Failures are logged
// and returned so the caller can degrade instead of aborting.
func (p *Pipeline) LoadLookup(ctx context.Context, url string, index int) (*table.Table, error) {
	log := p.log.With(zap.String("url", url), zap.Int("table", index))

	rc, err := p.cache.Open(ctx, url)
	if err != nil {
		log.Warn("pipeline: lookup unavailable", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: load lookup")
	}
	defer rc.Close() //nolint:errcheck

	t, err := table.LoadHTMLTable(rc, index)
	if err != nil {
		log.Warn("pipeline: lookup unreadable", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: parse lookup")
	}
	if t == nil {
		log.Warn("pipeline: no tables found in document")
		return nil, eris.Wrapf(ErrNoTable, "pipeline: lookup %s", url)
	}
	return t, nil
}

// RaceReport is analysis 1.
type RaceReport struct {
	Rows    []analysis.RaceBreakdown
	TopRace string
	HasTop  bool
}

// Races builds the race × mental-illness cross-tab and picks the top race.
func (p *Pipeline) Races(incidents []model.Incident) RaceReport {
	rows := analysis.WithPercentages(analysis.CrossTab(incidents))
	top, ok := analysis.TopRace(rows)
	return RaceReport{Rows: rows, TopRace: top, HasTop: ok}
}

// WeekdayReport is analysis 2.
type WeekdayReport struct {
	Counts []analysis.WeekdayCount
	// Unparsed is the number of incidents whose date could not be read.
	Unparsed int
}

// Weekdays counts incidents per weekday and localizes the labels.
func (p *Pipeline) Weekdays(incidents []model.Incident) WeekdayReport {
	withDays, bad := analysis.AddDayOfWeek(incidents)
	counts := analysis.LocalizeWeekdays(analysis.CountByWeekday(withDays), p.locale)
	return WeekdayReport{Counts: counts, Unparsed: bad}
}

// YearReport counts incidents per calendar year.
type YearReport struct {
	Counts   []analysis.YearCount
	Unparsed int
}

// Years derives each incident's year and counts them.
func (p *Pipeline) Years(incidents []model.Incident) YearReport {
	withYears, bad := analysis.AddYear(incidents)
	return YearReport{Counts: analysis.CountByYear(withYears), Unparsed: bad}
}

// StateReport is analysis 3 plus the outcome of each join.
type StateReport struct {
	Rates      []analysis.StateRate
	Names      enrich.Outcome
	Population enrich.Outcome
	// Baseline is only meaningful when BaselineLabel is set.
	Baseline enrich.Outcome

	PopulationLabel string
	BaselineLabel   string
}

// States resolves state names, attaches population and computes per-capita rates. Lookup
// failures degrade the report; they never abort it.
func (p *Pipeline) States(ctx context.Context, incidents []model.Incident) StateReport {
	src := p.sources
	rep := StateReport{PopulationLabel: CensusLabel(src.Population.Value)}

	codes, err := p.LoadLookup(ctx, src.StateCodes.URL, src.StateCodes.Table)
	named, names := enrich.ResolveStateNames(incidents, codes, src.StateCodes.Key, src.StateCodes.Value, p.log)
	rep.Names = withCause(names, err)

	pops, err := p.LoadLookup(ctx, src.Population.URL, src.Population.Table)
	withPop, population := enrich.AttachPopulation(named, pops, src.Population.Key, src.Population.Value, p.log)
	rep.Population = withCause(population, err)

	if src.Population.Baseline != "" {
		var baseline enrich.Outcome
		withPop, baseline = enrich.AttachBaselinePopulation(withPop, pops, src.Population.Key, src.Population.Baseline, p.log)
		rep.Baseline = withCause(baseline, err)
		rep.BaselineLabel = CensusLabel(src.Population.Baseline)
	}

	rep.Rates = analysis.PerCapita(withPop)
	return rep
}

// withCause swaps a failed join's generic error for the lookup error that left it without a table.
func withCause(o enrich.Outcome, lookupErr error) enrich.Outcome {
	if o.Status == enrich.Failed && lookupErr != nil {
		o.Err = lookupErr
	}
	return o
}

// CensusLabel shortens a census column header ("Census population, April 1, 2020") to
// "population 2020". Headers that don't end in a year are returned unchanged.
func CensusLabel(column string) string {
	col := table.CleanCell(column)
	if len(col) < 4 {
		return col
	}
	year := col[len(col)-4:]
	for _, r := range year {
		if r < '0' || r > '9' {
			return col
		}
	}
	return "population " + year
}

// Quality records whether the report is complete and what degraded it.
type Quality struct {
	Complete bool     `json:"complete"`
	Issues   []string `json:"issues,omitempty"`
}

func (q *Quality) add(format string, args ...any) {
	q.Complete = false
	q.Issues = append(q.Issues, fmt.Sprintf(format, args...))
}

// Phase records how one step of a run went.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Result is the output of a full run.
type Result struct {
	RunID     string
	Incidents int
	Races     RaceReport
	Weekdays  WeekdayReport
	Years     YearReport
	States    StateReport
	Locale    locale.Weekdays
	Quality   Quality
	Phases    []Phase
}

// Run executes all three analyses. Only a failure to load incidents is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:   uuid.NewString(),
		Locale:  p.locale,
		Quality: Quality{Complete: true},
	}
	log := p.log.With(zap.String("run_id", res.RunID))
	log.Info("pipeline: starting run")

	track := func(name string, fn func()) {
		start := time.Now()
		fn()
		d := time.Since(start)
		res.Phases = append(res.Phases, Phase{Name: name, Duration: d})
		log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", d.Milliseconds()))
	}

	var incidents []model.Incident
	var loadErr error
	track("load", func() { incidents, loadErr = p.LoadIncidents(ctx) })
	if loadErr != nil {
		log.Error("pipeline: phase failed", zap.String("phase", "load"), zap.Error(loadErr))
		return nil, loadErr
	}
	res.Incidents = len(incidents)

	track("races", func() { res.Races = p.Races(incidents) })
	track("weekdays", func() { res.Weekdays = p.Weekdays(incidents) })
	track("years", func() { res.Years = p.Years(incidents) })
	track("states", func() { res.States = p.States(ctx, incidents) })

	res.Quality = assess(res)
	if !res.Quality.Complete {
		log.Warn("pipeline: report is incomplete", zap.Strings("issues", res.Quality.Issues))
	}
	return res, nil
}

func assess(res *Result) Quality {
	q := Quality{Complete: true}
	if !res.Races.HasTop {
		q.add("no race rows with a readable mental-illness flag")
	}
	if n := res.Weekdays.Unparsed; n > 0 {
		q.add("%d incident(s) with an unparseable date left out of the weekday counts", n)
	}
	sq := res.States.Quality()
	for _, issue := range sq.Issues {
		q.add("%s", issue)
	}
	return q
}

// Quality reports whether every join behind the state table fully matched.
func (r StateReport) Quality() Quality {
	q := Quality{Complete: true}
	joinIssue(&q, "state names", r.Names)
	joinIssue(&q, "population", r.Population)
	if r.BaselineLabel != "" {
		joinIssue(&q, r.BaselineLabel, r.Baseline)
	}
	return q
}

func joinIssue(q *Quality, name string, o enrich.Outcome) {
	switch o.Status {
	case enrich.Failed:
		q.add("%s join failed: %v", name, o.Err)
	case enrich.Partial:
		q.add("%s join partial: %d row(s) unmatched (%v)", name, o.Unmatched, o.Missing)
	}
}
