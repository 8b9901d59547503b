// Package enrich left-joins incidents against the state lookup tables.
package enrich

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/shootings-cli/internal/model"
	"github.com/sells-group/shootings-cli/internal/table"
)

// ErrJoin means a join could not run at all (missing lookup or columns).
var ErrJoin = eris.New("join failed")

// Status summarizes how a join went.
type Status int

const (
	// Enriched: every row matched.
	Enriched Status = iota
	// Partial: the join ran but some rows found no match.
	Partial
	// Failed: the join did not run; rows are returned unchanged.
	Failed
)

func (s Status) String() string {
	switch s {
	case Enriched:
		return "enriched"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports a join's coverage alongside its result.
type Outcome struct {
	Status    Status
	Matched   int
	Unmatched int
	// Missing lists distinct keys with no match, in first-seen order.
	Missing []string
	Err     error
}

// ResolveStateNames replaces each incident's state code with the full name found in codes.
// Unmatched codes are kept as they are. No rows are dropped and the input is not modified.
func ResolveStateNames(incidents []model.Incident, codes *table.Table, keyCol, valueCol string, log *zap.Logger) ([]model.Incident, Outcome) {
	log = orGlobal(log).With(zap.String("join", "state_names"))
	out := model.Clone(incidents)

	lookup, err := buildLookup(codes, keyCol, valueCol)
	if err != nil {
		return out, failed(log, err)
	}

	o := outcomeTracker{}
	for i := range out {
		name, ok := lookup[table.CleanCell(out[i].State)]
		if !ok || name == "" {
			o.miss(out[i].State)
			continue
		}
		out[i].State = name
		o.hit()
	}
	return out, o.finish(log)
}

// AttachPopulation sets each incident's Population from pops, keyed by the state name.
// Incidents with no match, or whose figure is not a number, get a nil Population.
func AttachPopulation(incidents []model.Incident, pops *table.Table, keyCol, valueCol string, log *zap.Logger) ([]model.Incident, Outcome) {
	log = orGlobal(log).With(zap.String("join", "population"))
	return attachFigure(incidents, pops, keyCol, valueCol, log, func(inc *model.Incident) **int64 {
		return &inc.Population
	})
}

// AttachBaselinePopulation is AttachPopulation for the earlier census figure. It only touches
// BaselinePopulation, so rates keep using Population.
func AttachBaselinePopulation(incidents []model.Incident, pops *table.Table, keyCol, valueCol string, log *zap.Logger) ([]model.Incident, Outcome) {
	log = orGlobal(log).With(zap.String("join", "baseline_population"))
	return attachFigure(incidents, pops, keyCol, valueCol, log, func(inc *model.Incident) **int64 {
		return &inc.BaselinePopulation
	})
}

func attachFigure(incidents []model.Incident, pops *table.Table, keyCol, valueCol string, log *zap.Logger, field func(*model.Incident) **int64) ([]model.Incident, Outcome) {
	out := model.Clone(incidents)

	lookup, err := buildLookup(pops, keyCol, valueCol)
	if err != nil {
		return out, failed(log, err)
	}

	o := outcomeTracker{}
	for i := range out {
		dst := field(&out[i])
		*dst = nil
		raw, ok := lookup[table.CleanCell(out[i].State)]
		if !ok {
			o.miss(out[i].State)
			continue
		}
		n, err := ParsePopulation(raw)
		if err != nil {
			log.Debug("unparseable population", zap.String("state", out[i].State), zap.String("value", raw))
			o.miss(out[i].State)
			continue
		}
		*dst = &n
		o.hit()
	}
	return out, o.finish(log)
}

// ParsePopulation reads a figure such as "39,538,223[4]" as an integer.
func ParsePopulation(s string) (int64, error) {
	s = table.CleanCell(s)
	s = strings.NewReplacer(",", "", " ", "", "\u202f", "").Replace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "enrich: parse population %q", s)
	}
	return n, nil
}

func buildLookup(t *table.Table, keyCol, valueCol string) (map[string]string, error) {
	if t == nil {
		return nil, eris.Wrap(ErrJoin, "enrich: lookup table is missing")
	}
	if t.ColumnIndex(keyCol) < 0 || t.ColumnIndex(valueCol) < 0 {
		return nil, eris.Wrapf(ErrJoin, "enrich: lookup needs columns %q and %q, have %q", keyCol, valueCol, t.Columns)
	}
	m, err := t.Lookup(keyCol, valueCol)
	if err != nil {
		return nil, eris.Wrap(ErrJoin, err.Error())
	}
	return m, nil
}

func failed(log *zap.Logger, err error) Outcome {
	log.Warn("join skipped, rows left unchanged", zap.Error(err))
	return Outcome{Status: Failed, Err: err}
}

type outcomeTracker struct {
	Outcome
	seen map[string]struct{}
}

func (o *outcomeTracker) hit() { o.Matched++ }

func (o *outcomeTracker) miss(key string) {
	o.Unmatched++
	if o.seen == nil {
		o.seen = map[string]struct{}{}
	}
	if _, ok := o.seen[key]; ok {
		return
	}
	o.seen[key] = struct{}{}
	o.Missing = append(o.Missing, key)
}

func (o *outcomeTracker) finish(log *zap.Logger) Outcome {
	o.Status = Enriched
	if o.Unmatched > 0 {
		o.Status = Partial
		log.Info("join incomplete",
			zap.Int("matched", o.Matched),
			zap.Int("unmatched", o.Unmatched),
			zap.Strings("missing", o.Missing),
		)
	} else {
		log.Debug("join complete", zap.Int("matched", o.Matched))
	}
	return o.Outcome
}

func orGlobal(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.L()
	}
	return log
}
