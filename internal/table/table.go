// Package table holds the in-memory tabular form shared by the CSV and HTML loaders:
// a header plus string rows, with column lookup that tolerates Wikipedia-style headers.
package table

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrParse marks malformed CSV or HTML input.
	ErrParse = eris.New("malformed input")
	// ErrNoColumn marks a lookup of a column the table does not have.
	ErrNoColumn = eris.New("no such column")
)

// Table is a header row plus data rows. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a table, padding or truncating rows to the header width.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

func fit(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the index of the first column whose normalized header equals the
// normalized name, or -1. Case, repeated whitespace, and footnote markers are ignored, so
// "Census population, April 1, 2020" matches "Census population, April 1, 2020 [1][2]".
func (t *Table) ColumnIndex(name string) int {
	want := NormalizeHeader(name)
	for i, c := range t.Columns {
		if NormalizeHeader(c) == want {
			return i
		}
	}
	return -1
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, eris.Wrapf(ErrNoColumn, "table: column %q", name)
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}

// DedupeBy returns a copy keeping only the first row for each distinct (cleaned) key in
// column. Row order is preserved.
func (t *Table) DedupeBy(column string) (*Table, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, eris.Wrapf(ErrNoColumn, "table: dedupe by %q", column)
	}
	seen := make(map[string]struct{}, len(t.Rows))
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		k := CleanCell(r[idx])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, append([]string(nil), r...))
	}
	return out, nil
}

// Lookup de-duplicates on key and returns a key -> value map of cleaned cells.
// Rows with an empty key are skipped.
func (t *Table) Lookup(key, value string) (map[string]string, error) {
	d, err := t.DedupeBy(key)
	if err != nil {
		return nil, err
	}
	ki, vi := d.ColumnIndex(key), d.ColumnIndex(value)
	if vi < 0 {
		return nil, eris.Wrapf(ErrNoColumn, "table: lookup value %q", value)
	}
	m := make(map[string]string, len(d.Rows))
	for _, r := range d.Rows {
		k := CleanCell(r[ki])
		if k == "" {
			continue
		}
		m[k] = CleanCell(r[vi])
	}
	return m, nil
}

var (
	footnoteRe   = regexp.MustCompile(`\[[^\[\]]{0,12}\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanCell strips footnote markers like [1] or [a], turns non-breaking spaces into spaces,
// and collapses whitespace.
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = footnoteRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NormalizeHeader is CleanCell plus lower-casing.
func NormalizeHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}
