package table

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses a CSV stream whose first record is the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // rows are fitted to the header instead
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrParse, "csv: missing header row")
	}
	if err != nil {
		return nil, eris.Wrapf(ErrParse, "csv: read header: %v", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if opts.TrimSpace {
		trimAll(header)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(ErrParse, "csv: read row %d: %v", len(rows)+2, err)
		}
		if opts.TrimSpace {
			trimAll(record)
		}
		rows = append(rows, record)
	}

	return New(header, rows), nil
}

// LoadCSV reads a CSV file from disk with default options.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	t, err := ReadCSV(f, CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrapf(err, "csv: %s", path)
	}
	return t, nil
}

func trimAll(record []string) {
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
}
