package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoData is returned when a CSV source holds no usable rows.
	ErrNoData = errors.New("timeseries: no valid data found in CSV")

	// ErrMissingColumn is returned when a requested column is not in the header.
	ErrMissingColumn = errors.New("timeseries: column not found")

	// ErrRaggedPanel is returned when the entities of a panel do not share
	// the same dates.
	ErrRaggedPanel = errors.New("timeseries: entities do not share the same dates")

	// ErrDuplicateDate is returned when one entity has two rows for the same
	// date, which usually means a panel was read without its ID column.
	ErrDuplicateDate = errors.New("timeseries: duplicate date")
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn   string   // Column name for dates (default: "date")
	ValueColumns []string // Columns to read as values (default: ["y"])
	IDColumn     string   // Column name for the entity ID (optional)
	IDFilter     string   // Keep only rows whose ID equals this value
	DateFormat   string   // Date format (default: "2006-01-02")
	Delimiter    rune     // Field delimiter (default: ',')
	SkipRows     int      // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:   "date",
		ValueColumns: []string{"y"},
		DateFormat:   "2006-01-02",
		Delimiter:    ',',
	}
}

// Frame is a panel of series: one row of columns per entity, all sharing the
// same dates.
type Frame struct {
	Timestamps []time.Time
	Entities   []string
	Columns    []string

	// values[e][c] is the series of column c for entity e.
	values [][][]float64
}

// Len returns the number of dates in the frame.
func (f *Frame) Len() int {
	return len(f.Timestamps)
}

// Column returns the series of the named column for every entity, in entity
// order.
func (f *Frame) Column(name string) ([][]float64, error) {
	c := f.columnIndex(name)
	if c < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([][]float64, len(f.Entities))
	for e := range f.Entities {
		out[e] = append([]float64(nil), f.values[e][c]...)
	}
	return out, nil
}

// SumColumns adds the named columns element-wise for every entity.
func (f *Frame) SumColumns(names ...string) ([][]float64, error) {
	out := make([][]float64, len(f.Entities))
	for e := range out {
		out[e] = make([]float64, f.Len())
	}
	for _, name := range names {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		for e := range col {
			for i, v := range col[e] {
				out[e][i] += v
			}
		}
	}
	return out, nil
}

// Series returns one column of one entity as a Series.
func (f *Frame) Series(entity, column string) (*Series, error) {
	e := -1
	for i, name := range f.Entities {
		if name == entity {
			e = i
			break
		}
	}
	if e < 0 {
		return nil, fmt.Errorf("timeseries: unknown entity %q", entity)
	}
	c := f.columnIndex(column)
	if c < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	s, err := NewWithTimestamps(append([]time.Time(nil), f.Timestamps...), append([]float64(nil), f.values[e][c]...))
	if err != nil {
		return nil, err
	}
	s.Name = column
	return s, nil
}

func (f *Frame) columnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// LoadCSV loads a time series from a CSV file, using the first value column.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a single series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	f, err := LoadFrameFromReader(r, opts)
	if err != nil {
		return nil, err
	}
	if len(f.Entities) != 1 {
		return nil, fmt.Errorf("timeseries: want one series, found %d entities", len(f.Entities))
	}
	return f.Series(f.Entities[0], f.Columns[0])
}

// LoadFrame loads a panel from a CSV file.
func LoadFrame(filename string, opts *CSVOptions) (*Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFrameFromReader(file, opts)
}

// LoadFrameFromReader reads a long-format CSV with one row per (entity, date)
// and groups it into a Frame. Rows with a missing or non-numeric value in any
// requested column are skipped. Without an ID column every row belongs to a
// single entity named after the first value column.
func LoadFrameFromReader(r io.Reader, opts *CSVOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	columns := opts.ValueColumns
	if len(columns) == 0 {
		columns = []string{"y"}
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[clean(h)] = i
	}
	dateIdx, ok := index[opts.DateColumn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.DateColumn)
	}
	idIdx := -1
	if opts.IDColumn != "" {
		if idIdx, ok = index[opts.IDColumn]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opts.IDColumn)
		}
	}
	valueIdx := make([]int, len(columns))
	for i, c := range columns {
		if valueIdx[i], ok = index[c]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	type row struct {
		ts     time.Time
		values []float64
	}
	var entities []string
	rows := make(map[string][]row)
	dates := make(map[string]map[int64]bool)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < len(header) {
			continue
		}

		entity := columns[0]
		if idIdx >= 0 {
			entity = clean(record[idIdx])
			if opts.IDFilter != "" && entity != opts.IDFilter {
				continue
			}
		}

		values, ok := parseValues(record, valueIdx)
		if !ok {
			continue
		}
		ts, err := parseDate(clean(record[dateIdx]), opts.DateFormat)
		if err != nil {
			return nil, err
		}

		if _, seen := rows[entity]; !seen {
			entities = append(entities, entity)
			dates[entity] = make(map[int64]bool)
		}
		if dates[entity][ts.UnixNano()] {
			return nil, fmt.Errorf("%w: %q has more than one row for %s", ErrDuplicateDate, entity, ts.Format(time.DateOnly))
		}
		dates[entity][ts.UnixNano()] = true
		rows[entity] = append(rows[entity], row{ts: ts, values: values})
	}

	if len(entities) == 0 {
		return nil, ErrNoData
	}

	f := &Frame{
		Entities: entities,
		Columns:  append([]string(nil), columns...),
		values:   make([][][]float64, len(entities)),
	}
	for _, first := range rows[entities[0]] {
		f.Timestamps = append(f.Timestamps, first.ts)
	}
	for e, name := range entities {
		rs := rows[name]
		if len(rs) != len(f.Timestamps) {
			return nil, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrRaggedPanel, name, len(rs), entities[0], len(f.Timestamps))
		}
		f.values[e] = make([][]float64, len(columns))
		for c := range columns {
			f.values[e][c] = make([]float64, len(rs))
		}
		for i, rw := range rs {
			if !rw.ts.Equal(f.Timestamps[i]) {
				return nil, fmt.Errorf("%w: %q row %d is %s, want %s", ErrRaggedPanel, name, i, rw.ts.Format(time.DateOnly), f.Timestamps[i].Format(time.DateOnly))
			}
			for c, v := range rw.values {
				f.values[e][c][i] = v
			}
		}
	}
	return f, nil
}

// WriteCSV writes series side by side under a shared date column. All series
// must have the same length; dates come from the first.
func WriteCSV(w io.Writer, series ...*Series) error {
	if len(series) == 0 {
		return errors.New("timeseries: nothing to write")
	}
	n := series[0].Len()
	header := []string{"date"}
	for i, s := range series {
		if s.Len() != n {
			return fmt.Errorf("timeseries: series %q has %d values, want %d", s.Name, s.Len(), n)
		}
		name := s.Name
		if name == "" {
			name = "y" + strconv.Itoa(i)
		}
		header = append(header, name)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i := 0; i < n; i++ {
		if len(series[0].Timestamps) == n {
			record[0] = series[0].Timestamps[i].Format(time.DateOnly)
		} else {
			record[0] = strconv.Itoa(i + 1)
		}
		for j, s := range series {
			record[j+1] = strconv.FormatFloat(s.Values[i], 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

func parseValues(record []string, idx []int) ([]float64, bool) {
	values := make([]float64, len(idx))
	for i, j := range idx {
		s := clean(record[j])
		if s == "" || s == "NA" || s == "NaN" || s == "null" {
			return nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func parseDate(s, format string) (time.Time, error) {
	formats := []string{
		format,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02-Jan-2006",
	}
	for _, f := range formats {
		if f == "" {
			continue
		}
		if ts, err := time.Parse(f, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timeseries: cannot parse date %q", s)
}
