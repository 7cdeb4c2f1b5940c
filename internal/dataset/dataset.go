// Package dataset holds the in-memory table the pipeline stages pass along.
//
// A Dataset is an ordered list of rows over a fixed column schema. Cells are
// nil (null), string, float64 or time.Time. Every transform returns a new
// Dataset; callers never see their input mutated.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a dataset from column names and row values. Rows shorter than
// the schema are padded with nulls; longer rows are an error.
func New(columns []string, rows [][]any) (*Dataset, error) {
	ds := &Dataset{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]any, len(rows)),
	}
	for i, c := range columns {
		if _, dup := ds.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		ds.index[c] = i
	}
	for i, r := range rows {
		if len(r) > len(columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i, len(r), len(columns))
		}
		row := make([]any, len(columns))
		copy(row, r)
		ds.rows[i] = row
	}
	return ds, nil
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column names in schema order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Has reports whether col is part of the schema.
func (d *Dataset) Has(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Value returns the cell at (row, col), or nil if either is unknown.
func (d *Dataset) Value(row int, col string) any {
	i, ok := d.index[col]
	if !ok || row < 0 || row >= len(d.rows) {
		return nil
	}
	return d.rows[row][i]
}

// Column returns a copy of a column's cells.
func (d *Dataset) Column(col string) ([]any, error) {
	i, ok := d.index[col]
	if !ok {
		return nil, fmt.Errorf("column %q not found", col)
	}
	out := make([]any, len(d.rows))
	for r, row := range d.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Floats returns a numeric column. Null and non-numeric cells are skipped
// unless strict is set, in which case they are an error.
func (d *Dataset) Floats(col string, strict bool) ([]float64, error) {
	cells, err := d.Column(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(cells))
	for r, c := range cells {
		f, ok := AsFloat(c)
		if !ok || IsNull(c) {
			if strict {
				return nil, fmt.Errorf("column %q row %d: %v is not a number", col, r, c)
			}
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Strings returns a column rendered as text; nulls become "".
func (d *Dataset) Strings(col string) ([]string, error) {
	cells, err := d.Column(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cells))
	for r, c := range cells {
		out[r] = FormatCell(c)
	}
	return out, nil
}

// Clone deep-copies the row slices.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: append([]string(nil), d.columns...),
		index:   make(map[string]int, len(d.index)),
		rows:    make([][]any, len(d.rows)),
	}
	for k, v := range d.index {
		out.index[k] = v
	}
	for i, row := range d.rows {
		out.rows[i] = append([]any(nil), row...)
	}
	return out
}

// WithColumn returns a copy with col set to values. An existing column keeps
// its position; a new one is appended at the end.
func (d *Dataset) WithColumn(col string, values []any) (*Dataset, error) {
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", col, len(values), len(d.rows))
	}
	out := d.Clone()
	i, ok := out.index[col]
	if !ok {
		i = len(out.columns)
		out.columns = append(out.columns, col)
		out.index[col] = i
		for r := range out.rows {
			out.rows[r] = append(out.rows[r], nil)
		}
	}
	for r := range out.rows {
		out.rows[r][i] = values[r]
	}
	return out, nil
}

// IsNull reports whether a cell is missing. NaN floats count as missing.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// AsFloat converts a numeric cell. Strings are parsed; nulls are not numbers.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// FormatCell renders a cell the way it is written to CSV.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
