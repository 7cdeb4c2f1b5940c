package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Cells read as null, on top of the empty string.
var naValues = map[string]bool{
	"NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"null": true, "NULL": true, "None": true, "<NA>": true,
}

// ReadCSV loads a CSV file with a header row.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

// Decode parses CSV from r. Non-null cells keep their source text; numeric
// consumers convert them with AsFloat, so untouched columns are written back
// byte for byte.
func Decode(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV: missing header row")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]any
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("line %d: %d fields for %d columns", line, len(record), len(header))
		}
		row := make([]any, len(header))
		for i, cell := range record {
			if cell == "" || naValues[cell] {
				continue
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}

	return New(header, rows)
}

// WriteCSV writes ds to path, creating parent directories.
func WriteCSV(ds *Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(ds, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes ds as CSV with a header row.
func Encode(ds *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.columns); err != nil {
		return err
	}
	rec := make([]string, len(ds.columns))
	for i, row := range ds.rows {
		for c, v := range row {
			rec[c] = FormatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DefaultOutputPath puts <stem><suffix>.csv next to the input file.
func DefaultOutputPath(input, suffix string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(input), stem+suffix+".csv")
}
